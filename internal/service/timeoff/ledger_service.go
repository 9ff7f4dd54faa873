package timeoff

import (
	"context"
	"fmt"
	"time"

	"github.com/havenridge/residence-backend-go/internal/domain/employee"
	"github.com/havenridge/residence-backend-go/internal/domain/timeoff"
	"github.com/havenridge/residence-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// LedgerService owns the ledger append + balance update pair. Every balance
// change in the system, workflow-driven or administrative, goes through
// apply, which runs both writes on one transaction.
type LedgerService struct {
	tx         timeoff.Transactor
	leaveTypes timeoff.LeaveTypeRepository
	ledger     timeoff.LedgerRepository
	balances   timeoff.BalanceRepository
	employees  employee.EmployeeRepository
}

func NewLedgerService(
	tx timeoff.Transactor,
	leaveTypeRepository timeoff.LeaveTypeRepository,
	ledgerRepository timeoff.LedgerRepository,
	balanceRepository timeoff.BalanceRepository,
	employeeRepository employee.EmployeeRepository,
) *LedgerService {
	return &LedgerService{
		tx:         tx,
		leaveTypes: leaveTypeRepository,
		ledger:     ledgerRepository,
		balances:   balanceRepository,
		employees:  employeeRepository,
	}
}

type applyParams struct {
	EmployeeID       string
	LeaveTypeID      string
	Amount           decimal.Decimal
	Source           timeoff.EntrySource
	SourceRequestID  *string
	EffectiveDate    time.Time
	Memo             *string
	CreatedByUserID  string
	GuardNonNegative bool
}

// apply ensures the balance row exists, appends the ledger entry, and moves
// the balance, in that order, on the caller's transaction. A guarded apply
// that would drive the balance negative returns ErrInsufficientBalance and
// leaves nothing behind once the transaction rolls back.
func (s *LedgerService) apply(ctx context.Context, p applyParams) (timeoff.LedgerEntry, timeoff.Balance, error) {
	if err := s.balances.EnsureRow(ctx, p.EmployeeID, p.LeaveTypeID); err != nil {
		return timeoff.LedgerEntry{}, timeoff.Balance{}, err
	}

	entry, err := s.ledger.Append(ctx, timeoff.LedgerEntry{
		EmployeeID:      p.EmployeeID,
		LeaveTypeID:     p.LeaveTypeID,
		AmountHours:     p.Amount,
		Source:          p.Source,
		SourceRequestID: p.SourceRequestID,
		EffectiveDate:   p.EffectiveDate,
		Memo:            p.Memo,
		CreatedByUserID: p.CreatedByUserID,
	})
	if err != nil {
		return timeoff.LedgerEntry{}, timeoff.Balance{}, err
	}

	balance, err := s.balances.ApplyDelta(ctx, p.EmployeeID, p.LeaveTypeID, p.Amount, p.GuardNonNegative)
	if err != nil {
		return timeoff.LedgerEntry{}, timeoff.Balance{}, err
	}

	return entry, balance, nil
}

func (s *LedgerService) GetBalances(ctx context.Context, caller user.CallerContext, employeeID string) ([]timeoff.BalanceResponse, error) {
	if !caller.HRPrivileged() && !caller.OwnsEmployee(employeeID) {
		return nil, user.ErrHRRoleRequired
	}

	// Callers never see an active leave type silently absent.
	if err := s.balances.EnsureRowsForActiveTypes(ctx, employeeID); err != nil {
		return nil, err
	}

	balances, err := s.balances.GetByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}

	responses := make([]timeoff.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, timeoff.NewBalanceResponse(b))
	}
	return responses, nil
}

func (s *LedgerService) ListLedger(ctx context.Context, caller user.CallerContext, employeeID string) ([]timeoff.LedgerEntryResponse, error) {
	if !caller.HRPrivileged() && !caller.OwnsEmployee(employeeID) {
		return nil, user.ErrHRRoleRequired
	}

	entries, err := s.ledger.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger: %w", err)
	}

	responses := make([]timeoff.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, timeoff.NewLedgerEntryResponse(e))
	}
	return responses, nil
}

// PostAdjustment records an out-of-band correction. Unlike approval it is
// unguarded: HR adjustments may push a balance down, including negative
// corrections that net against earlier credits, as long as the stored
// balance itself stays non-negative.
func (s *LedgerService) PostAdjustment(ctx context.Context, caller user.CallerContext, req timeoff.PostAdjustmentRequest) (timeoff.AdjustmentResult, error) {
	if !caller.HRPrivileged() {
		return timeoff.AdjustmentResult{}, user.ErrHRRoleRequired
	}
	if err := req.Validate(); err != nil {
		return timeoff.AdjustmentResult{}, err
	}

	// Existence only: adjustments may still target inactive employees,
	// corrections after offboarding included.
	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return timeoff.AdjustmentResult{}, err
	}

	leaveType, err := s.leaveTypes.GetByCode(ctx, req.LeaveTypeCode)
	if err != nil {
		return timeoff.AdjustmentResult{}, err
	}
	if !leaveType.IsActive {
		return timeoff.AdjustmentResult{}, timeoff.ErrLeaveTypeInactive
	}

	effectiveDate := today()
	if req.EffectiveDate != nil {
		effectiveDate, err = parseDate(*req.EffectiveDate)
		if err != nil {
			return timeoff.AdjustmentResult{}, err
		}
	}

	var entry timeoff.LedgerEntry
	var balance timeoff.Balance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		entry, balance, err = s.apply(ctx, applyParams{
			EmployeeID:      req.EmployeeID,
			LeaveTypeID:     leaveType.ID,
			Amount:          req.AmountHours,
			Source:          timeoff.EntrySource(req.Source),
			EffectiveDate:   effectiveDate,
			Memo:            req.Memo,
			CreatedByUserID: caller.UserID,
		})
		return err
	})
	if err != nil {
		return timeoff.AdjustmentResult{}, err
	}

	entryResp := timeoff.NewLedgerEntryResponse(entry)
	return timeoff.AdjustmentResult{
		Entry:   &entryResp,
		Balance: timeoff.NewBalanceResponse(balance),
	}, nil
}

// SetTargetBalance is a convenience wrapper: it computes the delta to the
// requested target and posts it as a manual adjustment. A zero delta writes
// nothing, so repeated calls leave no ledger noise.
func (s *LedgerService) SetTargetBalance(ctx context.Context, caller user.CallerContext, req timeoff.SetTargetBalanceRequest) (timeoff.AdjustmentResult, error) {
	if !caller.HRPrivileged() {
		return timeoff.AdjustmentResult{}, user.ErrHRRoleRequired
	}
	if err := req.Validate(); err != nil {
		return timeoff.AdjustmentResult{}, err
	}

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return timeoff.AdjustmentResult{}, err
	}

	leaveType, err := s.leaveTypes.GetByCode(ctx, req.LeaveTypeCode)
	if err != nil {
		return timeoff.AdjustmentResult{}, err
	}
	if !leaveType.IsActive {
		return timeoff.AdjustmentResult{}, timeoff.ErrLeaveTypeInactive
	}

	var entry *timeoff.LedgerEntry
	var balance timeoff.Balance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.balances.EnsureRow(ctx, req.EmployeeID, leaveType.ID); err != nil {
			return err
		}

		// Locked read: the delta below is computed from this value, so the
		// row must not move under us before apply runs.
		current, err := s.balances.GetForUpdate(ctx, req.EmployeeID, leaveType.ID)
		if err != nil {
			return err
		}

		delta := req.TargetHours.Sub(current.CurrentHours)
		if delta.IsZero() {
			balance = current
			return nil
		}

		created, updated, err := s.apply(ctx, applyParams{
			EmployeeID:      req.EmployeeID,
			LeaveTypeID:     leaveType.ID,
			Amount:          delta,
			Source:          timeoff.SourceManualAdjustment,
			EffectiveDate:   today(),
			Memo:            req.Memo,
			CreatedByUserID: caller.UserID,
		})
		if err != nil {
			return err
		}
		entry = &created
		balance = updated
		return nil
	})
	if err != nil {
		return timeoff.AdjustmentResult{}, err
	}

	result := timeoff.AdjustmentResult{Balance: timeoff.NewBalanceResponse(balance)}
	if entry != nil {
		entryResp := timeoff.NewLedgerEntryResponse(*entry)
		result.Entry = &entryResp
	}
	return result, nil
}
