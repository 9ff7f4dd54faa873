package timeoff

import (
	"context"
	"fmt"

	"github.com/havenridge/residence-backend-go/internal/domain/employee"
	"github.com/havenridge/residence-backend-go/internal/domain/timeoff"
	"github.com/havenridge/residence-backend-go/internal/domain/user"
)

// RequestService drives the time-off request state machine. Ledger effects
// of a transition always share the transaction with the conditional status
// flip, so a failed guard rolls the flip back too.
type RequestService struct {
	tx         timeoff.Transactor
	ledger     *LedgerService
	leaveTypes timeoff.LeaveTypeRepository
	requests   timeoff.RequestRepository
	employees  employee.EmployeeRepository
}

func NewRequestService(
	tx timeoff.Transactor,
	ledgerService *LedgerService,
	leaveTypeRepository timeoff.LeaveTypeRepository,
	requestRepository timeoff.RequestRepository,
	employeeRepository employee.EmployeeRepository,
) *RequestService {
	return &RequestService{
		tx:         tx,
		ledger:     ledgerService,
		leaveTypes: leaveTypeRepository,
		requests:   requestRepository,
		employees:  employeeRepository,
	}
}

// Create files a new request. HR callers may file on behalf of any employee;
// everyone else files for their own linked employee record. Requests created
// by HR on behalf of someone still start Pending and need an independent
// review.
func (s *RequestService) Create(ctx context.Context, caller user.CallerContext, req timeoff.CreateRequestRequest) (timeoff.TimeOffRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}

	employeeID, err := s.resolveEmployeeID(caller, req.EmployeeID)
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}
	if !emp.IsActive {
		return timeoff.TimeOffRequestResponse{}, employee.ErrEmployeeInactive
	}

	leaveType, err := s.leaveTypes.GetByCode(ctx, req.LeaveTypeCode)
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}
	if !leaveType.IsActive {
		return timeoff.TimeOffRequestResponse{}, timeoff.ErrLeaveTypeInactive
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	// No balance check here: the request may sit pending while the balance
	// moves, so the non-negative guard runs against the freshest balance at
	// approval time instead.
	created, err := s.requests.Create(ctx, timeoff.TimeOffRequest{
		EmployeeID:        employeeID,
		LeaveTypeID:       leaveType.ID,
		StartDate:         startDate,
		EndDate:           endDate,
		RequestedHours:    req.RequestedHours,
		Status:            timeoff.StatusPending,
		RequestedByUserID: caller.UserID,
		Notes:             req.Notes,
	})
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, fmt.Errorf("failed to create time off request: %w", err)
	}

	created.LeaveTypeCode = &leaveType.Code
	created.LeaveTypeName = &leaveType.Name
	created.EmployeeName = &emp.FullName
	return timeoff.NewTimeOffRequestResponse(created), nil
}

func (s *RequestService) resolveEmployeeID(caller user.CallerContext, requested *string) (string, error) {
	if requested != nil && *requested != "" {
		if !caller.HRPrivileged() && !caller.OwnsEmployee(*requested) {
			return "", user.ErrHRRoleRequired
		}
		return *requested, nil
	}
	if caller.EmployeeID == nil {
		return "", user.ErrNoLinkedEmployee
	}
	return *caller.EmployeeID, nil
}

func (s *RequestService) Get(ctx context.Context, caller user.CallerContext, requestID string) (timeoff.TimeOffRequestResponse, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}
	if !caller.HRPrivileged() && !caller.OwnsEmployee(req.EmployeeID) {
		return timeoff.TimeOffRequestResponse{}, timeoff.ErrRequestNotFound
	}
	return timeoff.NewTimeOffRequestResponse(req), nil
}

// List returns requests matching the filter. Non-HR callers are always
// constrained to their own employee id, whatever the filter says.
func (s *RequestService) List(ctx context.Context, caller user.CallerContext, filter timeoff.RequestFilter) ([]timeoff.TimeOffRequestResponse, error) {
	if !caller.HRPrivileged() {
		if caller.EmployeeID == nil {
			return nil, user.ErrNoLinkedEmployee
		}
		filter.EmployeeID = caller.EmployeeID
	}

	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list time off requests: %w", err)
	}

	responses := make([]timeoff.TimeOffRequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, timeoff.NewTimeOffRequestResponse(req))
	}
	return responses, nil
}

// Approve flips pending -> approved and debits the balance, all in one
// transaction. The conditional flip is the compare-and-swap: a concurrent
// second approval matches no row and fails cleanly instead of double
// debiting. An insufficient balance rolls the flip back as well.
func (s *RequestService) Approve(ctx context.Context, caller user.CallerContext, requestID string) (timeoff.TimeOffRequestResponse, error) {
	if !caller.HRPrivileged() {
		return timeoff.TimeOffRequestResponse{}, user.ErrHRRoleRequired
	}

	var approved timeoff.TimeOffRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		req, err := s.requests.TransitionFromPending(ctx, requestID, timeoff.StatusApproved, caller.UserID, nil)
		if err != nil {
			return err
		}

		_, _, err = s.ledger.apply(ctx, applyParams{
			EmployeeID:       req.EmployeeID,
			LeaveTypeID:      req.LeaveTypeID,
			Amount:           req.RequestedHours.Neg(),
			Source:           timeoff.SourceApprovedRequest,
			SourceRequestID:  &req.ID,
			EffectiveDate:    today(),
			CreatedByUserID:  caller.UserID,
			GuardNonNegative: true,
		})
		if err != nil {
			return err
		}

		approved = req
		return nil
	})
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}

	return timeoff.NewTimeOffRequestResponse(approved), nil
}

// Deny flips pending -> denied. No ledger effect: nothing was ever debited.
func (s *RequestService) Deny(ctx context.Context, caller user.CallerContext, requestID string, notes *string) (timeoff.TimeOffRequestResponse, error) {
	if !caller.HRPrivileged() {
		return timeoff.TimeOffRequestResponse{}, user.ErrHRRoleRequired
	}

	denied, err := s.requests.TransitionFromPending(ctx, requestID, timeoff.StatusDenied, caller.UserID, notes)
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}

	return timeoff.NewTimeOffRequestResponse(denied), nil
}

// AdminCancel cancels a pending or an approved request. Cancelling an
// approved request posts a reversing credit so the net ledger effect of the
// request becomes zero; the history keeps both entries. The original
// reviewer fields survive the cancellation.
func (s *RequestService) AdminCancel(ctx context.Context, caller user.CallerContext, requestID string) (timeoff.TimeOffRequestResponse, error) {
	if !caller.HRPrivileged() {
		return timeoff.TimeOffRequestResponse{}, user.ErrHRRoleRequired
	}

	var cancelled timeoff.TimeOffRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		req, err := s.requests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		switch req.Status {
		case timeoff.StatusCancelled:
			return timeoff.ErrAlreadyCancelled

		case timeoff.StatusPending:
			cancelled, err = s.requests.TransitionFromPending(ctx, requestID, timeoff.StatusCancelled, caller.UserID, nil)
			return err

		case timeoff.StatusApproved:
			cancelled, err = s.requests.TransitionFromApproved(ctx, requestID, timeoff.StatusCancelled)
			if err != nil {
				return err
			}
			_, _, err = s.ledger.apply(ctx, applyParams{
				EmployeeID:      req.EmployeeID,
				LeaveTypeID:     req.LeaveTypeID,
				Amount:          req.RequestedHours,
				Source:          timeoff.SourceRequestReversal,
				SourceRequestID: &req.ID,
				EffectiveDate:   today(),
				CreatedByUserID: caller.UserID,
			})
			return err

		default:
			return timeoff.ErrRequestNotPending
		}
	})
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}

	return timeoff.NewTimeOffRequestResponse(cancelled), nil
}

// SelfCancel lets the requesting employee withdraw their own pending
// request. The ownership check is part of the conditional update itself.
func (s *RequestService) SelfCancel(ctx context.Context, caller user.CallerContext, requestID string) (timeoff.TimeOffRequestResponse, error) {
	if caller.EmployeeID == nil {
		return timeoff.TimeOffRequestResponse{}, user.ErrNoLinkedEmployee
	}

	withdrawn, err := s.requests.WithdrawOwnPending(ctx, requestID, *caller.EmployeeID)
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}

	return timeoff.NewTimeOffRequestResponse(withdrawn), nil
}
