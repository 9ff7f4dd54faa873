package timeoff

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Transactor runs fn inside a single database transaction. Repository calls
// made with the ctx passed to fn join that transaction; any error returned by
// fn rolls back every write made inside it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// LeaveTypeRepository - interface for the leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	// GetByCode resolves a code case-insensitively.
	GetByCode(ctx context.Context, code string) (LeaveType, error)
	List(ctx context.Context, activeOnly bool) ([]LeaveType, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// LedgerRepository - append-only interface for the ledger_entries table.
// There is deliberately no update or delete.
type LedgerRepository interface {
	Append(ctx context.Context, entry LedgerEntry) (LedgerEntry, error)
	// ListByEmployee returns the audit view: newest effective date first,
	// ties broken by creation order.
	ListByEmployee(ctx context.Context, employeeID string) ([]LedgerEntry, error)
}

// BalanceRepository - interface for the balances table
type BalanceRepository interface {
	// EnsureRow creates a zero balance row if absent. Idempotent and safe
	// under concurrent calls for the same key.
	EnsureRow(ctx context.Context, employeeID, leaveTypeID string) error
	// EnsureRowsForActiveTypes creates missing zero rows for every active
	// leave type in one statement.
	EnsureRowsForActiveTypes(ctx context.Context, employeeID string) error
	// ApplyDelta increments the balance row by delta. When guardNonNegative
	// is set and the result would drop below zero, no row is updated and
	// ErrInsufficientBalance is returned.
	ApplyDelta(ctx context.Context, employeeID, leaveTypeID string, delta decimal.Decimal, guardNonNegative bool) (Balance, error)
	Get(ctx context.Context, employeeID, leaveTypeID string) (Balance, error)
	// GetForUpdate locks the balance row for the rest of the transaction, so
	// a decision based on the read cannot race a concurrent delta.
	GetForUpdate(ctx context.Context, employeeID, leaveTypeID string) (Balance, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]Balance, error)
}

// RequestFilter narrows List results. Non-HR callers always have EmployeeID
// forced to their own id by the service.
type RequestFilter struct {
	EmployeeID  *string
	Status      *RequestStatus
	LeaveTypeID *string
	DateFrom    *time.Time
	DateTo      *time.Time
}

// RequestRepository - interface for the time_off_requests table. The
// Transition* methods are conditional updates: the WHERE clause on the
// current status is the compare-and-swap that serializes concurrent
// transitions on the same request.
type RequestRepository interface {
	Create(ctx context.Context, request TimeOffRequest) (TimeOffRequest, error)
	GetByID(ctx context.Context, id string) (TimeOffRequest, error)
	// GetByIDForUpdate locks the row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id string) (TimeOffRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]TimeOffRequest, error)
	// TransitionFromPending flips status only if it is still pending and
	// stamps the reviewer. Returns ErrRequestNotPending when no row matched.
	TransitionFromPending(ctx context.Context, id string, to RequestStatus, reviewerUserID string, notes *string) (TimeOffRequest, error)
	// TransitionFromApproved flips approved -> cancelled, preserving the
	// original reviewer fields. Returns ErrRequestNotPending when no row
	// matched.
	TransitionFromApproved(ctx context.Context, id string, to RequestStatus) (TimeOffRequest, error)
	// WithdrawOwnPending flips pending -> cancelled only for the row owned
	// by employeeID. Returns ErrRequestNotPending when no row matched.
	WithdrawOwnPending(ctx context.Context, id, employeeID string) (TimeOffRequest, error)
}
