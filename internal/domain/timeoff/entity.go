package timeoff

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveType entity. Codes are stored uppercase and unique; types are retired
// (deactivated), never deleted while referenced.
type LeaveType struct {
	ID        string
	Code      string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntrySource tags a ledger entry with the event that caused it.
type EntrySource string

const (
	SourceManualAdjustment EntrySource = "manual_adjustment"
	SourceBankedHoliday    EntrySource = "banked_holiday"
	SourceOvertimeBank     EntrySource = "overtime_bank"
	SourceAccrual          EntrySource = "accrual"
	SourceApprovedRequest  EntrySource = "approved_request"
	SourceRequestReversal  EntrySource = "request_reversal"
)

// AdjustmentSources are the sources HR may post directly, outside the
// request workflow.
var AdjustmentSources = []string{
	string(SourceManualAdjustment),
	string(SourceBankedHoliday),
	string(SourceOvertimeBank),
	string(SourceAccrual),
}

// LedgerEntry is an immutable fact: one signed hour delta with its cause.
// Entries are appended once and never updated or deleted.
type LedgerEntry struct {
	ID              string
	EmployeeID      string
	LeaveTypeID     string
	AmountHours     decimal.Decimal
	Source          EntrySource
	SourceRequestID *string
	EffectiveDate   time.Time
	Memo            *string
	CreatedByUserID string
	CreatedAt       time.Time

	// Joined for responses
	LeaveTypeCode *string
	LeaveTypeName *string
}

// Balance is the materialized projection of the ledger for one
// (employee, leave type) pair. CurrentHours never goes negative and is only
// mutated in the same transaction as the ledger entry that justifies it.
type Balance struct {
	EmployeeID   string
	LeaveTypeID  string
	CurrentHours decimal.Decimal
	UpdatedAt    time.Time

	// Joined for responses
	LeaveTypeCode *string
	LeaveTypeName *string
}

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusDenied    RequestStatus = "denied"
	StatusCancelled RequestStatus = "cancelled"
)

// TimeOffRequest is the workflow entity. It transitions only along
// pending -> approved | denied | cancelled, plus approved -> cancelled, and is
// never physically deleted.
type TimeOffRequest struct {
	ID                string
	EmployeeID        string
	LeaveTypeID       string
	StartDate         time.Time
	EndDate           time.Time
	RequestedHours    decimal.Decimal
	Status            RequestStatus
	RequestedByUserID string
	ReviewedByUserID  *string
	ReviewedAt        *time.Time
	Notes             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Joined for responses
	LeaveTypeCode *string
	LeaveTypeName *string
	EmployeeName  *string
}
