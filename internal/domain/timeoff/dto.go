package timeoff

import (
	"strings"

	"github.com/havenridge/residence-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateLeaveTypeRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	code := strings.ToUpper(strings.TrimSpace(r.Code))
	if validator.IsEmpty(code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	} else if !validator.IsValidLeaveTypeCode(code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be 2-16 uppercase letters, digits or underscores",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// NormalizedCode returns the code as stored: trimmed and uppercased.
func (r *CreateLeaveTypeRequest) NormalizedCode() string {
	return strings.ToUpper(strings.TrimSpace(r.Code))
}

type CreateRequestRequest struct {
	// EmployeeID may only be supplied by HR callers; everyone else files for
	// their own linked employee.
	EmployeeID     *string         `json:"employee_id,omitempty"`
	LeaveTypeCode  string          `json:"leave_type_code"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	RequestedHours decimal.Decimal `json:"requested_hours"`
	Notes          *string         `json:"notes,omitempty"`
}

func (r *CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveTypeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_code",
			Message: "leave_type_code is required",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid YYYY-MM-DD date",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid YYYY-MM-DD date",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if !r.RequestedHours.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "requested_hours",
			Message: "requested_hours must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DenyRequestRequest struct {
	Notes *string `json:"notes,omitempty"`
}

type PostAdjustmentRequest struct {
	EmployeeID    string          `json:"employee_id"`
	LeaveTypeCode string          `json:"leave_type_code"`
	AmountHours   decimal.Decimal `json:"amount_hours"`
	Source        string          `json:"source"`
	EffectiveDate *string         `json:"effective_date,omitempty"`
	Memo          *string         `json:"memo,omitempty"`
}

func (r *PostAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.LeaveTypeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_code",
			Message: "leave_type_code is required",
		})
	}

	if r.AmountHours.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "amount_hours",
			Message: "amount_hours must not be zero",
		})
	}

	if !validator.IsInSlice(r.Source, AdjustmentSources) {
		errs = append(errs, validator.ValidationError{
			Field:   "source",
			Message: "source must be one of: " + strings.Join(AdjustmentSources, ", "),
		})
	}

	if r.EffectiveDate != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "effective_date",
				Message: "effective_date must be a valid YYYY-MM-DD date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SetTargetBalanceRequest struct {
	EmployeeID    string          `json:"employee_id"`
	LeaveTypeCode string          `json:"leave_type_code"`
	TargetHours   decimal.Decimal `json:"target_hours"`
	Memo          *string         `json:"memo,omitempty"`
}

func (r *SetTargetBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.LeaveTypeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_code",
			Message: "leave_type_code is required",
		})
	}

	if r.TargetHours.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "target_hours",
			Message: "target_hours must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Response DTOs. Dates render as plain YYYY-MM-DD strings so no timezone
// component ever leaks into the wire format.

type LeaveTypeResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

func NewLeaveTypeResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:       lt.ID,
		Code:     lt.Code,
		Name:     lt.Name,
		IsActive: lt.IsActive,
	}
}

type BalanceResponse struct {
	EmployeeID    string          `json:"employee_id"`
	LeaveTypeID   string          `json:"leave_type_id"`
	LeaveTypeCode *string         `json:"leave_type_code,omitempty"`
	LeaveTypeName *string         `json:"leave_type_name,omitempty"`
	CurrentHours  decimal.Decimal `json:"current_hours"`
}

func NewBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:    b.EmployeeID,
		LeaveTypeID:   b.LeaveTypeID,
		LeaveTypeCode: b.LeaveTypeCode,
		LeaveTypeName: b.LeaveTypeName,
		CurrentHours:  b.CurrentHours,
	}
}

type LedgerEntryResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	LeaveTypeID     string          `json:"leave_type_id"`
	LeaveTypeCode   *string         `json:"leave_type_code,omitempty"`
	AmountHours     decimal.Decimal `json:"amount_hours"`
	Source          EntrySource     `json:"source"`
	SourceRequestID *string         `json:"source_request_id,omitempty"`
	EffectiveDate   string          `json:"effective_date"`
	Memo            *string         `json:"memo,omitempty"`
	CreatedByUserID string          `json:"created_by_user_id"`
}

func NewLedgerEntryResponse(e LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:              e.ID,
		EmployeeID:      e.EmployeeID,
		LeaveTypeID:     e.LeaveTypeID,
		LeaveTypeCode:   e.LeaveTypeCode,
		AmountHours:     e.AmountHours,
		Source:          e.Source,
		SourceRequestID: e.SourceRequestID,
		EffectiveDate:   validator.FormatDate(e.EffectiveDate),
		Memo:            e.Memo,
		CreatedByUserID: e.CreatedByUserID,
	}
}

type TimeOffRequestResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     *string         `json:"employee_name,omitempty"`
	LeaveTypeID      string          `json:"leave_type_id"`
	LeaveTypeCode    *string         `json:"leave_type_code,omitempty"`
	LeaveTypeName    *string         `json:"leave_type_name,omitempty"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
	RequestedHours   decimal.Decimal `json:"requested_hours"`
	Status           RequestStatus   `json:"status"`
	ReviewedByUserID *string         `json:"reviewed_by_user_id,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
}

func NewTimeOffRequestResponse(req TimeOffRequest) TimeOffRequestResponse {
	return TimeOffRequestResponse{
		ID:               req.ID,
		EmployeeID:       req.EmployeeID,
		EmployeeName:     req.EmployeeName,
		LeaveTypeID:      req.LeaveTypeID,
		LeaveTypeCode:    req.LeaveTypeCode,
		LeaveTypeName:    req.LeaveTypeName,
		StartDate:        validator.FormatDate(req.StartDate),
		EndDate:          validator.FormatDate(req.EndDate),
		RequestedHours:   req.RequestedHours,
		Status:           req.Status,
		ReviewedByUserID: req.ReviewedByUserID,
		Notes:            req.Notes,
	}
}

// AdjustmentResult reports the outcome of a direct ledger adjustment.
type AdjustmentResult struct {
	Entry   *LedgerEntryResponse `json:"entry,omitempty"`
	Balance BalanceResponse      `json:"balance"`
}
