package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/havenridge/residence-backend-go/internal/domain/timeoff"
	"github.com/havenridge/residence-backend-go/internal/domain/user"
	"github.com/havenridge/residence-backend-go/internal/handler/http/response"
	"github.com/havenridge/residence-backend-go/internal/pkg/validator"
)

type TimeOffHandler interface {
	ListLeaveTypes(w http.ResponseWriter, r *http.Request)
	CreateLeaveType(w http.ResponseWriter, r *http.Request)
	RetireLeaveType(w http.ResponseWriter, r *http.Request)

	CreateRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	DenyRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	WithdrawRequest(w http.ResponseWriter, r *http.Request)

	GetMyBalances(w http.ResponseWriter, r *http.Request)
	GetMyLedger(w http.ResponseWriter, r *http.Request)
	GetEmployeeBalances(w http.ResponseWriter, r *http.Request)
	GetEmployeeLedger(w http.ResponseWriter, r *http.Request)
	PostAdjustment(w http.ResponseWriter, r *http.Request)
	SetTargetBalance(w http.ResponseWriter, r *http.Request)
}

type TimeOffHandlerImpl struct {
	typesService   timeoff.LeaveTypeService
	ledgerService  timeoff.LedgerService
	requestService timeoff.RequestService
}

func NewTimeOffHandler(
	typesService timeoff.LeaveTypeService,
	ledgerService timeoff.LedgerService,
	requestService timeoff.RequestService,
) TimeOffHandler {
	return &TimeOffHandlerImpl{
		typesService:   typesService,
		ledgerService:  ledgerService,
		requestService: requestService,
	}
}

// Leave types

func (h *TimeOffHandlerImpl) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	types, err := h.typesService.List(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, types)
}

func (h *TimeOffHandlerImpl) CreateLeaveType(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req timeoff.CreateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateLeaveType decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.typesService.Create(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created", created)
}

func (h *TimeOffHandlerImpl) RetireLeaveType(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.typesService.Retire(r.Context(), caller, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type retired", nil)
}

// Requests

func (h *TimeOffHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req timeoff.CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.requestService.Create(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time off request submitted", created)
}

func (h *TimeOffHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter, err := h.parseRequestFilter(r, caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requests, err := h.requestService.List(r.Context(), caller, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// parseRequestFilter reads the optional list filters from query parameters.
// An unknown status or a malformed date is reported as a validation error
// rather than silently ignored.
func (h *TimeOffHandlerImpl) parseRequestFilter(r *http.Request, caller user.CallerContext) (timeoff.RequestFilter, error) {
	var filter timeoff.RequestFilter
	var errs validator.ValidationErrors
	q := r.URL.Query()

	if employeeID := q.Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	if statusStr := q.Get("status"); statusStr != "" {
		status := timeoff.RequestStatus(statusStr)
		switch status {
		case timeoff.StatusPending, timeoff.StatusApproved, timeoff.StatusDenied, timeoff.StatusCancelled:
			filter.Status = &status
		default:
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: pending, approved, denied, cancelled",
			})
		}
	}

	if code := q.Get("leave_type_code"); code != "" {
		lt, err := h.typesService.GetByCode(r.Context(), caller, code)
		if err != nil {
			return timeoff.RequestFilter{}, err
		}
		filter.LeaveTypeID = &lt.ID
	}

	if dateFrom := q.Get("date_from"); dateFrom != "" {
		parsed, ok := validator.IsValidDate(dateFrom)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_from",
				Message: "date_from must be a valid YYYY-MM-DD date",
			})
		} else {
			filter.DateFrom = &parsed
		}
	}

	if dateTo := q.Get("date_to"); dateTo != "" {
		parsed, ok := validator.IsValidDate(dateTo)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_to",
				Message: "date_to must be a valid YYYY-MM-DD date",
			})
		} else {
			filter.DateTo = &parsed
		}
	}

	if len(errs) > 0 {
		return timeoff.RequestFilter{}, errs
	}

	return filter, nil
}

func (h *TimeOffHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	request, err := h.requestService.Get(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, request)
}

func (h *TimeOffHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	request, err := h.requestService.Approve(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time off request approved", request)
}

func (h *TimeOffHandlerImpl) DenyRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Deny notes are optional; an empty body is fine.
	var req timeoff.DenyRequestRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("DenyRequest decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	request, err := h.requestService.Deny(r.Context(), caller, chi.URLParam(r, "id"), req.Notes)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time off request denied", request)
}

func (h *TimeOffHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	request, err := h.requestService.AdminCancel(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time off request cancelled", request)
}

func (h *TimeOffHandlerImpl) WithdrawRequest(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	request, err := h.requestService.SelfCancel(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time off request withdrawn", request)
}

// Balances and ledger

func (h *TimeOffHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if caller.EmployeeID == nil {
		response.HandleError(w, user.ErrNoLinkedEmployee)
		return
	}

	balances, err := h.ledgerService.GetBalances(r.Context(), caller, *caller.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

func (h *TimeOffHandlerImpl) GetMyLedger(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if caller.EmployeeID == nil {
		response.HandleError(w, user.ErrNoLinkedEmployee)
		return
	}

	entries, err := h.ledgerService.ListLedger(r.Context(), caller, *caller.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

func (h *TimeOffHandlerImpl) GetEmployeeBalances(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	balances, err := h.ledgerService.GetBalances(r.Context(), caller, chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

func (h *TimeOffHandlerImpl) GetEmployeeLedger(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	entries, err := h.ledgerService.ListLedger(r.Context(), caller, chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

func (h *TimeOffHandlerImpl) PostAdjustment(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req timeoff.PostAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("PostAdjustment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.ledgerService.PostAdjustment(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Adjustment posted", result)
}

func (h *TimeOffHandlerImpl) SetTargetBalance(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req timeoff.SetTargetBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetTargetBalance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.ledgerService.SetTargetBalance(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
