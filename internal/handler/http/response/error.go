package response

import (
	"errors"
	"net/http"

	"github.com/havenridge/residence-backend-go/internal/domain/auth"
	"github.com/havenridge/residence-backend-go/internal/domain/employee"
	"github.com/havenridge/residence-backend-go/internal/domain/timeoff"
	"github.com/havenridge/residence-backend-go/internal/domain/user"
	"github.com/havenridge/residence-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")

	// Authorization
	case errors.Is(err, user.ErrHRRoleRequired):
		Forbidden(w, "HR role required")
	case errors.Is(err, user.ErrNoLinkedEmployee):
		Forbidden(w, "No employee record linked to this account")

	// Employee collaborator errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		BadRequest(w, "Employee is inactive", nil)

	// Time off domain errors
	case errors.Is(err, timeoff.ErrLeaveTypeNotFound):
		BadRequest(w, "Unknown leave type code", nil)
	case errors.Is(err, timeoff.ErrLeaveTypeInactive):
		BadRequest(w, "Leave type is inactive", nil)
	case errors.Is(err, timeoff.ErrLeaveTypeCodeExists):
		Conflict(w, "Leave type code already exists")
	case errors.Is(err, timeoff.ErrRequestNotFound):
		NotFound(w, "Time off request not found")
	case errors.Is(err, timeoff.ErrRequestNotPending):
		Conflict(w, "Time off request is not pending")
	case errors.Is(err, timeoff.ErrAlreadyCancelled):
		Conflict(w, "Time off request already cancelled")
	case errors.Is(err, timeoff.ErrInsufficientBalance):
		Conflict(w, "Insufficient leave balance")
	case errors.Is(err, timeoff.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
