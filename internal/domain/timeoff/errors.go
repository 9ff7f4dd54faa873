package timeoff

import "errors"

var (
	ErrLeaveTypeNotFound   = errors.New("leave type not found")
	ErrLeaveTypeInactive   = errors.New("leave type is inactive")
	ErrLeaveTypeCodeExists = errors.New("leave type code already exists")

	ErrRequestNotFound = errors.New("time off request not found")
	// ErrRequestNotPending is returned when a conditional status update
	// matched no row: the request is missing, already processed, or (for
	// self-service withdrawal) not owned by the caller.
	ErrRequestNotPending = errors.New("time off request is not pending")
	ErrAlreadyCancelled  = errors.New("time off request already cancelled")

	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrBalanceNotFound     = errors.New("leave balance not found")
)
