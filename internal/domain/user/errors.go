package user

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrHRRoleRequired   = errors.New("HR role required")
	ErrNoLinkedEmployee = errors.New("caller has no linked employee record")
)
