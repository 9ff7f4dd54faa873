package user

import "time"

type Role string

const (
	// RoleHR may review any request and post ledger adjustments.
	RoleHR Role = "hr"
	// RoleStaff may submit and withdraw their own requests.
	RoleStaff Role = "staff"
)

func (r Role) Valid() bool {
	return r == RoleHR || r == RoleStaff
}

// User is an account in the identity store. Staff users are linked to an
// employee record; service accounts (and some HR users) may not be.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	EmployeeID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CallerContext carries the resolved identity of the caller into every core
// operation. It is built once at the HTTP boundary from token claims; the
// workflow and ledger never read ambient session state.
type CallerContext struct {
	UserID     string
	EmployeeID *string
	Role       Role
}

// HRPrivileged reports whether the caller may act on other employees'
// requests and balances.
func (c CallerContext) HRPrivileged() bool {
	return c.Role == RoleHR
}

// OwnsEmployee reports whether the caller is linked to employeeID.
func (c CallerContext) OwnsEmployee(employeeID string) bool {
	return c.EmployeeID != nil && *c.EmployeeID == employeeID
}
