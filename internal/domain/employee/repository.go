package employee

import "context"

// EmployeeRepository - read-only interface for the employees table
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
}
