package employee

import "time"

// Employee is owned by the surrounding employee-management application.
// This service only reads its identity.
type Employee struct {
	ID        string
	FullName  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
