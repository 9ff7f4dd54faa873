package http

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
	"github.com/havenridge/residence-backend-go/internal/domain/auth"
	"github.com/havenridge/residence-backend-go/internal/domain/user"
)

// CallerFromContext turns verified token claims into the explicit
// CallerContext the core services require. It is the only place ambient
// request identity is read.
func CallerFromContext(ctx context.Context) (user.CallerContext, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.CallerContext{}, auth.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.CallerContext{}, auth.ErrInvalidToken
	}

	roleStr, ok := claims["role"].(string)
	if !ok || !user.Role(roleStr).Valid() {
		return user.CallerContext{}, auth.ErrInvalidToken
	}

	caller := user.CallerContext{
		UserID: userID,
		Role:   user.Role(roleStr),
	}

	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		caller.EmployeeID = &employeeID
	}

	return caller, nil
}
