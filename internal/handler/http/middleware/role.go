package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/havenridge/residence-backend-go/internal/domain/user"
	"github.com/havenridge/residence-backend-go/internal/handler/http/response"
)

// RequireHR gates review and ledger-adjustment endpoints to HR users.
func RequireHR(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrHRRoleRequired)
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, user.ErrHRRoleRequired)
			return
		}

		if user.Role(role) != user.RoleHR {
			response.HandleError(w, user.ErrHRRoleRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
