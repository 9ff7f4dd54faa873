package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/havenridge/residence-backend-go/internal/handler/http/middleware"
	"github.com/havenridge/residence-backend-go/internal/pkg/jwt"
)

func NewRouter(JWTService jwt.Service, authHandler AuthHandler, timeOffHandler TimeOffHandler, frontendURL string) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "residence-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/timeoff", func(r chi.Router) {

				r.Route("/types", func(r chi.Router) {
					r.Get("/", timeOffHandler.ListLeaveTypes)

					// HR only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireHR)
						r.Post("/", timeOffHandler.CreateLeaveType)
						r.Delete("/{id}", timeOffHandler.RetireLeaveType)
					})
				})

				r.Route("/requests", func(r chi.Router) {
					r.Post("/", timeOffHandler.CreateRequest)
					r.Get("/", timeOffHandler.ListRequests)
					r.Get("/{id}", timeOffHandler.GetRequest)
					r.Post("/{id}/withdraw", timeOffHandler.WithdrawRequest)

					// HR only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireHR)
						r.Post("/{id}/approve", timeOffHandler.ApproveRequest)
						r.Post("/{id}/deny", timeOffHandler.DenyRequest)
						r.Post("/{id}/cancel", timeOffHandler.CancelRequest)
					})
				})

				r.Route("/my", func(r chi.Router) {
					r.Get("/balances", timeOffHandler.GetMyBalances)
					r.Get("/ledger", timeOffHandler.GetMyLedger)
				})

				// HR only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Get("/employees/{employeeID}/balances", timeOffHandler.GetEmployeeBalances)
					r.Get("/employees/{employeeID}/ledger", timeOffHandler.GetEmployeeLedger)
					r.Post("/adjustments", timeOffHandler.PostAdjustment)
					r.Post("/balances/target", timeOffHandler.SetTargetBalance)
				})
			})
		})
	})
	return r
}
