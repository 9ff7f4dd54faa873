package main

import (
	"fmt"
	"net/http"

	"github.com/havenridge/residence-backend-go/internal/config"
	appHTTP "github.com/havenridge/residence-backend-go/internal/handler/http"
	"github.com/havenridge/residence-backend-go/internal/pkg/database"
	"github.com/havenridge/residence-backend-go/internal/pkg/jwt"
	"github.com/havenridge/residence-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/havenridge/residence-backend-go/internal/service/auth"
	serviceTimeOff "github.com/havenridge/residence-backend-go/internal/service/timeoff"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	ledgerRepo := postgresql.NewLedgerRepository(db)
	balanceRepo := postgresql.NewBalanceRepository(db)
	requestRepo := postgresql.NewRequestRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	typesService := serviceTimeOff.NewTypesService(leaveTypeRepo)
	ledgerService := serviceTimeOff.NewLedgerService(transactor, leaveTypeRepo, ledgerRepo, balanceRepo, employeeRepo)
	requestService := serviceTimeOff.NewRequestService(transactor, ledgerService, leaveTypeRepo, requestRepo, employeeRepo)

	authHandler := appHTTP.NewAuthHandler(authService)
	timeOffHandler := appHTTP.NewTimeOffHandler(typesService, ledgerService, requestService)

	router := appHTTP.NewRouter(JWTService, authHandler, timeOffHandler, cfg.App.FrontendURL)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
