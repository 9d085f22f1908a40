package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-overtime-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-overtime-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-overtime-go/internal/repository/postgresql"
	overtimeService "github.com/cmlabs-hris/hris-overtime-go/internal/service/overtime"
	payrollService "github.com/cmlabs-hris/hris-overtime-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	transactor := postgresql.NewTransactor(db)
	slipRepo := postgresql.NewOvertimeSlipRepository(db)
	typeRepo := postgresql.NewOvertimeTypeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	structureRepo := postgresql.NewSalaryStructureRepository(db)
	additionalSalaryRepo := postgresql.NewAdditionalSalaryRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	periodResolver := payrollService.NewPeriodResolver()
	slipGenerator := payrollService.NewSalarySlipGenerator(structureRepo, additionalSalaryRepo, periodResolver)

	overtimeSvc := overtimeService.NewOvertimeService(
		transactor,
		slipRepo,
		typeRepo,
		attendanceRepo,
		employeeRepo,
		structureRepo,
		additionalSalaryRepo,
		holidayRepo,
		periodResolver,
		slipGenerator,
		overtimeService.Options{
			CurrencyPrecision: int32(cfg.Overtime.CurrencyPrecision),
			SubmitPolicy:      overtimeService.SubmitPolicy(cfg.Overtime.SubmitPolicy),
		},
	)

	overtimeHandler := appHTTP.NewOvertimeHandler(overtimeSvc)
	router := appHTTP.NewRouter(cfg.App, JWTService, overtimeHandler)

	scheduler := cron.NewScheduler()
	if cfg.Overtime.AutoBatchEnabled {
		cron.NewOvertimeJobs(overtimeSvc, employeeRepo, cfg.Overtime.AutoBatchInterval).RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", "http://localhost"+server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
		}
	}
}
