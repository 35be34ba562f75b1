package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/onsite-build/engine/internal/api"
	"github.com/onsite-build/engine/internal/api/handlers"
	"github.com/onsite-build/engine/internal/khalti"
	"github.com/onsite-build/engine/internal/repository"
	"github.com/onsite-build/engine/internal/services"
	"github.com/onsite-build/engine/pkg/config"
	"github.com/onsite-build/engine/pkg/database"
	"github.com/onsite-build/engine/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting OnSite Engine",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		log.Warn("JWT_SECRET not set, using default (INSECURE for production)")
		jwtSecret = []byte("change-me-in-production-please")
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer asynqClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Services
	notificationSvc := services.NewNotificationService(notificationRepo, asynqClient)
	ledgerSvc := services.NewLedgerService(db, projectRepo, budgetRepo, txRepo, vendorRepo, notificationSvc)
	reportSvc := services.NewReportService(projectRepo, budgetRepo)
	projectSvc := services.NewProjectService(db, projectRepo, userRepo, notificationSvc)
	authSvc := services.NewAuthService(userRepo, jwtSecret)
	workerSvc := services.NewWorkerService(workerRepo, attendanceRepo, projectRepo)
	gateway := khalti.NewHTTPClient(cfg.KhaltiBaseURL, cfg.KhaltiSecretKey)
	paymentSvc := services.NewPaymentService(paymentRepo, workerRepo, projectRepo, budgetRepo, attendanceRepo, gateway, ledgerSvc)

	router := api.NewRouter(api.Dependencies{
		HMACSecret:           jwtSecret,
		AuthHandler:          handlers.NewAuthHandler(authSvc),
		ProjectsHandler:      handlers.NewProjectsHandler(projectSvc),
		BudgetsHandler:       handlers.NewBudgetsHandler(ledgerSvc),
		ReportsHandler:       handlers.NewReportsHandler(reportSvc),
		VendorsHandler:       handlers.NewVendorsHandler(vendorRepo, ledgerSvc),
		NotificationsHandler: handlers.NewNotificationsHandler(notificationSvc),
		WorkersHandler:       handlers.NewWorkersHandler(workerSvc),
		PaymentsHandler:      handlers.NewPaymentsHandler(paymentSvc),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
