package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mycad/backoffice/internal"
	"github.com/mycad/backoffice/internal/email"
	"github.com/mycad/backoffice/internal/handler"
	"github.com/mycad/backoffice/internal/metrics"
	"github.com/mycad/backoffice/internal/middleware"
	"github.com/mycad/backoffice/internal/report"
	"github.com/mycad/backoffice/internal/repository"
	"github.com/mycad/backoffice/internal/service"
	"github.com/mycad/backoffice/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	repo := repository.New(db)

	// Initialize blob storage
	var blobs storage.Storage
	switch cfg.StorageProvider {
	case storage.ProviderS3:
		blobs, err = storage.NewS3Storage(storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			BucketName:      cfg.S3BucketName,
		}, logger)
	default:
		blobs, err = storage.NewLocalStorage(storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
		}, logger)
	}
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}

	// Initialize email engine
	renderer, err := email.NewRenderer(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("email renderer initialization failed: %w", err)
	}
	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	}, logger)

	// Initialize services
	generator := report.NewPDFGenerator(logger)
	reportService := service.NewReportService(repo, blobs, generator, logger)
	userService := service.NewUserService(repo, renderer, sender, logger)

	// Initialize handlers
	reportHandler := handler.NewReportHandler(reportService, logger)
	emailHandler := handler.NewEmailHandler(renderer, sender, logger)
	provisionHandler := handler.NewProvisionHandler(userService, logger)
	healthHandler := handler.NewHealthHandler(db)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	mux.HandleFunc("POST /functions/v1/reports", reportHandler.Generate)
	mux.HandleFunc("POST /functions/v1/email", emailHandler.Send)
	mux.HandleFunc("POST /functions/v1/provision", provisionHandler.Provision)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Middleware stack: request logging wraps metrics collection
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	root := loggingMw.Handler(metrics.Middleware(mux))

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
