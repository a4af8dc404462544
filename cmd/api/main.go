package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/config"
	"spendwise/internal/database"
	"spendwise/internal/events"
	"spendwise/internal/logger"
	"spendwise/internal/router"
	"spendwise/internal/validator"

	_ "spendwise/internal/docs" // Import swagger docs
)

// @title           Spendwise API
// @version         1.0
// @description     Spendwise is a personal finance tracker for expenses, monthly budgets and savings goals.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 30 * time.Second

func main() {
	// Money is rendered as a JSON number rather than a quoted string.
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	if err := database.Seed(dbManager.DB(), database.SeedAdmin{
		Username: appConfig.SeedAdminUsername,
		Password: appConfig.SeedAdminPassword,
		Email:    appConfig.SeedAdminEmail,
	}); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	publisher, err := events.NewPublisher(appConfig.AMQPURL, appConfig.AMQPExchange)
	if err != nil {
		return fmt.Errorf("failed to connect event publisher: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warnf("event publisher close error: %v", err)
		}
	}()
	if appConfig.AMQPURL == "" {
		log.Info("AMQP_URL not set, savings events are disabled")
	}

	validator.Register()

	server := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router.New(router.NewServices(dbManager.DB(), publisher, nil)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting Spendwise backend server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received, draining connections...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
	}

	log.Info("Server stopped")
	return nil
}
