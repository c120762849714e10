package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"

	"github.com/SscSPs/personal_finance_app/internal/core/services"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/handlers"
	"github.com/SscSPs/personal_finance_app/internal/middleware"
	"github.com/SscSPs/personal_finance_app/internal/platform/config"
	"github.com/SscSPs/personal_finance_app/internal/platform/messaging"
	"github.com/SscSPs/personal_finance_app/internal/platform/statement"
	"github.com/SscSPs/personal_finance_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/personal_finance_app/internal/utils"
	"github.com/SscSPs/personal_finance_app/pkg/database"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Personal Finance API
// @version 1.0
// @description Cards, transactions, transfers and budgets for a personal finance app.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var notifier portssvc.Notifier = messaging.LogNotifier{}
	if cfg.AMQPURL != "" {
		publisher, err := messaging.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPEmailQueue, cfg.AMQPEventsQueue)
		if err != nil {
			logger.Error("Failed to connect to message broker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if cerr := publisher.Close(); cerr != nil {
				logger.Error("Error closing message broker connection", slog.String("error", cerr.Error()))
			}
		}()
		notifier = publisher
		logger.Info("Publishing events to message broker", slog.String("exchange", cfg.AMQPExchange))
	} else {
		logger.Warn("AMQP_URL not set, verification codes and events will only be logged")
	}

	serviceContainer := services.NewServiceContainer(
		cfg,
		pgsql.NewRepositoryProvider(dbPool),
		notifier,
		statement.NewPDFRenderer("Account Statement"),
	)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, analytics)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.PosthogMiddleware(posthogClient),
	)

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies every pending "up" migration through a short-lived database/sql connection.
func runMigrations(logger *slog.Logger, databaseURL, migrationsPath string) error {
	logger.Info("Running database migrations...")

	// pgx stdlib driver so migrate speaks the same protocol as the pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
