package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ralmosara/NetSuiteClone-sub001/internal/adapters/database/memory"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/adapters/database/pgsql"
	portsrepo "github.com/ralmosara/NetSuiteClone-sub001/internal/core/ports/repositories"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/core/services"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/handlers"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/middleware"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/platform/config"
	"github.com/ralmosara/NetSuiteClone-sub001/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title ERP Document Lifecycle Engine API
// @version 1.0
// @description Document lifecycle and balance-reconciliation engine.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, cleanup, err := buildRepositories(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize repositories", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	serviceContainer := services.NewServiceContainer(repos)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, acting-user identity, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(middleware.ActingUserMiddleware())
	r.Use(cors.Default())
	r.Use(middleware.RateLimit(newIPLimiter(cfg.RateLimit, logger)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRepositories wires the configured storage backend. The returned cleanup
// function is always safe to call.
func buildRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.UseMemoryStore {
		logger.Warn("Using in-memory document store; data will not survive a restart")
		return portsrepo.RepositoryProvider{
			DocumentRepo: memory.NewDocumentRepository(),
		}, func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, func() {}, err
	}
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, func() {}, err
	}

	return portsrepo.RepositoryProvider{
		DocumentRepo: pgsql.NewDocumentRepository(dbPool),
	}, func() { database.ClosePgxPool(dbPool) }, nil
}

// runMigrations applies pending schema migrations from the migrations directory.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Open a temporary standard sql.DB connection for migrations.
	// Using pgx/v5/stdlib driver to be compatible with the main pool.
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// newIPLimiter builds a per-IP rate limiter from a formatted rate such as "300-M".
func newIPLimiter(formatted string, logger *slog.Logger) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		logger.Warn("Invalid RATE_LIMIT value, falling back to 300-M", slog.String("value", formatted))
		rate, _ = limiter.NewRateFromFormatted("300-M")
	}
	return limiter.New(limitermem.NewStore(), rate)
}
