package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portssvc "github.com/techvision/crm-finance/internal/core/ports/services"
	"github.com/techvision/crm-finance/internal/core/services"
	"github.com/techvision/crm-finance/internal/handlers"
	"github.com/techvision/crm-finance/internal/middleware"
	"github.com/techvision/crm-finance/internal/platform/config"
	"github.com/techvision/crm-finance/internal/repositories/database/pgsql"
	"github.com/techvision/crm-finance/pkg/database"
)

// @title CRM Finance API
// @version 1.0
// @description Currency registry, payment fees, commission rules and settlements.

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

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)

	currencyService := services.NewCurrencyService(repos.CurrencyRepo)
	serviceContainer := &portssvc.ServiceContainer{
		Currency:   currencyService,
		RateSync:   services.NewRateSyncService(currencyService, cfg.RateFeedURL, cfg.RateFeedTimeout),
		PaymentFee: services.NewPaymentFeeService(repos.FeeRuleRepo),
		Commission: services.NewCommissionService(repos.RuleRepo, repos.SettlementRepo, currencyService),
		Settlement: services.NewSettlementService(repos.SettlementRepo, repos.RuleRepo, currencyService),
		Auth:       services.NewAuthService(repos.UserRepo, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer),
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate := limiter.Rate{Period: cfg.RateLimitPeriod, Limit: cfg.RateLimitCount}
	r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	if cfg.RateSyncInterval > 0 {
		go runRateSyncLoop(context.Background(), serviceContainer.RateSync, cfg.RateSyncInterval, logger)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending up migrations through a temporary
// database/sql connection compatible with the pgx pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer migrationDB.Close()

	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}
	if sourceErr, dbErr := m.Close(); sourceErr != nil {
		return sourceErr
	} else if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// runRateSyncLoop periodically refreshes floating rates from the feed.
// Failures are logged and retried on the next tick; a broken feed never
// takes the service down.
func runRateSyncLoop(ctx context.Context, rateSync portssvc.RateSyncSvc, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updated, err := rateSync.SyncFloatingRates(ctx, 0)
			if err != nil {
				logger.Warn("Scheduled rate sync failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("Scheduled rate sync completed", slog.Int("updated", updated))
		}
	}
}
