package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/ledger_integrity/cmd/docs"
	"github.com/SscSPs/ledger_integrity/internal/adapters/keys"
	portssvc "github.com/SscSPs/ledger_integrity/internal/core/ports/services"
	"github.com/SscSPs/ledger_integrity/internal/core/services"
	"github.com/SscSPs/ledger_integrity/internal/handlers"
	"github.com/SscSPs/ledger_integrity/internal/middleware"
	"github.com/SscSPs/ledger_integrity/internal/platform/config"
	"github.com/SscSPs/ledger_integrity/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_integrity/pkg/database"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Ledger Integrity API
// @version 1.0
// @description Invoice posting, document sealing, audit trail and regulatory export.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
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
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The server still starts without a key so that reads and verification
	// stay available; every seal attempt then fails with a configuration error.
	var signer portssvc.Signer
	if s, err := keys.LoadSignerFromFile(cfg.SigningKeyPath, cfg.SigningKeyPassphrase); err != nil {
		logger.Error("Signing key unavailable, sealing is disabled", slog.String("error", err.Error()))
	} else {
		signer = s
		logger.Info("Signing key loaded", slog.String("fingerprint", s.Fingerprint()), slog.Bool("can_sign", s.CanSign()))
	}

	repos, err := pgsql.NewRepositoryProvider(dbPool, cfg.ChartCacheSize)
	if err != nil {
		logger.Error("Failed to initialize repositories", slog.String("error", err.Error()))
		os.Exit(1)
	}
	container := services.NewServiceContainer(cfg, repos, signer)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, container); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}
	setupSwaggerRoutes(r, cfg)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
