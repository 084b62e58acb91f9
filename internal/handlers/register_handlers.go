package handlers

import (
	"fmt"
	"time"

	portssvc "github.com/SscSPs/ledger_integrity/internal/core/ports/services"
	"github.com/SscSPs/ledger_integrity/internal/middleware"
	"github.com/SscSPs/ledger_integrity/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			ExposeHeaders:    []string{"Content-Disposition", "X-Export-Rows", "X-Export-Entries"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	exportLimiter, err := middleware.NewMemoryLimiter(cfg.ExportRateLimit)
	if err != nil {
		return fmt.Errorf("invalid EXPORT_RATE_LIMIT %q: %w", cfg.ExportRateLimit, err)
	}

	// Every API route requires an authenticated actor
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerPostingRoutes(v1, services.Posting, services.Integrity)
	registerIntegrityRoutes(v1, services.Integrity)
	registerAuditRoutes(v1, services.Audit)
	registerExportRoutes(v1, services.Export, middleware.RateLimit(exportLimiter))
	return nil
}
