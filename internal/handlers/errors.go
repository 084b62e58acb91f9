package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_integrity/internal/apperrors"
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	"github.com/SscSPs/ledger_integrity/internal/core/services"
	"github.com/SscSPs/ledger_integrity/internal/dto"
	"github.com/SscSPs/ledger_integrity/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto an HTTP status. Internal details
// are logged, never returned.
func respondError(c *gin.Context, err error, failure string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var exportErr *services.ExportValidationError
	switch {
	case errors.As(err, &exportErr):
		logger.Warn("Export rejected", slog.Int("violations", len(exportErr.Violations)))
		c.JSON(http.StatusUnprocessableEntity, dto.ExportRejectedResponse{Error: "Export validation failed", Violations: exportErr.Violations})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(failure, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrAlreadyValidated):
		logger.Warn(failure, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConcurrency):
		logger.Warn(failure, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": "Concurrent update, please retry"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(failure, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConfiguration):
		logger.Error(failure, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Service is misconfigured"})
	default:
		logger.Error(failure, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
	}
}

// requireActor returns the authenticated actor or answers 401.
func requireActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return domain.Actor{}, false
	}
	return actor, true
}
