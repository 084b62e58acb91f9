package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_integrity/internal/middleware"
	"github.com/go-playground/validator/v10"
)

// LevelCritical is used for integrity failures that need a human.
const LevelCritical = slog.Level(12)

// Clock abstracts the time source so that tests can pin it.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall clock in UTC.
func SystemClock() Clock { return systemClock{} }

// BaseService provides common functionality for all services
type BaseService struct {
	Clock     Clock
	Validator *validator.Validate
}

func newBaseService() BaseService {
	return BaseService{
		Clock:     SystemClock(),
		Validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Now returns the current time truncated to microseconds, the precision
// stored and hashed everywhere.
func (s *BaseService) Now() time.Time {
	return s.Clock.Now().UTC().Truncate(time.Microsecond)
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogCritical logs at LevelCritical.
func (s *BaseService) LogCritical(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Log(ctx, LevelCritical, msg, keyvals...)
}

// LogWarn logs a warning message with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}
