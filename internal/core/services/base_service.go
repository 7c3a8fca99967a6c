package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/securitypro/oms_backend/internal/apperrors"
	portsrepo "github.com/securitypro/oms_backend/internal/core/ports/repositories"
	"github.com/securitypro/oms_backend/internal/middleware"
	"github.com/securitypro/oms_backend/internal/platform/metrics"
)

// BaseService provides common functionality for all services
type BaseService struct {
	store   portsrepo.LedgerStore
	clock   func() time.Time
	metrics *metrics.Collectors
}

// ServiceOption is a functional option shared by the ledger services
type ServiceOption func(*BaseService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.clock = clock
	}
}

// WithMetrics records domain events on the given collectors.
func WithMetrics(m *metrics.Collectors) ServiceOption {
	return func(s *BaseService) {
		s.metrics = m
	}
}

func newBaseService(store portsrepo.LedgerStore, options ...ServiceOption) BaseService {
	base := BaseService{store: store, clock: time.Now}
	for _, option := range options {
		option(&base)
	}
	return base
}

// now returns the current time in UTC.
func (s *BaseService) now() time.Time {
	return s.clock().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a refused operation
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("reason", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// invalidState wraps a domain rule violation so it matches apperrors.ErrInvalidState.
func invalidState(err error) error {
	return fmt.Errorf("%w: %v", apperrors.ErrInvalidState, err)
}

// validationError builds an error matching apperrors.ErrValidation.
func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

func invalidStatef(format string, args ...any) error {
	return apperrors.NewInvalidStateError(format, args...)
}
