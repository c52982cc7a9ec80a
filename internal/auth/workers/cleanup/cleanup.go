// Package cleanup periodically sweeps expired one-time codes and idle
// rate-limit ledgers so abandoned logins do not accumulate state.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// OTPStore exposes cleanup for expired one-time codes.
type OTPStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// RateLimiter exposes cleanup for idle client ledgers.
type RateLimiter interface {
	PruneIdle(now time.Time) int
}

// Result summarizes the deletions performed by a sweep.
type Result struct {
	DeletedCodes  int
	PrunedLedgers int
}

// Service periodically removes expired login artifacts.
type Service struct {
	otps     OTPStore
	limiter  RateLimiter
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithInterval overrides the sweep interval when greater than zero.
func WithInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithLogger overrides the logger used for sweep errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a cleanup Service with required stores and options applied.
func New(otps OTPStore, limiter RateLimiter, opts ...Option) (*Service, error) {
	if otps == nil || limiter == nil {
		return nil, fmt.Errorf("otps and limiter are required")
	}
	svc := &Service{
		otps:     otps,
		limiter:  limiter,
		interval: 5 * time.Minute,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// Start runs the sweep periodically until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "login cleanup failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce performs a single sweep: expired codes are deleted and client
// ledgers whose entries all fell out of the window are dropped.
func (s *Service) RunOnce(ctx context.Context) (Result, error) {
	now := s.now()
	var res Result

	deleted, err := s.otps.DeleteExpired(ctx, now)
	if err != nil {
		return res, fmt.Errorf("delete expired codes: %w", err)
	}
	res.DeletedCodes = deleted
	res.PrunedLedgers = s.limiter.PruneIdle(now)

	if res.DeletedCodes > 0 || res.PrunedLedgers > 0 {
		s.logger.InfoContext(ctx, "login cleanup completed",
			"deleted_codes", res.DeletedCodes,
			"pruned_ledgers", res.PrunedLedgers,
		)
	}
	return res, nil
}
