package portal

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"rosterhound/internal/config"
	"rosterhound/internal/schedule"
)

// ErrMaxAttemptsExceeded indicates all run attempts failed with retriable
// errors.
var ErrMaxAttemptsExceeded = errors.New("maximum extraction attempts exceeded")

// RunFunc is one extraction attempt.
type RunFunc func(ctx context.Context) (*schedule.Snapshot, error)

// WithRetry applies the run-boundary retry policy: up to MaxAttempts
// attempts, delay doubling from InitialBackoff and capped at MaxBackoff.
// Only retriable errors are retried; terminal errors return immediately.
func WithRetry(ctx context.Context, cfg config.RetryConfig, log *zap.Logger, fn RunFunc) (*schedule.Snapshot, error) {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		snap, err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				log.Info("extraction succeeded after retry", zap.Int("attempt", attempt))
			}
			return snap, nil
		}

		if !Retriable(err) {
			return nil, err
		}
		lastErr = err
		log.Warn("extraction attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err))

		if attempt < attempts {
			backoff := calculateBackoff(cfg, attempt-1)
			log.Info("retrying extraction", zap.Duration("backoff", backoff))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, errors.Join(ErrMaxAttemptsExceeded, lastErr)
}

// calculateBackoff computes exponential backoff: initial * 2^attempt, capped.
func calculateBackoff(cfg config.RetryConfig, attempt int) time.Duration {
	backoff := float64(cfg.InitialBackoff()) * math.Pow(2, float64(attempt))
	if backoff > float64(cfg.MaxBackoff()) {
		backoff = float64(cfg.MaxBackoff())
	}
	return time.Duration(backoff)
}
