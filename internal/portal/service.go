package portal

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"rosterhound/internal/automation"
	"rosterhound/internal/config"
	"rosterhound/internal/schedule"
)

// DriverFactory opens a fresh automation driver for one run attempt.
type DriverFactory func(ctx context.Context) (automation.Driver, error)

// Service is the boundary-facing extraction entry point. It applies the
// run-boundary retry policy and spins up a fresh driver per attempt, since a
// finished pipeline has already closed its driver.
type Service struct {
	cfg       config.Config
	log       *zap.Logger
	newDriver DriverFactory
}

// NewService wires a service over the rod driver binding.
func NewService(cfg config.Config, log *zap.Logger) *Service {
	return &Service{
		cfg: cfg,
		log: log,
		newDriver: func(ctx context.Context) (automation.Driver, error) {
			return automation.NewRodDriver(ctx, cfg.Browser, log)
		},
	}
}

// NewServiceWithDriverFactory wires a service over a custom driver factory.
func NewServiceWithDriverFactory(cfg config.Config, log *zap.Logger, factory DriverFactory) *Service {
	return &Service{cfg: cfg, log: log, newDriver: factory}
}

// ExtractSchedule performs the extraction with retries around the whole run.
// Terminal errors (invalid credentials, exhausted login locators) are
// returned immediately; only retriable kinds are attempted again.
func (s *Service) ExtractSchedule(ctx context.Context, req Request) (*schedule.Snapshot, error) {
	return WithRetry(ctx, s.cfg.Retry, s.log, func(ctx context.Context) (*schedule.Snapshot, error) {
		drv, err := s.newDriver(ctx)
		if err != nil {
			return nil, &NavigationTimeoutError{Stage: "driver start", Err: fmt.Errorf("open driver: %w", err)}
		}
		return NewPipeline(drv, s.cfg, s.log).ExtractSchedule(ctx, req)
	})
}

// ManualFallbackURL is handed to callers alongside retriable failures.
func (s *Service) ManualFallbackURL() string {
	if s.cfg.Portal.ManualFallbackURL != "" {
		return s.cfg.Portal.ManualFallbackURL
	}
	return s.cfg.Portal.BaseURL
}
