package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/devmonks/metrdotel/internal/services"
	"github.com/devmonks/metrdotel/pkg/logger"
)

// DefaultSchedule runs the sweep once an hour.
const DefaultSchedule = "@hourly"

// Sweeper periodically purges expired activation and password reset tokens.
// Expired rows are otherwise left in place until replaced or consumed, so
// without the sweep they would pile up forever.
type Sweeper struct {
	ledger   *services.TokenLedger
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	log      *zap.Logger
}

// Option customises the Sweeper.
type Option func(*Sweeper)

// WithSchedule overrides the cron schedule.
func WithSchedule(schedule string) Option {
	return func(s *Sweeper) {
		if schedule != "" {
			s.schedule = schedule
		}
	}
}

// WithSweepTimeout bounds how long one sweep may run.
func WithSweepTimeout(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewSweeper constructs a sweeper over the given ledger.
func NewSweeper(ledger *services.TokenLedger, opts ...Option) (*Sweeper, error) {
	if ledger == nil {
		return nil, errors.New("sweeper requires a token ledger")
	}

	sweeper := &Sweeper{
		ledger:   ledger,
		schedule: DefaultSchedule,
		timeout:  time.Minute,
		log:      logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(sweeper)
	}

	return sweeper, nil
}

// Start registers the sweep job and launches the scheduler.
func (s *Sweeper) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("token sweeper started", zap.String("schedule", s.schedule))
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("token sweeper stopped")
}

func (s *Sweeper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.Sweep(ctx); err != nil {
		s.log.Error("token sweep failed", zap.Error(err))
	}
}

// Sweep purges expired tokens of every purpose, collecting partial failures.
func (s *Sweeper) Sweep(ctx context.Context) error {
	var errs error
	total := int64(0)

	for _, purpose := range []services.TokenPurpose{services.PurposeActivation, services.PurposePasswordReset} {
		removed, err := s.ledger.PurgeExpired(ctx, purpose)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		total += removed
	}

	if total > 0 {
		s.log.Info("purged expired tokens", zap.Int64("count", total))
	}
	return errs
}
