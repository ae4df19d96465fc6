// Package scheduler runs the daily program lifecycle sweep.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/yigit/studyhub/internal/app/services"
	"github.com/yigit/studyhub/internal/pkg/helpers"
	"github.com/yigit/studyhub/internal/pkg/metrics"
)

// DefaultSpec fires once a day at local midnight.
const DefaultSpec = "0 0 * * *"

// Sweeper is the job the scheduler drives.
type Sweeper interface {
	Sweep(ctx context.Context, today time.Time) (services.SweepResult, error)
}

// Options configures a LifecycleScheduler. Zero values fall back to
// DefaultSpec, UTC and time.Now.
type Options struct {
	Spec       string
	Location   *time.Location
	RunOnStart bool
	Now        func() time.Time
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
}

// LifecycleScheduler owns the cron runner for the lifecycle sweep. A failed
// or panicking run is logged and counted; it never stops the process or
// later runs.
type LifecycleScheduler struct {
	cron       *cron.Cron
	sweeper    Sweeper
	loc        *time.Location
	now        func() time.Time
	runOnStart bool
	metrics    *metrics.Metrics
	logger     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLifecycleScheduler validates the cron spec and registers the sweep.
func NewLifecycleScheduler(sweeper Sweeper, opts Options) (*LifecycleScheduler, error) {
	if opts.Spec == "" {
		opts.Spec = DefaultSpec
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	lgr := opts.Logger.With().Str("component", "lifecycle_scheduler").Logger()
	cronLog := cronLogger{lgr}

	ctx, cancel := context.WithCancel(context.Background())
	s := &LifecycleScheduler{
		cron: cron.New(
			cron.WithLocation(opts.Location),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		sweeper:    sweeper,
		loc:        opts.Location,
		now:        opts.Now,
		runOnStart: opts.RunOnStart,
		metrics:    opts.Metrics,
		logger:     lgr,
		ctx:        ctx,
		cancel:     cancel,
	}

	if _, err := s.cron.AddFunc(opts.Spec, func() { _ = s.RunOnce(s.ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid scheduler spec %q: %w", opts.Spec, err)
	}
	return s, nil
}

// Start begins firing the sweep on schedule. With RunOnStart an immediate
// sweep also runs in the background so state is correct after downtime.
func (s *LifecycleScheduler) Start() {
	s.cron.Start()
	s.logger.Info().Str("timezone", s.loc.String()).Msg("Lifecycle scheduler started")

	if s.runOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			_ = s.RunOnce(s.ctx)
		}()
	}
}

// Stop prevents further runs and waits for an in-flight sweep to return or
// for ctx to expire, whichever comes first.
func (s *LifecycleScheduler) Stop(ctx context.Context) error {
	s.cancel()
	cronDone := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("Lifecycle scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for lifecycle sweep: %w", ctx.Err())
	}
}

// RunOnce performs a single sweep for the current calendar date in the
// scheduler's time zone.
func (s *LifecycleScheduler) RunOnce(ctx context.Context) (err error) {
	today := helpers.CalendarDate(s.now(), s.loc)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lifecycle sweep panicked: %v", r)
			s.logger.Error().Interface("panic", r).Str("today", helpers.FormatDate(today)).Msg("Lifecycle sweep panicked")
			s.metrics.SweepFailed()
		}
	}()

	result, err := s.sweeper.Sweep(ctx, today)
	if err != nil {
		s.logger.Error().Err(err).Str("today", helpers.FormatDate(today)).Msg("Lifecycle sweep failed")
		s.metrics.SweepFailed()
		return err
	}

	s.metrics.SweepSucceeded(result.Deactivated, result.Activated, s.now())
	return nil
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
