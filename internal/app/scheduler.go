package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/heartmarshall/legalpulse/internal/config"
)

// Scheduler fires jobs on cron expressions inside one process. A tick that
// arrives while the previous run of the same job is still going is dropped,
// and a panicking job is logged without taking the daemon down.
type Scheduler struct {
	log    *slog.Logger
	cron   *cron.Cron
	runner *Runner
}

// NewScheduler creates a scheduler evaluating expressions in the configured
// time zone.
func NewScheduler(logger *slog.Logger, cfg config.SchedulerConfig, runner *Runner) (*Scheduler, error) {
	loc := time.UTC
	if cfg.TimeZone != "" {
		l, err := time.LoadLocation(cfg.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("scheduler time zone %q: %w", cfg.TimeZone, err)
		}
		loc = l
	}

	cl := cronLogger{log: logger.With("component", "scheduler")}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return &Scheduler{log: logger, cron: c, runner: runner}, nil
}

// Add registers job under spec. Jobs run with ctx so that shutdown cancels
// them. An empty spec leaves the job unscheduled.
func (s *Scheduler) Add(ctx context.Context, spec string, job Job) error {
	if spec == "" {
		s.log.Info("job not scheduled", slog.String("job", job.Name))
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}
		// Failures are logged and counted by the runner.
		_ = s.runner.Run(ctx, job)
	})
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", job.Name, spec, err)
	}
	s.log.Info("job scheduled", slog.String("job", job.Name), slog.String("spec", spec))
	return nil
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to return.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	s.log.Info("scheduler stopping, waiting for running jobs")
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// Specs maps job names to their configured cron expressions.
func Specs(cfg config.SchedulerConfig) map[string]string {
	return map[string]string{
		JobMonitor:       cfg.Monitor,
		JobDigestInstant: cfg.Instant,
		JobDigestDaily:   cfg.Daily,
		JobDigestWeekly:  cfg.Weekly,
		JobLifecycle:     cfg.Lifecycle,
		JobCleanup:       cfg.Cleanup,
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, slog.String("error", err.Error()))...)
}
