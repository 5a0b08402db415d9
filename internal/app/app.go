package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/legalpulse/internal/config"
)

// Boot loads configuration, builds the logger and wires the container. The
// returned context is cancelled on SIGINT or SIGTERM.
func Boot() (context.Context, context.CancelFunc, *Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting legalpulse",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return ctx, cancel, c, nil
}

// NewJobRunner builds a runner on the container's lock and metrics.
func (c *Container) NewJobRunner() *Runner {
	return NewRunner(c.Log, c.Lock, NewMetrics(c.Config.Metrics))
}

// RunJob runs one named job to completion and returns the process exit
// code: 0 on success or when another run held the lock, 1 otherwise.
func RunJob(name string) int {
	ctx, cancel, c, err := Boot()
	if err != nil {
		slog.Error("startup failed", slog.String("error", err.Error()))
		return 1
	}
	defer cancel()
	defer c.Close()

	job, err := c.Job(name)
	if err != nil {
		c.Log.Error("resolve job", slog.String("error", err.Error()))
		return 1
	}

	if err := c.NewJobRunner().Run(ctx, job); err != nil {
		return 1
	}
	return 0
}

// Schedule runs the in-process cron daemon until SIGINT or SIGTERM.
func Schedule() int {
	ctx, cancel, c, err := Boot()
	if err != nil {
		slog.Error("startup failed", slog.String("error", err.Error()))
		return 1
	}
	defer cancel()
	defer c.Close()

	s, err := NewScheduler(c.Log, c.Config.Scheduler, c.NewJobRunner())
	if err != nil {
		c.Log.Error("build scheduler", slog.String("error", err.Error()))
		return 1
	}

	specs := Specs(c.Config.Scheduler)
	for _, job := range c.Jobs() {
		if err := s.Add(ctx, specs[job.Name], job); err != nil {
			c.Log.Error("register job", slog.String("error", err.Error()))
			return 1
		}
	}

	s.Run(ctx)
	return 0
}
