package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

// Job names, also used as lock keys and metric labels.
const (
	JobMonitor       = "monitor"
	JobDigestInstant = "digest-instant"
	JobDigestDaily   = "digest-daily"
	JobDigestWeekly  = "digest-weekly"
	JobLifecycle     = "lifecycle"
	JobCleanup       = "cleanup"
)

// Jobs returns every scheduled job with its configured timeout.
func (c *Container) Jobs() []Job {
	t := c.Config.Jobs
	return []Job{
		{Name: JobMonitor, Timeout: t.MonitorTimeout, Run: c.runMonitor},
		{Name: JobDigestInstant, Timeout: t.DigestTimeout, Run: c.digestJob(domain.DigestModeInstant)},
		{Name: JobDigestDaily, Timeout: t.DigestTimeout, Run: c.digestJob(domain.DigestModeDaily)},
		{Name: JobDigestWeekly, Timeout: t.DigestTimeout, Run: c.digestJob(domain.DigestModeWeekly)},
		{Name: JobLifecycle, Timeout: t.LifecycleTimeout, Run: c.runLifecycle},
		{Name: JobCleanup, Timeout: t.CleanupTimeout, Run: c.runCleanup},
	}
}

// Job looks a job up by name.
func (c *Container) Job(name string) (Job, error) {
	for _, j := range c.Jobs() {
		if j.Name == name {
			return j, nil
		}
	}
	return Job{}, fmt.Errorf("unknown job %q", name)
}

func (c *Container) runMonitor(ctx context.Context) error {
	_, err := c.Monitor.Run(ctx)
	return err
}

func (c *Container) digestJob(mode domain.DigestMode) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := c.Delivery.Process(ctx, mode)
		return err
	}
}

// runLifecycle evaluates all contracts and then delivers the status changes
// of instant users right away.
func (c *Container) runLifecycle(ctx context.Context) error {
	sum, err := c.Lifecycle.Run(ctx)
	if err != nil {
		return err
	}
	if sum.Expiring+sum.Expired+sum.Renewed == 0 {
		return nil
	}
	if _, err := c.Delivery.ProcessInstant(ctx); err != nil {
		return fmt.Errorf("instant delivery after lifecycle: %w", err)
	}
	return nil
}

func (c *Container) runCleanup(ctx context.Context) error {
	sum, err := c.Queue.Maintain(ctx)
	if err != nil {
		return err
	}
	c.Log.InfoContext(ctx, "queue maintenance done",
		slog.Int64("reset", sum.Reset),
		slog.Int64("deleted", sum.Deleted),
	)
	return nil
}
