package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/legalpulse/pkg/ctxutil"
)

// Job is one scheduled unit of work.
type Job struct {
	Name    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

type runLocker interface {
	TryLock(ctx context.Context, key string) (release func(), ok bool, err error)
}

// Runner executes jobs under a shared-database lock so the same job never
// runs twice at once, even across processes.
type Runner struct {
	log     *slog.Logger
	lock    runLocker
	metrics *Metrics
	now     func() time.Time
}

// NewRunner creates a Runner. metrics may be nil.
func NewRunner(logger *slog.Logger, lock runLocker, metrics *Metrics) *Runner {
	return &Runner{
		log:     logger,
		lock:    lock,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Run executes job once. It returns nil without running when another run of
// the same job holds the lock. Only run-level failures are returned.
func (r *Runner) Run(ctx context.Context, job Job) error {
	ctx = ctxutil.WithRunID(ctxutil.WithJob(ctx, job.Name), uuid.New())
	start := r.now()

	release, ok, err := r.lock.TryLock(ctx, "legalpulse:"+job.Name)
	if err != nil {
		r.finish(ctx, job.Name, OutcomeFailure, start)
		return fmt.Errorf("job %s: %w", job.Name, err)
	}
	if !ok {
		r.log.WarnContext(ctx, "job already running elsewhere, skipped")
		r.finish(ctx, job.Name, OutcomeSkipped, start)
		return nil
	}
	defer release()

	runCtx := ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	r.log.InfoContext(ctx, "job started", slog.Duration("timeout", job.Timeout))

	err = job.Run(runCtx)
	took := r.now().Sub(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("exceeded timeout %s: %w", job.Timeout, err)
		}
		r.log.ErrorContext(ctx, "job failed",
			slog.Duration("took", took),
			slog.String("error", err.Error()),
		)
		r.finish(ctx, job.Name, OutcomeFailure, start)
		return fmt.Errorf("job %s: %w", job.Name, err)
	}

	r.log.InfoContext(ctx, "job finished", slog.Duration("took", took))
	r.finish(ctx, job.Name, OutcomeSuccess, start)
	return nil
}

func (r *Runner) finish(ctx context.Context, job, outcome string, start time.Time) {
	if r.metrics == nil {
		return
	}
	end := r.now()
	r.metrics.Observe(job, outcome, end.Sub(start), end)

	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := r.metrics.Push(pushCtx, job); err != nil {
		r.log.WarnContext(ctx, "push metrics", slog.String("error", err.Error()))
	}
}
