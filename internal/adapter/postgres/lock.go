package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunLock serializes job runs across processes with session-level advisory
// locks. Each held lock pins one pooled connection until released.
type RunLock struct {
	pool *pgxpool.Pool
}

// NewRunLock creates a RunLock on pool.
func NewRunLock(pool *pgxpool.Pool) *RunLock {
	return &RunLock{pool: pool}
}

// TryLock attempts to take the lock named key without waiting. When ok is
// false another holder owns it and release is nil.
func (l *RunLock) TryLock(ctx context.Context, key string) (release func(), ok bool, err error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("runlock acquire conn: %w", err)
	}

	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock(hashtext($1))`, key).Scan(&ok); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("runlock %s: %w", key, err)
	}
	if !ok {
		conn.Release()
		return nil, false, nil
	}

	release = func() {
		ctx := context.WithoutCancel(ctx)
		if _, err := conn.Exec(ctx, `SELECT pg_advisory_unlock(hashtext($1))`, key); err != nil {
			// An unlock failure leaves the session lock held; drop the connection.
			_ = conn.Conn().Close(ctx)
		}
		conn.Release()
	}
	return release, true, nil
}
