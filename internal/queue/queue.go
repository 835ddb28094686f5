// Package queue implements the durable, at-least-once job queue on
// PostgreSQL. A message is claimed by exactly one worker at a time via
// FOR UPDATE SKIP LOCKED; delivery order is not guaranteed.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
)

// PG is the PostgreSQL-backed queue.
type PG struct {
	pool        *pgxpool.Pool
	maxAttempts int
	backoffBase time.Duration
	claimTTL    time.Duration
}

// NewPG builds a queue over the shared pool. maxAttempts bounds total
// delivery attempts per job; backoffBase seeds the exponential re-delivery
// delay. claimTTL is the visibility timeout: a claim older than it is
// considered abandoned by a crashed worker and becomes claimable again.
// It must exceed the longest expected job runtime.
func NewPG(pool *pgxpool.Pool, maxAttempts int, backoffBase, claimTTL time.Duration) *PG {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if backoffBase <= 0 {
		backoffBase = 5 * time.Second
	}
	if claimTTL <= 0 {
		claimTTL = 15 * time.Minute
	}
	return &PG{pool: pool, maxAttempts: maxAttempts, backoffBase: backoffBase, claimTTL: claimTTL}
}

// Backoff returns the re-delivery delay after the given completed attempt
// count: base * 2^(attempt-1).
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base << (attempt - 1)
}

// MaxAttempts reports the configured attempt limit.
func (q *PG) MaxAttempts() int { return q.maxAttempts }

// ClaimTimeout reports the visibility timeout for claimed messages.
func (q *PG) ClaimTimeout() time.Duration { return q.claimTTL }

// Enqueue appends a message keyed by job id. Enqueueing an id that is
// already queued is a no-op, making producer retries idempotent.
func (q *PG) Enqueue(ctx context.Context, jobID string, payload domain.JobInput) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("queue: marshal payload: %w", err)
	}
	_, err = q.pool.Exec(ctx, `
INSERT INTO job_queue (job_id, payload, attempts, run_at)
VALUES ($1, $2, 0, NOW())
ON CONFLICT (job_id) DO NOTHING;
`, jobID, body)
	if err != nil {
		return fmt.Errorf("queue: enqueue %s: %w", jobID, err)
	}
	return nil
}

// Claim pulls the next due message, marking it invisible to other workers
// and counting the delivery attempt. Messages whose claim outlived the
// visibility timeout belonged to a crashed worker and are claimable again.
// Returns domain.ErrNoJobAvailable when nothing is due.
func (q *PG) Claim(ctx context.Context) (*domain.QueueMessage, error) {
	row := q.pool.QueryRow(ctx, `
WITH next_msg AS (
    SELECT job_id
    FROM job_queue
    WHERE (claimed_at IS NULL OR claimed_at < NOW() - ($1 * INTERVAL '1 millisecond'))
      AND run_at <= NOW()
    ORDER BY run_at ASC
    FOR UPDATE SKIP LOCKED
    LIMIT 1
)
UPDATE job_queue q
SET claimed_at = NOW(), attempts = attempts + 1
WHERE q.job_id IN (SELECT job_id FROM next_msg)
RETURNING q.job_id, q.payload, q.attempts;
`, q.claimTTL.Milliseconds())
	var (
		jobID   string
		body    []byte
		attempt int
	)
	if err := row.Scan(&jobID, &body, &attempt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoJobAvailable
		}
		return nil, fmt.Errorf("queue: claim: %w", err)
	}

	var payload domain.JobInput
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("queue: decode payload for %s: %w", jobID, err)
	}
	return &domain.QueueMessage{JobID: jobID, Payload: payload, Attempt: attempt}, nil
}

// Release returns a claimed message to the queue after a recoverable
// failure. When the attempt limit is exhausted the message is dropped and
// requeued=false tells the caller to force the job to failed.
func (q *PG) Release(ctx context.Context, jobID string, lastErr string) (bool, error) {
	var attempts int
	if err := q.pool.QueryRow(ctx, `
SELECT attempts FROM job_queue WHERE job_id = $1;
`, jobID).Scan(&attempts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("queue: release %s: %w", jobID, err)
	}

	if attempts >= q.maxAttempts {
		if err := q.Ack(ctx, jobID); err != nil {
			return false, err
		}
		return false, nil
	}

	delay := Backoff(q.backoffBase, attempts)
	_, err := q.pool.Exec(ctx, `
UPDATE job_queue
SET claimed_at = NULL,
    last_error = $2,
    run_at = NOW() + ($3 * INTERVAL '1 millisecond')
WHERE job_id = $1;
`, jobID, lastErr, delay.Milliseconds())
	if err != nil {
		return false, fmt.Errorf("queue: requeue %s: %w", jobID, err)
	}
	return true, nil
}

// Ack removes a message after the job reached a terminal state.
func (q *PG) Ack(ctx context.Context, jobID string) error {
	if _, err := q.pool.Exec(ctx, `DELETE FROM job_queue WHERE job_id = $1;`, jobID); err != nil {
		return fmt.Errorf("queue: ack %s: %w", jobID, err)
	}
	return nil
}

var _ domain.JobQueue = (*PG)(nil)
