package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema creates the tables the pipeline owns. Statements are idempotent so
// every binary can run them at startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
	id            TEXT PRIMARY KEY,
	status        TEXT NOT NULL,
	brand         TEXT NOT NULL,
	format        TEXT NOT NULL,
	objective     TEXT NOT NULL DEFAULT '',
	hook_type     TEXT NOT NULL DEFAULT '',
	model         TEXT NOT NULL DEFAULT '',
	payload       JSONB,
	cost          DOUBLE PRECISION,
	error_message TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	`CREATE TABLE IF NOT EXISTS assets (
	id               TEXT PRIMARY KEY,
	job_id           TEXT NOT NULL REFERENCES jobs(id),
	type             TEXT NOT NULL,
	url              TEXT NOT NULL,
	duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	`CREATE INDEX IF NOT EXISTS assets_job_id_idx ON assets (job_id);`,
	`CREATE TABLE IF NOT EXISTS job_queue (
	job_id     TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	attempts   INT NOT NULL DEFAULT 0,
	run_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	claimed_at TIMESTAMPTZ,
	last_error TEXT NOT NULL DEFAULT ''
);`,
	`CREATE INDEX IF NOT EXISTS job_queue_due_idx ON job_queue (run_at) WHERE claimed_at IS NULL;`,
}

// EnsureSchema applies the idempotent DDL for jobs, assets, and the queue.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("repo: ensure schema: %w", err)
		}
	}
	return nil
}
