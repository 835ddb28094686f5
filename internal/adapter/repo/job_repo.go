package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
)

// JobRepositoryPG implements domain.JobRepository.
type JobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(pool *pgxpool.Pool) *JobRepositoryPG {
	return &JobRepositoryPG{pool: pool}
}

// Create inserts a new job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.Job) error {
	query := `
INSERT INTO jobs (id, status, brand, format, objective, hook_type, model, payload, cost, error_message)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.Status,
		job.Brand,
		job.Format,
		job.Objective,
		job.HookType,
		job.Model,
		job.Payload,
		job.Cost,
		job.ErrorMessage,
	)
	return err
}

// UpdateStatus updates job status and optionally the error message.
func (r *JobRepositoryPG) UpdateStatus(ctx context.Context, jobID string, status domain.JobStatus, errMsg *string) error {
	query := `
UPDATE jobs
SET status = $2,
    updated_at = NOW(),
    error_message = COALESCE($3, error_message)
WHERE id = $1;
`
	_, err := r.pool.Exec(ctx, query, jobID, status, errMsg)
	return err
}

// SetModel records the selected generation model.
func (r *JobRepositoryPG) SetModel(ctx context.Context, jobID, model string) error {
	_, err := r.pool.Exec(ctx, `
UPDATE jobs SET model = $2, updated_at = NOW() WHERE id = $1;
`, jobID, model)
	return err
}

// SetCost records the accumulated provider cost.
func (r *JobRepositoryPG) SetCost(ctx context.Context, jobID string, cost float64) error {
	_, err := r.pool.Exec(ctx, `
UPDATE jobs SET cost = $2, updated_at = NOW() WHERE id = $1;
`, jobID, cost)
	return err
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `
SELECT id, status, brand, format, objective, hook_type, model, payload, cost, error_message, created_at, updated_at
FROM jobs
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, jobID)
	var job domain.Job
	if err := row.Scan(
		&job.ID,
		&job.Status,
		&job.Brand,
		&job.Format,
		&job.Objective,
		&job.HookType,
		&job.Model,
		&job.Payload,
		&job.Cost,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

var _ domain.JobRepository = (*JobRepositoryPG)(nil)
