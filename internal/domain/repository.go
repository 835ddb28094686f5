package domain

import "context"

// JobRepository defines persistence for job entities.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	UpdateStatus(ctx context.Context, jobID string, status JobStatus, errMsg *string) error
	SetModel(ctx context.Context, jobID, model string) error
	SetCost(ctx context.Context, jobID string, cost float64) error
	GetByID(ctx context.Context, jobID string) (*Job, error)
}

// AssetRepository handles persistence for generated assets.
type AssetRepository interface {
	ListByJobID(ctx context.Context, jobID string) ([]Asset, error)
	SaveAll(ctx context.Context, jobID string, assets []Asset) error
}

// QueueMessage is one durable unit of work: a job id plus its input.
type QueueMessage struct {
	JobID   string   `json:"jobId"`
	Payload JobInput `json:"payload"`
	Attempt int      `json:"-"`
}

// JobQueue is the durable, at-least-once queue the worker pool pulls from.
// Enqueue of an already-queued job id is a no-op. A claimed message is
// invisible to other workers until released or acked.
type JobQueue interface {
	Enqueue(ctx context.Context, jobID string, payload JobInput) error
	Claim(ctx context.Context) (*QueueMessage, error)
	Release(ctx context.Context, jobID string, lastErr string) (requeued bool, err error)
	Ack(ctx context.Context, jobID string) error
}

// ObjectStore persists artifact bytes at a caller-chosen key and returns the
// public URL the object is served under.
type ObjectStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// BrandInfo is the slice of brand data the pipeline reads: positioning and
// primary call-to-action strings used by the generic fallback template.
type BrandInfo struct {
	Key         string
	Name        string
	Positioning string
	PrimaryCTA  string
}

// BrandRegistry is the external brand-data lookup the template resolver
// depends on.
type BrandRegistry interface {
	Lookup(brandKey string) (BrandInfo, bool)
}
