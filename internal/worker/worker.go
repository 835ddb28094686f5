// Package worker orchestrates the generation pipeline: it claims queued
// jobs, resolves a prompt, selects a model, invokes the provider, runs the
// validation gates, composites blueprint jobs, and persists the outcome.
// Each worker runs one job at a time; all cross-job state lives in the
// durable job/asset store.
package worker

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/brief"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/catalog"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/compose"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/infra"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/provider"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/template"
)

// Invoker is the slice of the provider surface the pipeline consumes.
type Invoker interface {
	Invoke(ctx context.Context, model catalog.Model, prompt string, opts provider.InvokeOptions) (domain.GeneratedMedia, error)
	InvokeImageToVideo(ctx context.Context, model catalog.Model, prompt string, opts provider.InvokeOptions) (domain.GeneratedMedia, error)
}

// Renderer composites a validated blueprint into one artifact. checkFrames
// requests midpoint-frame inspection so blank output can be rejected.
type Renderer interface {
	Render(ctx context.Context, jobID string, bp domain.Blueprint, media map[string]domain.ShotMedia, brandInfo domain.BrandInfo, checkFrames bool) (string, []compose.FrameReport, error)
}

// Deps is the explicit dependency set a worker pool is constructed with.
type Deps struct {
	Jobs       domain.JobRepository
	Assets     domain.AssetRepository
	Queue      domain.JobQueue
	Store      domain.ObjectStore
	Brands     domain.BrandRegistry
	Templates  *template.Resolver
	Models     *catalog.Catalog
	Invoker    Invoker
	Briefs     brief.Producer
	Compositor Renderer
	Logger     infra.Logger
}

// Options tunes the pool.
type Options struct {
	Concurrency  int
	PollInterval time.Duration
}

// Pool is a bounded set of workers sharing one queue.
type Pool struct {
	deps Deps
	opts Options
}

// NewPool wires a worker pool. Zero-value options fall back to three
// workers polling every two seconds.
func NewPool(deps Deps, opts Options) *Pool {
	if opts.Concurrency < 1 {
		opts.Concurrency = 3
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	return &Pool{deps: deps, opts: opts}
}

// Run blocks until the context is canceled, keeping opts.Concurrency
// workers pulling jobs.
func (p *Pool) Run(ctx context.Context) error {
	p.deps.Logger.Info().Int("concurrency", p.opts.Concurrency).Msg("worker: pool started")
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.opts.Concurrency; i++ {
		slot := i
		g.Go(func() error {
			return p.runWorker(ctx, slot)
		})
	}
	return g.Wait()
}

func (p *Pool) runWorker(ctx context.Context, slot int) error {
	logger := p.deps.Logger.With().Int("slot", slot).Logger()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := p.deps.Queue.Claim(ctx)
		if err != nil {
			if !errors.Is(err, domain.ErrNoJobAvailable) {
				logger.Error().Err(err).Msg("worker: claim failed")
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.opts.PollInterval):
			}
			continue
		}

		p.handle(ctx, logger, msg)
	}
}

// handle drives one claimed message to an ack or a requeue. Redeliveries of
// jobs that already reached a terminal state are acked and dropped; the
// queue is at-least-once and duplicates are expected.
func (p *Pool) handle(ctx context.Context, logger infra.Logger, msg *domain.QueueMessage) {
	start := time.Now()
	logger = logger.With().Str("job_id", msg.JobID).Int("attempt", msg.Attempt).Logger()

	job, err := p.deps.Jobs.GetByID(ctx, msg.JobID)
	if err != nil {
		logger.Error().Err(err).Msg("worker: load job failed")
		p.release(ctx, logger, msg.JobID, "load job: "+err.Error())
		return
	}
	if job.Status.Terminal() {
		logger.Warn().Str("status", string(job.Status)).Msg("worker: duplicate delivery of terminal job")
		if err := p.deps.Queue.Ack(ctx, msg.JobID); err != nil {
			logger.Error().Err(err).Msg("worker: ack failed")
		}
		return
	}

	if job.Status == domain.JobStatusPending {
		if err := job.Transition(domain.JobStatusProcessing); err != nil {
			logger.Error().Err(err).Msg("worker: illegal transition")
			return
		}
		if err := p.deps.Jobs.UpdateStatus(ctx, job.ID, domain.JobStatusProcessing, nil); err != nil {
			logger.Error().Err(err).Msg("worker: mark processing failed")
			p.release(ctx, logger, msg.JobID, "mark processing: "+err.Error())
			return
		}
	}

	logger.Info().
		Str("brand", msg.Payload.Brand).
		Str("format", string(msg.Payload.Format)).
		Msg("worker: picked job")

	err = p.process(ctx, logger, job, msg.Payload)
	pipelineDuration.WithLabelValues(string(msg.Payload.Format)).Observe(time.Since(start).Seconds())

	if err == nil {
		if err := p.deps.Jobs.UpdateStatus(ctx, job.ID, domain.JobStatusCompleted, nil); err != nil {
			logger.Error().Err(err).Msg("worker: mark completed failed")
			p.release(ctx, logger, msg.JobID, "mark completed: "+err.Error())
			return
		}
		if err := p.deps.Queue.Ack(ctx, msg.JobID); err != nil {
			logger.Error().Err(err).Msg("worker: ack failed")
		}
		jobsProcessedTotal.WithLabelValues("completed").Inc()
		logger.Info().Dur("took", time.Since(start)).Msg("worker: job completed")
		return
	}

	switch domain.ClassOf(err) {
	case domain.ErrClassRetryable:
		logger.Warn().Err(err).Msg("worker: recoverable failure")
		p.release(ctx, logger, msg.JobID, err.Error())
	default:
		// Validation and configuration failures are terminal immediately.
		logger.Error().Err(err).Msg("worker: job failed")
		p.fail(ctx, logger, msg.JobID, err.Error())
	}
}

// release returns a job to the queue; when attempts are exhausted the job is
// forced to failed with the last error recorded.
func (p *Pool) release(ctx context.Context, logger infra.Logger, jobID, lastErr string) {
	requeued, err := p.deps.Queue.Release(ctx, jobID, lastErr)
	if err != nil {
		logger.Error().Err(err).Msg("worker: release failed")
		return
	}
	if requeued {
		jobsProcessedTotal.WithLabelValues("requeued").Inc()
		return
	}
	p.fail(ctx, logger, jobID, lastErr)
}

// fail marks a job failed, always persisting a message first.
func (p *Pool) fail(ctx context.Context, logger infra.Logger, jobID, message string) {
	if message == "" {
		message = "unknown failure"
	}
	if err := p.deps.Jobs.UpdateStatus(ctx, jobID, domain.JobStatusFailed, &message); err != nil {
		logger.Error().Err(err).Msg("worker: mark failed failed")
		return
	}
	if err := p.deps.Queue.Ack(ctx, jobID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Error().Err(err).Msg("worker: ack failed")
	}
	jobsProcessedTotal.WithLabelValues("failed").Inc()
}
