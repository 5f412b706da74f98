package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ybertrand/shopseo/internal/domain"
	"github.com/ybertrand/shopseo/internal/logger"
)

// jobStore is the slice of the job repository the dispatcher needs.
type jobStore interface {
	ListPending(ctx context.Context, limit int) ([]domain.GenerationJob, error)
	MarkProcessing(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, errMsg string) error
}

// jobExecutor runs the generation routine behind one job action.
type jobExecutor interface {
	FixDescription(ctx context.Context, shopID, productID string, preserveLinks bool) error
	FixShortDescription(ctx context.Context, shopID, productID string) error
	FixMetaDescription(ctx context.Context, shopID, productID string) error
	FixAltText(ctx context.Context, shopID, productID string) error
	FixInternalLinks(ctx context.Context, shopID, productID string) (int, error)
	Translate(ctx context.Context, shopID, productID, language string, preserveLinks bool) error
}

// DispatcherConfig holds configuration for the job dispatcher.
type DispatcherConfig struct {
	BatchSize int
}

// Dispatcher drains the generation job queue: each tick claims a bounded
// batch of pending rows and settles every job independently. There is no
// automatic retry; a failed job is only ever re-enqueued as a new row.
type Dispatcher struct {
	jobs      jobStore
	executor  jobExecutor
	logger    *logger.Logger
	batchSize int
}

// NewDispatcher creates a job dispatcher.
func NewDispatcher(jobs jobStore, executor jobExecutor, log *logger.Logger, cfg *DispatcherConfig) *Dispatcher {
	batchSize := cfg.BatchSize
	if batchSize <= 0 || batchSize > 5 {
		// Hard cap: more concurrent generation calls than this overwhelms
		// the LLM gateway's rate limits.
		batchSize = 5
	}
	return &Dispatcher{
		jobs:      jobs,
		executor:  executor,
		logger:    log,
		batchSize: batchSize,
	}
}

// ProcessPending claims up to the batch size of pending jobs and processes
// them concurrently. One job's failure never aborts its siblings: every job
// settles into completed or failed on its own. Returns the number of jobs
// claimed.
//
// Claiming is a pending-filtered read followed by a status write, so two
// overlapping ticks can claim the same row. The race is accepted: duplicate
// processing of a generation job is wasteful but harmless.
func (d *Dispatcher) ProcessPending(ctx context.Context) (int, error) {
	jobs, err := d.jobs.ListPending(ctx, d.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending jobs: %w", err)
	}
	if len(jobs) == 0 {
		return 0, nil
	}

	d.logger.WithFields(logger.Fields{"count": len(jobs)}).Info("Processing job batch")

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func(job domain.GenerationJob) {
			defer wg.Done()
			d.process(ctx, job)
		}(job)
	}
	wg.Wait()

	return len(jobs), nil
}

// process runs one job to a terminal state.
func (d *Dispatcher) process(ctx context.Context, job domain.GenerationJob) {
	ctx = logger.SetJobID(ctx, job.ID)
	start := time.Now()

	if err := d.jobs.MarkProcessing(ctx, job.ID); err != nil {
		logger.CtxError(ctx, "Failed to mark job processing: %v", err)
		return
	}

	if err := d.run(ctx, job); err != nil {
		if markErr := d.jobs.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			logger.CtxError(ctx, "Failed to mark job failed: %v", markErr)
		}
		logger.With(logger.Fields{logger.FieldDurationMs: time.Since(start).Milliseconds()}).
			WithStatus(string(domain.JobStatusFailed)).
			Warn(ctx, "Job failed: action=%s, error=%v", job.Action, err)
		return
	}

	if err := d.jobs.MarkCompleted(ctx, job.ID); err != nil {
		logger.CtxError(ctx, "Failed to mark job completed: %v", err)
		return
	}
	logger.With(logger.Fields{logger.FieldDurationMs: time.Since(start).Milliseconds()}).
		WithStatus(string(domain.JobStatusCompleted)).
		Info(ctx, "Job completed: action=%s", job.Action)
}

// run dispatches one job by action.
func (d *Dispatcher) run(ctx context.Context, job domain.GenerationJob) error {
	switch job.Action {
	case domain.ActionComplete:
		if err := d.executor.FixDescription(ctx, job.ShopID, job.ProductID, job.PreserveInternalLinks); err != nil {
			return err
		}
		if err := d.executor.FixShortDescription(ctx, job.ShopID, job.ProductID); err != nil {
			return err
		}
		if err := d.executor.FixMetaDescription(ctx, job.ShopID, job.ProductID); err != nil {
			return err
		}
		return d.executor.FixAltText(ctx, job.ShopID, job.ProductID)
	case domain.ActionLongDescriptions:
		return d.executor.FixDescription(ctx, job.ShopID, job.ProductID, job.PreserveInternalLinks)
	case domain.ActionShortDescriptions:
		return d.executor.FixShortDescription(ctx, job.ShopID, job.ProductID)
	case domain.ActionAltImages:
		return d.executor.FixAltText(ctx, job.ShopID, job.ProductID)
	case domain.ActionInternalLinking:
		_, err := d.executor.FixInternalLinks(ctx, job.ShopID, job.ProductID)
		return err
	case domain.ActionTranslate:
		return d.executor.Translate(ctx, job.ShopID, job.ProductID, job.Language, job.PreserveInternalLinks)
	default:
		return fmt.Errorf("unknown action %q", job.Action)
	}
}
