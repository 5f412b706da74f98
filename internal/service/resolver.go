package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/ybertrand/shopseo/internal/domain"
	"github.com/ybertrand/shopseo/internal/llm"
	"github.com/ybertrand/shopseo/internal/logger"
)

// resolutionStore is the slice of the resolution repository the resolver needs.
type resolutionStore interface {
	Update(ctx context.Context, run *domain.ResolutionRun) error
	Heartbeat(ctx context.Context, id string) error
}

// remediator runs the per-item fix behind one issue category.
type remediator interface {
	FixDescription(ctx context.Context, shopID, productID string, preserveLinks bool) error
	FixMetaDescription(ctx context.Context, shopID, productID string) error
	FixAltText(ctx context.Context, shopID, productID string) error
	FixInternalLinks(ctx context.Context, shopID, productID string) (int, error)
}

// ResolverConfig holds configuration for the resolution orchestrator.
type ResolverConfig struct {
	BatchSize      int
	BatchPause     time.Duration
	RateLimitPause time.Duration
}

// Resolver applies one issue's remediation to every affected item in
// bounded batches, classifying each outcome as success, failed or skipped
// and persisting progress after every item so a polling client tracks the
// run in near real time.
type Resolver struct {
	runs   resolutionStore
	fixer  remediator
	logger *logger.Logger
	cfg    ResolverConfig
}

// NewResolver creates a resolution orchestrator.
func NewResolver(runs resolutionStore, fixer remediator, log *logger.Logger, cfg *ResolverConfig) *Resolver {
	c := *cfg
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.BatchPause <= 0 {
		c.BatchPause = 100 * time.Millisecond
	}
	if c.RateLimitPause <= 0 {
		c.RateLimitPause = 2 * time.Second
	}
	return &Resolver{runs: runs, fixer: fixer, logger: log, cfg: c}
}

// Resolve processes every affected item of the run. Batches run strictly in
// sequence with a short pause between them to ease rate-limit pressure;
// items within a batch run concurrently. One item's failure never aborts
// its siblings.
func (r *Resolver) Resolve(ctx context.Context, run *domain.ResolutionRun, items []domain.AffectedItem) error {
	ctx = logger.SetRunID(ctx, run.ID)
	start := time.Now()
	r.logger.WithFields(logger.Fields{"category": run.Category, "total": len(items)}).Info("Starting resolution run")

	run.TotalItems = len(items)
	run.HeartbeatAt = time.Now()
	if err := r.runs.Update(ctx, run); err != nil {
		return r.fail(ctx, run, err)
	}

	var mu sync.Mutex
	for start := 0; start < len(items); start += r.cfg.BatchSize {
		end := start + r.cfg.BatchSize
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		for _, item := range items[start:end] {
			wg.Add(1)
			go func(item domain.AffectedItem) {
				defer wg.Done()
				r.processItem(ctx, run, item, &mu)
			}(item)
		}
		wg.Wait()

		if end < len(items) {
			time.Sleep(r.cfg.BatchPause)
		}
	}

	now := time.Now()
	run.Status = domain.RunStatusCompleted
	run.Progress = 100
	run.CurrentItem = ""
	run.CompletedAt = &now
	if err := r.runs.Update(ctx, run); err != nil {
		return r.fail(ctx, run, err)
	}

	logger.With(logger.Fields{
		"success": len(run.Success),
		"failed":  len(run.Failed),
		"skipped": len(run.Skipped),
	}).WithDuration(time.Since(start).Milliseconds()).Info(ctx, "Resolution run completed: category=%s", run.Category)
	return nil
}

// processItem remediates one item and records its outcome.
func (r *Resolver) processItem(ctx context.Context, run *domain.ResolutionRun, item domain.AffectedItem, mu *sync.Mutex) {
	// Heartbeat first so a watchdog can tell a slow run from a dead one.
	if err := r.runs.Heartbeat(ctx, run.ID); err != nil {
		logger.CtxWarn(ctx, "Heartbeat write failed: %v", err)
	}

	result := domain.ItemResult{ID: item.ID, Name: item.Name}
	outcome, rateLimited := r.remediate(ctx, run, item, &result)

	mu.Lock()
	switch outcome {
	case itemSucceeded:
		run.Success = append(run.Success, result)
	case itemFailed:
		run.Failed = append(run.Failed, result)
	case itemSkipped:
		run.Skipped = append(run.Skipped, result)
	}
	processed := len(run.Success) + len(run.Failed) + len(run.Skipped)
	run.Progress = int(math.Round(float64(processed) / float64(run.TotalItems) * 100))
	run.CurrentItem = item.Name
	// 100 belongs to the terminal write: the last item's progress lands
	// there, and rounding on large runs is held one point under.
	if processed < run.TotalItems {
		if run.Progress == 100 {
			run.Progress = 99
		}
		if err := r.runs.Update(ctx, run); err != nil {
			logger.CtxWarn(ctx, "Progress write failed: %v", err)
		}
	}
	mu.Unlock()

	if rateLimited {
		// Self-throttle before touching the gateway again.
		time.Sleep(r.cfg.RateLimitPause)
	}
}

// itemOutcome is the bucket one remediated item settles into.
type itemOutcome int

const (
	itemSucceeded itemOutcome = iota
	itemFailed
	itemSkipped
)

// remediate dispatches one item by the run's category and classifies the
// outcome. The rate-limited flag asks the caller to pause.
func (r *Resolver) remediate(ctx context.Context, run *domain.ResolutionRun, item domain.AffectedItem, result *domain.ItemResult) (itemOutcome, bool) {
	var err error
	switch run.Category {
	case domain.CategoryImages:
		err = r.fixer.FixAltText(ctx, run.ShopID, item.ID)
	case domain.CategorySEO:
		err = r.fixer.FixMetaDescription(ctx, run.ShopID, item.ID)
	case domain.CategoryContent:
		// Keep anchors: a rewrite must not undo earlier linking work.
		err = r.fixer.FixDescription(ctx, run.ShopID, item.ID, true)
	case domain.CategoryInternalLinks, domain.CategoryStructure:
		var added int
		added, err = r.fixer.FixInternalLinks(ctx, run.ShopID, item.ID)
		if err == nil && added == 0 {
			result.Message = "Liens déjà présents"
			return itemSkipped, false
		}
	default:
		result.Message = "Catégorie non prise en charge"
		return itemSkipped, false
	}

	if err == nil {
		return itemSucceeded, false
	}
	if isRateLimit(err) {
		result.Message = err.Error()
		return itemSkipped, true
	}
	result.Message = err.Error()
	return itemFailed, false
}

// fail marks the run failed with the orchestration-level error.
func (r *Resolver) fail(ctx context.Context, run *domain.ResolutionRun, err error) error {
	now := time.Now()
	run.Status = domain.RunStatusFailed
	run.ErrorMessage = err.Error()
	run.CompletedAt = &now
	if updateErr := r.runs.Update(ctx, run); updateErr != nil {
		logger.CtxError(ctx, "Failed to persist failed run: %v", updateErr)
	}
	return err
}

// isRateLimit spots the gateway's throttling responses; message matching
// covers errors coming back from the store API, which do not wrap the
// client sentinel.
func isRateLimit(err error) bool {
	if errors.Is(err, llm.ErrRateLimited) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "rate limit")
}
