package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ybertrand/shopseo/internal/domain"
	"github.com/ybertrand/shopseo/internal/llm"
	"github.com/ybertrand/shopseo/internal/logger"
)

// runSnapshot is what a polling client would read after one persisted write.
type runSnapshot struct {
	progress int
	status   domain.RunStatus
}

type fakeRunStore struct {
	mu         sync.Mutex
	updates    int
	heartbeats int
	snapshots  []runSnapshot
}

func (s *fakeRunStore) Update(_ context.Context, run *domain.ResolutionRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	s.snapshots = append(s.snapshots, runSnapshot{progress: run.Progress, status: run.Status})
	return nil
}

func (s *fakeRunStore) Heartbeat(_ context.Context, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heartbeats++
	return nil
}

// fakeExecutor already implements remediator; tests below reuse it.

func testResolver(store *fakeRunStore, fixer remediator) *Resolver {
	return NewResolver(store, fixer, logger.NewDefault(), &ResolverConfig{
		BatchSize:      10,
		BatchPause:     time.Millisecond,
		RateLimitPause: time.Millisecond,
	})
}

func affected(n int) []domain.AffectedItem {
	items := make([]domain.AffectedItem, n)
	for i := range items {
		items[i] = domain.AffectedItem{ID: fmt.Sprintf("p%d", i), Type: "product", Name: fmt.Sprintf("Produit %d", i)}
	}
	return items
}

func TestResolver_EveryItemSettles(t *testing.T) {
	store := &fakeRunStore{}
	fixer := &fakeExecutor{failFor: map[string]error{"p1": errors.New("contenu invalide")}}
	r := testResolver(store, fixer)

	run := &domain.ResolutionRun{ID: "r1", ShopID: "shop1", Category: domain.CategoryContent}
	items := affected(3)

	if err := r.Resolve(context.Background(), run, items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(run.Success) + len(run.Failed) + len(run.Skipped); got != len(items) {
		t.Errorf("settled %d items, want %d", got, len(items))
	}
	if len(run.Success) != 2 || len(run.Failed) != 1 {
		t.Errorf("success=%d failed=%d, want 2/1", len(run.Success), len(run.Failed))
	}
	if run.Status != domain.RunStatusCompleted {
		t.Errorf("status = %s, want completed", run.Status)
	}
	if run.Progress != 100 {
		t.Errorf("progress = %d, want 100", run.Progress)
	}
	if run.CompletedAt == nil {
		t.Error("expected a completion timestamp")
	}
	if run.Failed[0].Message != "contenu invalide" {
		t.Errorf("failed item message = %q", run.Failed[0].Message)
	}
}

func TestResolver_CategoryDispatch(t *testing.T) {
	tests := []struct {
		category    string
		wantRoutine string
	}{
		{domain.CategoryImages, "alt_text:p0"},
		{domain.CategorySEO, "meta_description:p0"},
		{domain.CategoryContent, "description:p0"},
		{domain.CategoryInternalLinks, "internal_links:p0"},
		{domain.CategoryStructure, "internal_links:p0"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			fixer := &fakeExecutor{linksAdded: 2}
			r := testResolver(&fakeRunStore{}, fixer)
			run := &domain.ResolutionRun{ID: "r1", ShopID: "shop1", Category: tt.category}

			if err := r.Resolve(context.Background(), run, affected(1)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(fixer.calls) != 1 || fixer.calls[0] != tt.wantRoutine {
				t.Errorf("calls = %v, want [%s]", fixer.calls, tt.wantRoutine)
			}
			if len(run.Success) != 1 {
				t.Errorf("expected the item to succeed, got success=%d skipped=%d failed=%d",
					len(run.Success), len(run.Skipped), len(run.Failed))
			}
		})
	}
}

func TestResolver_InternalLinkingAlreadyLinkedSkips(t *testing.T) {
	fixer := &fakeExecutor{linksAdded: 0}
	r := testResolver(&fakeRunStore{}, fixer)
	run := &domain.ResolutionRun{ID: "r1", ShopID: "shop1", Category: domain.CategoryInternalLinks}

	if err := r.Resolve(context.Background(), run, affected(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Skipped) != 2 {
		t.Fatalf("skipped = %d, want 2", len(run.Skipped))
	}
	for _, item := range run.Skipped {
		if item.Message != "Liens déjà présents" {
			t.Errorf("skip message = %q", item.Message)
		}
	}
	if run.Status != domain.RunStatusCompleted {
		t.Errorf("status = %s, want completed", run.Status)
	}
}

func TestResolver_UnsupportedCategorySkips(t *testing.T) {
	fixer := &fakeExecutor{}
	r := testResolver(&fakeRunStore{}, fixer)
	run := &domain.ResolutionRun{ID: "r1", ShopID: "shop1", Category: domain.CategoryPerformance}

	if err := r.Resolve(context.Background(), run, affected(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fixer.callCount() != 0 {
		t.Errorf("no routine should run for an unsupported category, got %v", fixer.calls)
	}
	if len(run.Skipped) != 1 || run.Skipped[0].Message != "Catégorie non prise en charge" {
		t.Errorf("skipped = %v", run.Skipped)
	}
}

func TestResolver_RateLimitedItemsAreSkipped(t *testing.T) {
	fixer := &fakeExecutor{failFor: map[string]error{
		"p0": fmt.Errorf("generate alt text: %w", llm.ErrRateLimited),
	}}
	r := testResolver(&fakeRunStore{}, fixer)
	run := &domain.ResolutionRun{ID: "r1", ShopID: "shop1", Category: domain.CategoryImages}

	if err := r.Resolve(context.Background(), run, affected(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Skipped) != 1 {
		t.Fatalf("skipped = %d, want 1 (rate limited)", len(run.Skipped))
	}
	if len(run.Failed) != 0 {
		t.Errorf("a rate-limited item must not count as failed, got %v", run.Failed)
	}
	if len(run.Success) != 1 {
		t.Errorf("success = %d, want 1", len(run.Success))
	}
}

func TestResolver_ProgressPersistedPerItem(t *testing.T) {
	store := &fakeRunStore{}
	r := testResolver(store, &fakeExecutor{})
	run := &domain.ResolutionRun{ID: "r1", ShopID: "shop1", Category: domain.CategoryContent}
	items := affected(25)

	if err := r.Resolve(context.Background(), run, items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.heartbeats != len(items) {
		t.Errorf("heartbeats = %d, want one per item (%d)", store.heartbeats, len(items))
	}
	// One write up front, one per item except the last, one terminal write.
	if store.updates != len(items)+1 {
		t.Errorf("updates = %d, want %d", store.updates, len(items)+1)
	}
}

// A poller must never read a persisted row with full progress while the run
// is still in flight. 200 items makes the per-item rounding reach 100 one
// item early, which the per-item writes hold at 99.
func TestResolver_FullProgressOnlyOnCompletion(t *testing.T) {
	store := &fakeRunStore{}
	r := testResolver(store, &fakeExecutor{})
	run := &domain.ResolutionRun{ID: "r1", ShopID: "shop1", Category: domain.CategoryContent}

	if err := r.Resolve(context.Background(), run, affected(200)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	terminal := 0
	for _, snap := range store.snapshots {
		if snap.progress == 100 {
			if snap.status != domain.RunStatusCompleted {
				t.Fatalf("persisted progress 100 with status %s", snap.status)
			}
			terminal++
		}
	}
	if terminal != 1 {
		t.Errorf("expected exactly one terminal write at 100, got %d", terminal)
	}
	last := store.snapshots[len(store.snapshots)-1]
	if last.status != domain.RunStatusCompleted || last.progress != 100 {
		t.Errorf("last persisted snapshot = %+v, want completed at 100", last)
	}
}

func TestResolver_NoItems(t *testing.T) {
	r := testResolver(&fakeRunStore{}, &fakeExecutor{})
	run := &domain.ResolutionRun{ID: "r1", ShopID: "shop1", Category: domain.CategoryContent}

	if err := r.Resolve(context.Background(), run, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Status != domain.RunStatusCompleted || run.Progress != 100 {
		t.Errorf("empty run must complete immediately, got %s/%d", run.Status, run.Progress)
	}
}

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{llm.ErrRateLimited, true},
		{errors.New("upstream said Rate limit exceeded"), true},
		{errors.New("HTTP 429 from gateway"), true},
		{errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		if got := isRateLimit(tt.err); got != tt.want {
			t.Errorf("isRateLimit(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
