package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ybertrand/shopseo/internal/domain"
	"github.com/ybertrand/shopseo/internal/logger"
)

type fakeProductLister struct {
	products []domain.Product
	err      error
}

func (l *fakeProductLister) ListByShop(_ context.Context, _ string) ([]domain.Product, error) {
	return l.products, l.err
}

type fakeDiagnosticStore struct {
	created *domain.DiagnosticRun
	updates int
}

func (s *fakeDiagnosticStore) Create(_ context.Context, run *domain.DiagnosticRun) error {
	s.created = run
	return nil
}

func (s *fakeDiagnosticStore) Update(_ context.Context, _ *domain.DiagnosticRun) error {
	s.updates++
	return nil
}

func testProducts(n int) []domain.Product {
	products := make([]domain.Product, n)
	for i := range products {
		products[i] = domain.Product{
			ID:              string(rune('a' + i)),
			Name:            "Produit",
			Slug:            "produit",
			Category:        "Chaussures",
			Description:     `<p>Petite description.</p><a href="/a">a</a><a href="/b">b</a>`,
			MetaDescription: strings.Repeat("x", 10+i),
		}
	}
	return products
}

func TestDiagnosticService_Run(t *testing.T) {
	store := &fakeDiagnosticStore{}
	svc := NewDiagnosticService(&fakeProductLister{products: testProducts(4)}, store, logger.NewDefault())

	run, err := svc.Run(context.Background(), "shop1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if run.Status != domain.RunStatusCompleted {
		t.Fatalf("status = %s, want completed", run.Status)
	}
	if run.ID == "" {
		t.Error("expected a generated run ID")
	}
	if store.created == nil {
		t.Error("the run row must be created before scoring starts")
	}
	if store.updates == 0 {
		t.Error("the completed run must be persisted")
	}

	earned, max := 0, 0
	errorCount, warningCount, infoCount := 0, 0, 0
	for _, issue := range run.Issues {
		earned += issue.EarnedPoints
		max += issue.MaxPoints
		switch issue.Severity {
		case domain.SeverityError:
			errorCount++
		case domain.SeverityWarning:
			warningCount++
		case domain.SeverityInfo:
			infoCount++
		}
	}
	if max != 100 {
		t.Errorf("issue maximums sum to %d, want 100", max)
	}
	if run.Score != earned {
		t.Errorf("score %d does not equal earned sum %d", run.Score, earned)
	}
	if run.ErrorCount != errorCount || run.WarningCount != warningCount || run.InfoCount != infoCount {
		t.Errorf("severity counts %d/%d/%d do not match issues %d/%d/%d",
			run.ErrorCount, run.WarningCount, run.InfoCount, errorCount, warningCount, infoCount)
	}
}

func TestDiagnosticService_ContentQualityListsWeakProducts(t *testing.T) {
	// Bare products score far under the quality threshold.
	products := []domain.Product{
		{ID: "p1", Name: "Produit nu", Description: "<p>court</p>"},
		{ID: "p2", Name: "Autre produit nu", Description: "<p>court</p>"},
	}
	svc := NewDiagnosticService(&fakeProductLister{products: products}, &fakeDiagnosticStore{}, logger.NewDefault())

	run, err := svc.Run(context.Background(), "shop1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var content *domain.Issue
	for i := range run.Issues {
		if run.Issues[i].Title == "Qualité du contenu produit" {
			content = &run.Issues[i]
		}
	}
	if content == nil {
		t.Fatal("expected the content-quality issue in every run")
	}
	if len(content.AffectedItems) != 2 {
		t.Errorf("affected = %d, want both weak products", len(content.AffectedItems))
	}
	if !content.ActionAvailable {
		t.Error("content remediation must be actionable")
	}
	if content.EarnedPoints >= content.MaxPoints {
		t.Errorf("weak catalog earned %d/%d", content.EarnedPoints, content.MaxPoints)
	}
}

func TestDiagnosticService_EmptyCatalog(t *testing.T) {
	svc := NewDiagnosticService(&fakeProductLister{}, &fakeDiagnosticStore{}, logger.NewDefault())

	run, err := svc.Run(context.Background(), "shop1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Status != domain.RunStatusCompleted {
		t.Fatalf("status = %s, want completed", run.Status)
	}
	// Catalog checks pass with full weight; schema markup and content
	// quality earn nothing.
	if run.Score != 75 {
		t.Errorf("score = %d, want 75", run.Score)
	}
	if run.ErrorCount != 0 || run.WarningCount != 0 {
		t.Errorf("empty catalog must not raise errors or warnings, got %d/%d", run.ErrorCount, run.WarningCount)
	}
}

func TestDiagnosticService_ProductLoadFailure(t *testing.T) {
	store := &fakeDiagnosticStore{}
	svc := NewDiagnosticService(&fakeProductLister{err: errors.New("db down")}, store, logger.NewDefault())

	run, err := svc.Run(context.Background(), "shop1")
	if err == nil {
		t.Fatal("expected an error")
	}
	if run.Status != domain.RunStatusFailed {
		t.Errorf("status = %s, want failed", run.Status)
	}
	if !strings.Contains(run.ErrorMessage, "db down") {
		t.Errorf("error message = %q", run.ErrorMessage)
	}
	if store.updates == 0 {
		t.Error("the failed run must be persisted")
	}
}
