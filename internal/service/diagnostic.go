package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ybertrand/shopseo/internal/diagnostics"
	"github.com/ybertrand/shopseo/internal/domain"
	"github.com/ybertrand/shopseo/internal/logger"
	"github.com/ybertrand/shopseo/internal/seo"
)

// contentQualityThreshold is the analyzer score under which a product is
// listed as affected by the content-quality finding.
const contentQualityThreshold = 55

// productLister is the slice of the product repository diagnostics need.
type productLister interface {
	ListByShop(ctx context.Context, shopID string) ([]domain.Product, error)
}

// diagnosticStore is the slice of the diagnostic repository the service needs.
type diagnosticStore interface {
	Create(ctx context.Context, run *domain.DiagnosticRun) error
	Update(ctx context.Context, run *domain.DiagnosticRun) error
}

// DiagnosticService scores a shop's catalog. A run combines the catalog-wide
// checks with a content-quality finding derived from the per-product
// analyzer, so earned points always sum to the run score out of 100.
type DiagnosticService struct {
	products productLister
	runs     diagnosticStore
	weights  diagnostics.Weights
	logger   *logger.Logger
}

// NewDiagnosticService creates a diagnostic service with default weights.
func NewDiagnosticService(products productLister, runs diagnosticStore, log *logger.Logger) *DiagnosticService {
	return &DiagnosticService{
		products: products,
		runs:     runs,
		weights:  diagnostics.DefaultWeights(),
		logger:   log,
	}
}

// Run executes a full diagnostic pass and persists the result. The run row
// is created up front in pending state so a client can poll it while the
// catalog is being scored.
func (s *DiagnosticService) Run(ctx context.Context, shopID string) (*domain.DiagnosticRun, error) {
	ctx = logger.SetShopID(ctx, shopID)
	start := time.Now()

	run := &domain.DiagnosticRun{
		ID:     uuid.NewString(),
		ShopID: shopID,
		Status: domain.RunStatusPending,
		Issues: domain.IssueList{},
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create diagnostic run: %w", err)
	}
	ctx = logger.SetRunID(ctx, run.ID)

	products, err := s.products.ListByShop(ctx, shopID)
	if err != nil {
		return run, s.fail(ctx, run, fmt.Errorf("load products: %w", err))
	}

	report := diagnostics.Run(products, s.weights)
	content := s.contentQualityIssue(ctx, products)

	issues := append(domain.IssueList{}, report.Issues...)
	issues = append(issues, content)

	run.Issues = issues
	run.Score = report.CurrentScore + content.EarnedPoints
	for _, issue := range issues {
		switch issue.Severity {
		case domain.SeverityError:
			run.ErrorCount++
		case domain.SeverityWarning:
			run.WarningCount++
		case domain.SeverityInfo:
			run.InfoCount++
		}
	}

	now := time.Now()
	run.Status = domain.RunStatusCompleted
	run.CompletedAt = &now
	if err := s.runs.Update(ctx, run); err != nil {
		return run, fmt.Errorf("persist diagnostic run: %w", err)
	}

	logger.With(logger.Fields{
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		logger.FieldCount:      len(products),
		"score":                run.Score,
	}).Info(ctx, "Diagnostic run completed")
	return run, nil
}

// contentQualityIssue scores the catalog's editorial quality with the
// content analyzer and converts the average into the points left over by
// the catalog checks, which keeps the run total at 100.
func (s *DiagnosticService) contentQualityIssue(ctx context.Context, products []domain.Product) domain.Issue {
	weight := 100 - s.weights.Total()

	issue := domain.Issue{
		Category:        domain.CategoryContent,
		Severity:        domain.SeverityWarning,
		Title:           "Qualité du contenu produit",
		Description:     "Le contenu de certaines fiches produit est trop faible pour bien se positionner.",
		Recommendation:  "Enrichissez les descriptions des produits concernés (texte, structure, mots-clés).",
		ActionAvailable: true,
		MaxPoints:       weight,
	}

	if len(products) == 0 {
		issue.Severity = domain.SeverityInfo
		issue.Description = "Aucun produit à analyser."
		issue.Recommendation = "Synchronisez votre catalogue pour obtenir une analyse de contenu."
		issue.ActionAvailable = false
		return issue
	}

	var total int
	var affected []domain.AffectedItem
	for _, p := range products {
		analysis, err := seo.Analyze(seo.ContentInput{
			HTML:             p.Description,
			Title:            p.Name,
			MetaTitle:        p.MetaTitle,
			MetaDescription:  p.MetaDescription,
			FocusKeyword:     p.FocusKeyword,
			HasFeaturedImage: p.FeaturedImage != "",
		})
		if err != nil {
			logger.CtxWarn(ctx, "Content analysis failed for product %s: %v", p.ID, err)
			affected = append(affected, domain.AffectedItem{ID: p.ID, Type: "product", Name: p.Name})
			continue
		}
		total += analysis.Score
		if analysis.Score < contentQualityThreshold {
			affected = append(affected, domain.AffectedItem{ID: p.ID, Type: "product", Name: p.Name})
		}
	}

	avg := float64(total) / float64(len(products))
	issue.EarnedPoints = int(math.Round(float64(weight) * avg / 100))
	issue.AffectedItems = affected
	issue.Description = fmt.Sprintf(
		"Score de contenu moyen de %d/100 sur %d produits ; %d produit(s) sous le seuil de qualité.",
		int(math.Round(avg)), len(products), len(affected),
	)
	if len(affected) == 0 {
		issue.Severity = domain.SeveritySuccess
		issue.Description = fmt.Sprintf("Score de contenu moyen de %d/100 : vos fiches produit sont bien rédigées.", int(math.Round(avg)))
		issue.Recommendation = ""
		issue.ActionAvailable = false
	}
	return issue
}

// fail marks the run failed and records the error.
func (s *DiagnosticService) fail(ctx context.Context, run *domain.DiagnosticRun, err error) error {
	now := time.Now()
	run.Status = domain.RunStatusFailed
	run.ErrorMessage = err.Error()
	run.CompletedAt = &now
	if updateErr := s.runs.Update(ctx, run); updateErr != nil {
		logger.CtxError(ctx, "Failed to persist failed diagnostic run: %v", updateErr)
	}
	return err
}
