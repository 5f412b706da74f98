package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/ybertrand/shopseo/internal/domain"
	"github.com/ybertrand/shopseo/internal/logger"
	"github.com/ybertrand/shopseo/internal/repository"
	"github.com/ybertrand/shopseo/internal/service"
)

// openHandlerDB opens an in-memory SQLite database scoped to one test.
func openHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&domain.DiagnosticRun{}, &domain.ResolutionRun{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// slowRemediator takes a couple of milliseconds per item, like a real
// gateway round trip would.
type slowRemediator struct{}

func (slowRemediator) FixDescription(context.Context, string, string, bool) error {
	time.Sleep(2 * time.Millisecond)
	return nil
}

func (slowRemediator) FixMetaDescription(context.Context, string, string) error {
	time.Sleep(2 * time.Millisecond)
	return nil
}

func (slowRemediator) FixAltText(context.Context, string, string) error {
	time.Sleep(2 * time.Millisecond)
	return nil
}

func (slowRemediator) FixInternalLinks(context.Context, string, string) (int, error) {
	time.Sleep(2 * time.Millisecond)
	return 1, nil
}

// The resolve endpoint answers while the run is still being processed in
// the background; the response must be a stable snapshot, not a view onto
// the row the resolver is mutating.
func TestDiagnosticHandler_ResolveRespondsWhileRunProcesses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openHandlerDB(t)
	diagnosticRepo := repository.NewDiagnosticRepository(db)
	resolutionRepo := repository.NewResolutionRepository(db)

	items := make([]domain.AffectedItem, 8)
	for i := range items {
		items[i] = domain.AffectedItem{ID: fmt.Sprintf("p%d", i), Type: "product", Name: fmt.Sprintf("Produit %d", i)}
	}
	diagnostic := &domain.DiagnosticRun{
		ID:     "d1",
		ShopID: "s1",
		Status: domain.RunStatusCompleted,
		Issues: domain.IssueList{{
			Category:        domain.CategoryContent,
			Severity:        domain.SeverityError,
			Title:           "Descriptions trop courtes",
			AffectedItems:   items,
			ActionAvailable: true,
		}},
	}
	if err := diagnosticRepo.Create(context.Background(), diagnostic); err != nil {
		t.Fatalf("seed diagnostic: %v", err)
	}

	resolver := service.NewResolver(resolutionRepo, slowRemediator{}, logger.NewDefault(), &service.ResolverConfig{
		BatchSize:  3,
		BatchPause: time.Millisecond,
	})
	h := NewDiagnosticHandler(nil, resolver, diagnosticRepo, resolutionRepo)

	router := gin.New()
	router.POST("/api/v1/diagnostics/:id/resolve", h.Resolve)

	body, _ := json.Marshal(gin.H{"category": domain.CategoryContent})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/diagnostics/d1/resolve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool                 `json:"success"`
		Run     domain.ResolutionRun `json:"run"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Run.ID == "" {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Run.Status != domain.RunStatusPending {
		t.Errorf("response status = %q, want pending", resp.Run.Status)
	}
	if resp.Run.TotalItems != len(items) {
		t.Errorf("total items = %d, want %d", resp.Run.TotalItems, len(items))
	}

	// The background run still completes and persists its terminal state.
	deadline := time.Now().Add(2 * time.Second)
	for {
		run, err := resolutionRepo.GetByID(context.Background(), resp.Run.ID)
		if err != nil {
			t.Fatalf("load run: %v", err)
		}
		if run.Status == domain.RunStatusCompleted {
			if run.Progress != 100 {
				t.Errorf("progress = %d, want 100", run.Progress)
			}
			if len(run.Success) != len(items) {
				t.Errorf("successes = %d, want %d", len(run.Success), len(items))
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("run never completed: status = %q, progress = %d", run.Status, run.Progress)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDiagnosticHandler_ResolveUnknownCategory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openHandlerDB(t)
	diagnosticRepo := repository.NewDiagnosticRepository(db)
	resolutionRepo := repository.NewResolutionRepository(db)

	diagnostic := &domain.DiagnosticRun{ID: "d1", ShopID: "s1", Status: domain.RunStatusCompleted}
	if err := diagnosticRepo.Create(context.Background(), diagnostic); err != nil {
		t.Fatalf("seed diagnostic: %v", err)
	}

	resolver := service.NewResolver(resolutionRepo, slowRemediator{}, logger.NewDefault(), &service.ResolverConfig{})
	h := NewDiagnosticHandler(nil, resolver, diagnosticRepo, resolutionRepo)

	router := gin.New()
	router.POST("/api/v1/diagnostics/:id/resolve", h.Resolve)

	body, _ := json.Marshal(gin.H{"category": domain.CategoryPerformance})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/diagnostics/d1/resolve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
