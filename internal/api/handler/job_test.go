package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ybertrand/shopseo/internal/domain"
	"github.com/ybertrand/shopseo/internal/repository"
)

func newJobRouter(t *testing.T) (*gin.Engine, *repository.JobRepository, *repository.ProductRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := openHandlerDB(t)
	if err := db.AutoMigrate(&domain.GenerationJob{}, &domain.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	jobRepo := repository.NewJobRepository(db)
	productRepo := repository.NewProductRepository(db)

	router := gin.New()
	router.POST("/api/v1/jobs/bulk", NewJobHandler(jobRepo, productRepo).Bulk)
	return router, jobRepo, productRepo
}

func postBulk(router *gin.Engine, payload gin.H) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/bulk", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJobHandler_BulkEnqueuesKnownProducts(t *testing.T) {
	router, jobRepo, productRepo := newJobRouter(t)
	for i, id := range []string{"p1", "p2"} {
		product := &domain.Product{ID: id, ShopID: "s1", ExternalID: int64(100 + i), Name: id}
		if err := productRepo.Upsert(context.Background(), product); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}

	rec := postBulk(router, gin.H{
		"shop_id":     "s1",
		"product_ids": []string{"p1", "p2"},
		"action":      string(domain.ActionLongDescriptions),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Count  int      `json:"count"`
		JobIDs []string `json:"job_ids"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 || len(resp.JobIDs) != 2 {
		t.Fatalf("response = %+v", resp)
	}

	job, err := jobRepo.GetByID(context.Background(), resp.JobIDs[0])
	if err != nil {
		t.Fatalf("load job: %v", err)
	}
	if job.Status != domain.JobStatusPending || job.Action != domain.ActionLongDescriptions {
		t.Errorf("job = %+v", job)
	}
}

func TestJobHandler_BulkRejectsUnknownProducts(t *testing.T) {
	router, _, productRepo := newJobRouter(t)
	product := &domain.Product{ID: "p1", ShopID: "s1", ExternalID: 100, Name: "p1"}
	if err := productRepo.Upsert(context.Background(), product); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	rec := postBulk(router, gin.H{
		"shop_id":     "s1",
		"product_ids": []string{"p1", "ghost"},
		"action":      string(domain.ActionLongDescriptions),
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "ghost") {
		t.Errorf("body = %s, want the unknown ID named", rec.Body.String())
	}
}
