package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ybertrand/shopseo/internal/domain"
	"github.com/ybertrand/shopseo/internal/repository"
)

func newShopRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := openHandlerDB(t)
	if err := db.AutoMigrate(&domain.Shop{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	h := NewShopHandler(repository.NewShopRepository(db), nil)

	router := gin.New()
	router.POST("/api/v1/shops", h.Create)
	router.GET("/api/v1/shops", h.List)
	return router
}

func TestShopHandler_CreateAndListByOwner(t *testing.T) {
	router := newShopRouter(t)

	body, _ := json.Marshal(gin.H{
		"name":            "Boutique Trail",
		"url":             "https://boutique.example",
		"consumer_key":    "ck_x",
		"consumer_secret": "cs_x",
		"owner_id":        "u1",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shops", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Shop domain.Shop `json:"shop"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Shop.ID == "" {
		t.Fatal("expected a generated shop ID")
	}
	if created.Shop.Platform != "woocommerce" || created.Shop.Language != "fr" {
		t.Errorf("defaults = %s/%s", created.Shop.Platform, created.Shop.Language)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/shops?owner_id=u1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed struct {
		Shops []domain.Shop `json:"shops"`
		Count int           `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if listed.Count != 1 || listed.Shops[0].Name != "Boutique Trail" {
		t.Errorf("listed = %+v", listed)
	}
}

func TestShopHandler_ListRequiresOwner(t *testing.T) {
	router := newShopRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/shops", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
