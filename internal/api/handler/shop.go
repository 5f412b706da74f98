package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ybertrand/shopseo/internal/domain"
	"github.com/ybertrand/shopseo/internal/repository"
	"github.com/ybertrand/shopseo/internal/service"
)

// ShopHandler handles shop onboarding and dashboard endpoints.
type ShopHandler struct {
	shopRepo *repository.ShopRepository
	sync     *service.SyncService
}

// NewShopHandler creates a new shop handler.
func NewShopHandler(shopRepo *repository.ShopRepository, sync *service.SyncService) *ShopHandler {
	return &ShopHandler{shopRepo: shopRepo, sync: sync}
}

// CreateShopRequest is the payload for POST /api/v1/shops.
type CreateShopRequest struct {
	Name           string `json:"name" binding:"required"`
	URL            string `json:"url" binding:"required"`
	Platform       string `json:"platform"`
	ConsumerKey    string `json:"consumer_key" binding:"required"`
	ConsumerSecret string `json:"consumer_secret" binding:"required"`
	Language       string `json:"language"`
	OwnerID        string `json:"owner_id" binding:"required"`
}

// Create handles POST /api/v1/shops: connects a new store.
func (h *ShopHandler) Create(c *gin.Context) {
	var req CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}
	if req.Platform == "" {
		req.Platform = "woocommerce"
	}
	if req.Language == "" {
		req.Language = "fr"
	}

	shop := &domain.Shop{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Platform:       req.Platform,
		URL:            req.URL,
		ConsumerKey:    req.ConsumerKey,
		ConsumerSecret: req.ConsumerSecret,
		Language:       req.Language,
		OwnerID:        req.OwnerID,
	}
	if err := h.shopRepo.Create(c.Request.Context(), shop); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create shop: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"shop":    shop,
	})
}

// List handles GET /api/v1/shops?owner_id=.
func (h *ShopHandler) List(c *gin.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Query parameter 'owner_id' is required",
		})
		return
	}

	shops, err := h.shopRepo.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to list shops: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"shops":   shops,
		"count":   len(shops),
	})
}

// Overview handles GET /api/v1/shops/:id/overview?days=. Orders and revenue
// cover the given window (default 30 days).
func (h *ShopHandler) Overview(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 365 {
			days = parsed
		}
	}
	since := time.Now().AddDate(0, 0, -days)

	overview, err := h.sync.Overview(c.Request.Context(), c.Param("id"), since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to build overview: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"overview": overview,
	})
}
