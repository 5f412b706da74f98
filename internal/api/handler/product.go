package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ybertrand/shopseo/internal/service"
)

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	sync *service.SyncService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(sync *service.SyncService) *ProductHandler {
	return &ProductHandler{sync: sync}
}

// SyncRequest is the payload for POST /api/v1/products/sync.
type SyncRequest struct {
	ShopID string `json:"shop_id" binding:"required"`
}

// Sync handles POST /api/v1/products/sync: pulls the full catalog from the
// store into local rows.
func (h *ProductHandler) Sync(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	count, err := h.sync.Sync(c.Request.Context(), req.ShopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Sync failed: " + err.Error(),
			"synced":  count,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"synced":  count,
	})
}

// RefreshRequest is the payload for POST /api/v1/products/refresh.
type RefreshRequest struct {
	ShopID     string `json:"shop_id" binding:"required"`
	ExternalID int64  `json:"external_id" binding:"required"`
}

// Refresh handles POST /api/v1/products/refresh: re-reads one product from
// the store after an external edit.
func (h *ProductHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	product, err := h.sync.SyncProduct(c.Request.Context(), req.ShopID, req.ExternalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Refresh failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": product,
	})
}
