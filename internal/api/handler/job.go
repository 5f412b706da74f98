package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ybertrand/shopseo/internal/domain"
	"github.com/ybertrand/shopseo/internal/repository"
)

// jobActions is the set of actions accepted on the bulk endpoint.
var jobActions = map[domain.JobAction]bool{
	domain.ActionComplete:          true,
	domain.ActionLongDescriptions:  true,
	domain.ActionShortDescriptions: true,
	domain.ActionAltImages:         true,
	domain.ActionInternalLinking:   true,
	domain.ActionTranslate:         true,
}

// JobHandler handles generation job endpoints. Jobs are only enqueued here;
// the worker drains the queue.
type JobHandler struct {
	jobRepo     *repository.JobRepository
	productRepo *repository.ProductRepository
}

// NewJobHandler creates a new job handler.
func NewJobHandler(jobRepo *repository.JobRepository, productRepo *repository.ProductRepository) *JobHandler {
	return &JobHandler{jobRepo: jobRepo, productRepo: productRepo}
}

// BulkRequest is the payload for POST /api/v1/jobs/bulk.
type BulkRequest struct {
	ShopID                string           `json:"shop_id" binding:"required"`
	ProductIDs            []string         `json:"product_ids" binding:"required"`
	Action                domain.JobAction `json:"action" binding:"required"`
	Language              string           `json:"language"`
	PreserveInternalLinks bool             `json:"preserve_internal_links"`
	CreatedBy             string           `json:"created_by"`
}

// Bulk handles POST /api/v1/jobs/bulk: one pending job row per product.
func (h *JobHandler) Bulk(c *gin.Context) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}
	if !jobActions[req.Action] {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Unknown action: " + string(req.Action),
		})
		return
	}
	if len(req.ProductIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "product_ids must not be empty",
		})
		return
	}

	// Reject unknown products up front; a job row for a product that was
	// never synced can only fail in the worker.
	known, err := h.productRepo.GetByIDs(c.Request.Context(), req.ProductIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load products: " + err.Error(),
		})
		return
	}
	knownIDs := make(map[string]bool, len(known))
	for _, p := range known {
		knownIDs[p.ID] = true
	}
	var missing []string
	for _, id := range req.ProductIDs {
		if !knownIDs[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Unknown product IDs: " + strings.Join(missing, ", "),
		})
		return
	}

	jobs := make([]domain.GenerationJob, 0, len(req.ProductIDs))
	ids := make([]string, 0, len(req.ProductIDs))
	for _, productID := range req.ProductIDs {
		id := uuid.NewString()
		ids = append(ids, id)
		jobs = append(jobs, domain.GenerationJob{
			ID:                    id,
			ShopID:                req.ShopID,
			ProductID:             productID,
			Action:                req.Action,
			Status:                domain.JobStatusPending,
			Language:              req.Language,
			PreserveInternalLinks: req.PreserveInternalLinks,
			CreatedBy:             req.CreatedBy,
		})
	}

	if err := h.jobRepo.CreateBatch(c.Request.Context(), jobs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to enqueue jobs: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"count":   len(jobs),
		"job_ids": ids,
	})
}

// List handles GET /api/v1/jobs?shop_id=&limit=&offset=.
func (h *JobHandler) List(c *gin.Context) {
	shopID := c.Query("shop_id")
	if shopID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Query parameter 'shop_id' is required",
		})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	jobs, err := h.jobRepo.ListByShop(c.Request.Context(), shopID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to list jobs: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"jobs":    jobs,
		"count":   len(jobs),
	})
}

// Get handles GET /api/v1/jobs/:id.
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Job not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"job":     job,
	})
}
