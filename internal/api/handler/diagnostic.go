package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ybertrand/shopseo/internal/api/middleware"
	"github.com/ybertrand/shopseo/internal/domain"
	"github.com/ybertrand/shopseo/internal/logger"
	"github.com/ybertrand/shopseo/internal/repository"
	"github.com/ybertrand/shopseo/internal/service"
)

// DiagnosticHandler handles catalog diagnostic and resolution endpoints.
type DiagnosticHandler struct {
	diagnostics    *service.DiagnosticService
	resolver       *service.Resolver
	diagnosticRepo *repository.DiagnosticRepository
	resolutionRepo *repository.ResolutionRepository
}

// NewDiagnosticHandler creates a new diagnostic handler.
func NewDiagnosticHandler(
	diagnostics *service.DiagnosticService,
	resolver *service.Resolver,
	diagnosticRepo *repository.DiagnosticRepository,
	resolutionRepo *repository.ResolutionRepository,
) *DiagnosticHandler {
	return &DiagnosticHandler{
		diagnostics:    diagnostics,
		resolver:       resolver,
		diagnosticRepo: diagnosticRepo,
		resolutionRepo: resolutionRepo,
	}
}

// RunRequest is the payload for POST /api/v1/diagnostics/run.
type RunRequest struct {
	ShopID string `json:"shop_id" binding:"required"`
}

// Run handles POST /api/v1/diagnostics/run. The scan is synchronous: a
// catalog of a few thousand products scores in well under a second.
func (h *DiagnosticHandler) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	run, err := h.diagnostics.Run(c.Request.Context(), req.ShopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Diagnostic failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"run":     run,
	})
}

// Get handles GET /api/v1/diagnostics/:id.
func (h *DiagnosticHandler) Get(c *gin.Context) {
	run, err := h.diagnosticRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Diagnostic run not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"run":     run,
	})
}

// ResolveRequest is the payload for POST /api/v1/diagnostics/:id/resolve.
type ResolveRequest struct {
	Category string `json:"category" binding:"required"`
}

// Resolve handles POST /api/v1/diagnostics/:id/resolve. It creates a
// resolution run for the issue's affected items and processes it in the
// background; the client polls GET /resolutions/:id for progress.
func (h *DiagnosticHandler) Resolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	diagnostic, err := h.diagnosticRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Diagnostic run not found",
		})
		return
	}

	issue := findActionableIssue(diagnostic.Issues, req.Category)
	if issue == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "No actionable issue for category " + req.Category,
		})
		return
	}

	run := &domain.ResolutionRun{
		ID:           uuid.NewString(),
		ShopID:       diagnostic.ShopID,
		DiagnosticID: diagnostic.ID,
		Category:     issue.Category,
		Status:       domain.RunStatusPending,
		TotalItems:   len(issue.AffectedItems),
	}
	if err := h.resolutionRepo.Create(c.Request.Context(), run); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create resolution run: " + err.Error(),
		})
		return
	}

	middleware.GetLogger(c).WithFields(logger.Fields{logger.FieldRunID: run.ID}).
		Infof("Resolution run launched: category=%s, items=%d", run.Category, run.TotalItems)

	// Detach from the request context: the run outlives the HTTP request.
	// The goroutine gets its own copy of the row; the response below
	// serializes the snapshot taken at creation.
	ctx := logger.SetComponent(logger.SetShopID(context.Background(), run.ShopID), "resolver")
	items := issue.AffectedItems
	bg := *run
	go func() {
		if err := h.resolver.Resolve(ctx, &bg, items); err != nil {
			logger.CtxError(ctx, "Resolution run %s failed: %v", bg.ID, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"run":     run,
	})
}

// GetResolution handles GET /api/v1/resolutions/:id.
func (h *DiagnosticHandler) GetResolution(c *gin.Context) {
	run, err := h.resolutionRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Resolution run not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"run":     run,
	})
}

// findActionableIssue returns the first issue of the category that has a
// remediation routine and at least one affected item.
func findActionableIssue(issues domain.IssueList, category string) *domain.Issue {
	for i := range issues {
		issue := &issues[i]
		if issue.Category == category && issue.ActionAvailable && len(issue.AffectedItems) > 0 {
			return issue
		}
	}
	return nil
}
