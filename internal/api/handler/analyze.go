package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ybertrand/shopseo/internal/seo"
)

// AnalyzeHandler exposes the content analyzer for ad-hoc scoring, so the
// editor panel can score a draft without saving it first.
type AnalyzeHandler struct{}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler() *AnalyzeHandler {
	return &AnalyzeHandler{}
}

// AnalyzeRequest is the payload for POST /api/v1/analyze.
type AnalyzeRequest struct {
	HTML             string `json:"html"`
	Title            string `json:"title"`
	MetaTitle        string `json:"meta_title"`
	MetaDescription  string `json:"meta_description"`
	FocusKeyword     string `json:"focus_keyword"`
	HasFeaturedImage bool   `json:"has_featured_image"`
}

// Analyze handles POST /api/v1/analyze.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	analysis, err := seo.Analyze(seo.ContentInput{
		HTML:             req.HTML,
		Title:            req.Title,
		MetaTitle:        req.MetaTitle,
		MetaDescription:  req.MetaDescription,
		FocusKeyword:     req.FocusKeyword,
		HasFeaturedImage: req.HasFeaturedImage,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Analysis failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"analysis": analysis,
	})
}
