package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ybertrand/shopseo/internal/search"
)

// SearchHandler handles keyword ranking endpoints.
type SearchHandler struct {
	client *search.Client
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(client *search.Client) *SearchHandler {
	return &SearchHandler{client: client}
}

// Rankings handles GET /api/v1/search/rankings?keyword=&domain=&limit=&enrich=.
// Returns the keyword's results and, when a domain is given, its position
// in them (0 when absent).
func (h *SearchHandler) Rankings(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Query parameter 'keyword' is required",
		})
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	results, err := h.client.Search(c.Request.Context(), keyword, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Search failed: " + err.Error(),
		})
		return
	}

	// Competitor page scrapes are slow; only run them when asked for.
	if c.Query("enrich") == "true" {
		results = h.client.Enrich(c.Request.Context(), results)
	}

	position := 0
	if domain := c.Query("domain"); domain != "" {
		for _, result := range results {
			if strings.Contains(result.URL, domain) {
				position = result.Position
				break
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"keyword":  keyword,
		"position": position,
		"results":  results,
	})
}
