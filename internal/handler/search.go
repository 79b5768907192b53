package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"core/internal/config"
	"core/internal/model"
	"core/internal/service"
)

// SearchHandler exposes direct property search without a chat session
type SearchHandler struct {
	finder *service.PropertyFinder
	ranker *service.DealRanker
	cfg    *config.SearchConfig
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(finder *service.PropertyFinder, ranker *service.DealRanker, cfg *config.SearchConfig) *SearchHandler {
	return &SearchHandler{finder: finder, ranker: ranker, cfg: cfg}
}

// Search handles POST /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search request"})
		return
	}

	if !req.Criteria.HasLocation() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a zip_code or city and state is required"})
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = h.cfg.DefaultLimit
	}
	if limit > h.cfg.MaxLimit {
		limit = h.cfg.MaxLimit
	}

	results, err := h.finder.FindByLocation(c.Request.Context(), &req.Criteria, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "property search failed"})
		return
	}

	h.ranker.Rank(results, &req.Criteria)

	c.JSON(http.StatusOK, model.SearchResponse{
		Properties: results,
		Count:      len(results),
	})
}
