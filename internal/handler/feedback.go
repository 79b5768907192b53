package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"core/internal/model"
)

// FeedbackStore persists lead-action feedback
type FeedbackStore interface {
	RecordFeedback(ctx context.Context, sessionID, address, action string) error
}

var validFeedbackActions = map[string]bool{
	"contacted": true,
	"toured":    true,
	"offer":     true,
}

// FeedbackHandler records what buyers did with the properties they were shown
type FeedbackHandler struct {
	store FeedbackStore
}

// NewFeedbackHandler creates a feedback handler; store may be nil when
// persistence is disabled
func NewFeedbackHandler(store FeedbackStore) *FeedbackHandler {
	return &FeedbackHandler{store: store}
}

// Submit handles POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id and action are required"})
		return
	}

	if !validFeedbackActions[req.Action] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be one of: contacted, toured, offer"})
		return
	}

	if h.store != nil {
		if err := h.store.RecordFeedback(c.Request.Context(), req.SessionID, req.Address, req.Action); err != nil {
			c.JSON(http.StatusInternalServerError, model.FeedbackResponse{
				Success: false,
				Message: "failed to record feedback",
			})
			return
		}
	}

	c.JSON(http.StatusOK, model.FeedbackResponse{
		Success: true,
		Message: "feedback recorded",
	})
}
