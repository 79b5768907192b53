package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"core/internal/model"
	"core/internal/service"
)

// ChatHandler exposes the conversational session API
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Start handles POST /api/v1/chat/start
func (h *ChatHandler) Start(c *gin.Context) {
	var req model.StartSessionRequest
	// Body is optional; an empty start is a bare session
	_ = c.ShouldBindJSON(&req)

	session, greeting := h.chat.StartSession(req.UserID, req.Form)

	c.JSON(http.StatusOK, model.StartSessionResponse{
		SessionID: session.ID,
		Greeting:  greeting,
	})
}

// Message handles POST /api/v1/chat/message
func (h *ChatHandler) Message(c *gin.Context) {
	var req model.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id and message are required"})
		return
	}

	resp := h.chat.SendMessage(c.Request.Context(), req.SessionID, req.Message)
	c.JSON(http.StatusOK, resp)
}

// Results handles POST /api/v1/chat/results, the callback that delivers
// finder output into a waiting session
func (h *ChatHandler) Results(c *gin.Context) {
	var req model.ResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	reply, ok := h.chat.ReceiveResults(c.Request.Context(), req.SessionID, req.Properties)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, model.ResultsResponse{
		SessionID: req.SessionID,
		Reply:     reply,
		Count:     len(req.Properties),
	})
}

// Refine handles POST /api/v1/chat/refine
func (h *ChatHandler) Refine(c *gin.Context) {
	var req model.RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	reply, ok := h.chat.Refine(c.Request.Context(), req.SessionID, req.Modifications)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": req.SessionID,
		"reply":      reply,
	})
}

// Status handles GET /api/v1/chat/sessions/:id
func (h *ChatHandler) Status(c *gin.Context) {
	status, ok := h.chat.Status(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// End handles DELETE /api/v1/chat/sessions/:id
func (h *ChatHandler) End(c *gin.Context) {
	if !h.chat.EndSession(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
