package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kalasag/kalasag-go/internal/model"
	"github.com/kalasag/kalasag-go/internal/service"
	"go.uber.org/zap"
)

// ClassifierHandler exposes the assistant over plain HTTP.
type ClassifierHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

// NewClassifierHandler serves chat, knowledge and transcripts.
func NewClassifierHandler(chatService *service.ChatService, logger *zap.Logger) *ClassifierHandler {
	return &ClassifierHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat answers one message. Empty messages get the fallback reply.
func (h *ClassifierHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	resp := h.chatService.Classify(req.Message)
	h.logger.Debug("classified",
		zap.String("message", req.Message),
		zap.String("action", string(resp.Action)))

	c.JSON(http.StatusOK, model.ChatResponse{Text: resp.Text, Action: resp.Action})
}

// Knowledge lists the knowledge table in lookup order.
func (h *ClassifierHandler) Knowledge(c *gin.Context) {
	entries := h.chatService.Knowledge()
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// Transcript returns a live conversation's transcript.
func (h *ClassifierHandler) Transcript(c *gin.Context) {
	id := c.Param("id")
	messages, err := h.chatService.Transcript(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("load transcript failed", zap.String("conversationId", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load transcript failed"})
		return
	}
	if len(messages) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversationId": id, "messages": messages})
}
