package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kalasag/kalasag-go/internal/engine"
	"github.com/kalasag/kalasag-go/internal/model"
	"github.com/kalasag/kalasag-go/internal/service"
	"go.uber.org/zap"
)

// APIHandler serves transfers, risk checks and health.
type APIHandler struct {
	transferService *service.TransferService
	sessionService  *service.SessionService
	serviceName     string
	logger          *zap.Logger
}

// NewAPIHandler wires the transfer and session services.
func NewAPIHandler(transferService *service.TransferService, sessionService *service.SessionService, serviceName string, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		transferService: transferService,
		sessionService:  sessionService,
		serviceName:     serviceName,
		logger:          logger,
	}
}

// AssessRisk returns the tier of an amount.
func (h *APIHandler) AssessRisk(c *gin.Context) {
	var req model.RiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tier, err := h.transferService.Assess(*req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": engine.ErrInvalidAmount.Error()})
		return
	}

	c.JSON(http.StatusOK, model.RiskResponse{
		Amount:    *req.Amount,
		Tier:      tier,
		Action:    tier.Action(),
		Threshold: engine.HighRiskThreshold,
	})
}

// SubmitTransfer validates a send-money form and returns the outcome screen.
func (h *APIHandler) SubmitTransfer(c *gin.Context) {
	var req model.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	outcome, err := h.transferService.Submit(c.Request.Context(), req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transfer", "fields": verr.Fields})
		case errors.Is(err, engine.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": engine.ErrInvalidAmount.Error()})
		default:
			h.logger.Error("transfer failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "transfer failed"})
		}
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// Health reports liveness and open conversations.
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "UP",
		"service":       h.serviceName,
		"conversations": h.sessionService.OnlineCount(),
	})
}
