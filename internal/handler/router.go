package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kalasag/kalasag-go/internal/middleware"
	"go.uber.org/zap"
)

// NewRouter mounts every endpoint on a fresh gin engine.
func NewRouter(api *APIHandler, classifier *ClassifierHandler, ws *WebSocketHandler,
	allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.CORS(allowedOrigins))

	// live chat
	r.GET("/ws", ws.HandleWebSocket)

	apiGroup := r.Group("/api")
	apiGroup.POST("/chat", classifier.Chat)
	apiGroup.GET("/knowledge", classifier.Knowledge)
	apiGroup.GET("/conversations/:id/transcript", classifier.Transcript)
	apiGroup.POST("/risk/assess", api.AssessRisk)
	apiGroup.POST("/transfers", api.SubmitTransfer)
	apiGroup.GET("/health", api.Health)

	return r
}
