package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kalasag/kalasag-go/internal/engine"
	"github.com/kalasag/kalasag-go/internal/model"
	"github.com/kalasag/kalasag-go/internal/service"
	"go.uber.org/zap"
)

// WebSocketHandler runs one live conversation per connection.
type WebSocketHandler struct {
	upgrader       websocket.Upgrader
	sessionService *service.SessionService
	chatService    *service.ChatService
	typingDelay    time.Duration
	logger         *zap.Logger
}

// NewWebSocketHandler checks Origin against allowedOrigins; an empty list accepts any.
func NewWebSocketHandler(sessionService *service.SessionService, chatService *service.ChatService,
	typingDelay time.Duration, allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				_, ok := allowed[r.Header.Get("Origin")]
				return ok
			},
		},
		sessionService: sessionService,
		chatService:    chatService,
		typingDelay:    typingDelay,
		logger:         logger,
	}
}

// HandleWebSocket upgrades the request and reads frames until the client leaves.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	conversationID := uuid.New().String()
	session := model.NewConversationSession(conversationID, conn, c.ClientIP())
	h.sessionService.Register(session)
	defer h.sessionService.RemoveSession(session)

	welcome, err := h.chatService.StartConversation(c.Request.Context(), conversationID)
	if err != nil {
		h.logger.Error("start conversation failed", zap.String("conversationId", conversationID), zap.Error(err))
		return
	}
	h.send(session, model.Frame{Type: model.FrameWelcome, Content: welcome.Text, ConversationID: conversationID})

	for {
		var frame model.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", zap.String("conversationId", conversationID), zap.Error(err))
			}
			break
		}
		h.handleFrame(session, &frame)
	}

	h.logger.Info("websocket closed", zap.String("conversationId", conversationID))
}

func (h *WebSocketHandler) handleFrame(session *model.ConversationSession, frame *model.Frame) {
	switch frame.Type {
	case model.FrameChat:
		if strings.TrimSpace(frame.Content) == "" {
			h.sendError(session, frame.MessageID, service.ErrEmptyMessage.Error())
			return
		}
		if err := session.Fire(engine.EventMessageSent, engine.ActionNone); err != nil {
			h.sendError(session, frame.MessageID, "please wait for the previous reply")
			return
		}
		h.send(session, model.Frame{MessageID: frame.MessageID, Type: model.FrameTyping})
		// Recorded on the read loop so the deferred teardown always runs after the appends.
		resp, err := h.chatService.HandleUserMessage(context.Background(), session.ConversationID, frame.Content)
		go h.respond(session, frame.MessageID, resp, err)

	case model.FrameDismiss:
		if err := session.Fire(engine.EventModalDismissed, engine.ActionNone); err != nil {
			h.sendError(session, frame.MessageID, "no open modal")
		}

	case model.FrameHeartbeat:
		h.sessionService.UpdateHeartbeat(session.ConversationID)

	default:
		h.logger.Warn("unknown frame type",
			zap.String("conversationId", session.ConversationID),
			zap.String("type", frame.Type))
		h.sendError(session, frame.MessageID, "unknown frame type")
	}
}

// respond answers after the typing delay. A newer modal replaces an open one.
func (h *WebSocketHandler) respond(session *model.ConversationSession, messageID string, resp *engine.BotResponse, err error) {
	if h.typingDelay > 0 {
		timer := time.NewTimer(h.typingDelay)
		select {
		case <-timer.C:
		case <-session.Done():
			timer.Stop()
			return
		}
	}

	if fireErr := session.Fire(engine.EventResponseResolved, engine.ActionNone); fireErr != nil {
		h.logger.Error("resolve response", zap.String("conversationId", session.ConversationID), zap.Error(fireErr))
	}

	if err != nil {
		h.logger.Error("handle message failed", zap.String("conversationId", session.ConversationID), zap.Error(err))
		h.sendError(session, messageID, "sorry, something went wrong")
		return
	}

	h.send(session, model.Frame{MessageID: messageID, Type: model.FrameBotReply, Content: resp.Text, Action: resp.Action})

	if !resp.HasAction() {
		return
	}
	if err := session.Fire(engine.EventActionRaised, resp.Action); errors.Is(err, engine.ErrInvalidTransition) {
		if err := session.Fire(engine.EventModalDismissed, engine.ActionNone); err != nil {
			h.logger.Warn("dismiss replaced modal", zap.String("conversationId", session.ConversationID), zap.Error(err))
		}
		if err := session.Fire(engine.EventActionRaised, resp.Action); err != nil {
			h.logger.Error("open modal", zap.String("conversationId", session.ConversationID), zap.Error(err))
			return
		}
	}
	h.send(session, model.Frame{MessageID: messageID, Type: model.FrameModal, Action: resp.Action})
}

func (h *WebSocketHandler) send(session *model.ConversationSession, frame model.Frame) {
	frame.Timestamp = time.Now()
	// Send logs and tears the session down on failure.
	_ = h.sessionService.Send(session.ConversationID, frame)
}

func (h *WebSocketHandler) sendError(session *model.ConversationSession, messageID, reason string) {
	h.send(session, model.Frame{MessageID: messageID, Type: model.FrameError, Content: reason})
}
