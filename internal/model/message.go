package model

import (
	"time"

	"github.com/kalasag/kalasag-go/internal/engine"
)

// Speaker identifies who said a transcript line.
type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerBot  Speaker = "bot"
)

// ChatMessage is one transcript line.
type ChatMessage struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Frame types exchanged on the websocket.
const (
	FrameWelcome   = "WELCOME"
	FrameChat      = "CHAT"
	FrameTyping    = "TYPING"
	FrameBotReply  = "BOT_REPLY"
	FrameModal     = "MODAL"
	FrameDismiss   = "DISMISS"
	FrameHeartbeat = "HEARTBEAT"
	FrameError     = "ERROR"
)

// Frame is a websocket envelope in either direction.
type Frame struct {
	MessageID      string        `json:"messageId,omitempty"`
	Type           string        `json:"type"`
	Content        string        `json:"content,omitempty"`
	Action         engine.Action `json:"action,omitempty"`
	ConversationID string        `json:"conversationId,omitempty"`
	Timestamp      time.Time     `json:"timestamp"`
}

// ChatRequest is a one-shot classify request.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse mirrors engine.BotResponse on the HTTP API.
type ChatResponse struct {
	Text   string        `json:"text,omitempty"`
	Action engine.Action `json:"action,omitempty"`
}

// RiskRequest asks for the tier of an amount.
type RiskRequest struct {
	Amount *float64 `json:"amount" binding:"required"`
}

// RiskResponse is the tier of an amount.
type RiskResponse struct {
	Amount    float64         `json:"amount"`
	Tier      engine.RiskTier `json:"tier"`
	Action    engine.Action   `json:"action"`
	Threshold float64         `json:"threshold"`
}
