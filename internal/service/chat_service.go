package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kalasag/kalasag-go/internal/engine"
	"github.com/kalasag/kalasag-go/internal/model"
	"go.uber.org/zap"
)

var ErrEmptyMessage = errors.New("message is empty")

// ChatService runs user messages through the classifier and records the
// conversation transcript.
type ChatService struct {
	classifier *engine.Classifier
	store      TranscriptStore
	logger     *zap.Logger
	now        func() time.Time
}

// NewChatService wires the classifier to a transcript store.
func NewChatService(classifier *engine.Classifier, store TranscriptStore, logger *zap.Logger) *ChatService {
	return &ChatService{
		classifier: classifier,
		store:      store,
		logger:     logger,
		now:        time.Now,
	}
}

// StartConversation seeds a new transcript with the welcome line.
func (s *ChatService) StartConversation(ctx context.Context, conversationID string) (model.ChatMessage, error) {
	welcome := model.ChatMessage{Speaker: model.SpeakerBot, Text: engine.WelcomeText, Timestamp: s.now()}
	if err := s.store.Append(ctx, conversationID, welcome); err != nil {
		return model.ChatMessage{}, err
	}
	s.logger.Info("conversation started", zap.String("conversationId", conversationID))
	return welcome, nil
}

// HandleUserMessage records the user line, classifies it and
// records the bot line.
func (s *ChatService) HandleUserMessage(ctx context.Context, conversationID, content string) (*engine.BotResponse, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}

	userMsg := model.ChatMessage{Speaker: model.SpeakerUser, Text: content, Timestamp: s.now()}
	if err := s.store.Append(ctx, conversationID, userMsg); err != nil {
		return nil, fmt.Errorf("record user message: %w", err)
	}

	resp := s.classifier.Classify(content)

	if resp.Text != "" {
		botMsg := model.ChatMessage{Speaker: model.SpeakerBot, Text: resp.Text, Timestamp: s.now()}
		if err := s.store.Append(ctx, conversationID, botMsg); err != nil {
			return nil, fmt.Errorf("record bot message: %w", err)
		}
	}

	s.logger.Info("user message answered",
		zap.String("conversationId", conversationID),
		zap.String("action", string(resp.Action)))

	return &resp, nil
}

// Classify answers one message without touching any transcript.
func (s *ChatService) Classify(content string) engine.BotResponse {
	return s.classifier.Classify(content)
}

// Transcript returns the conversation so far, oldest first.
func (s *ChatService) Transcript(ctx context.Context, conversationID string) ([]model.ChatMessage, error) {
	return s.store.List(ctx, conversationID)
}

// EndConversation drops the transcript.
func (s *ChatService) EndConversation(ctx context.Context, conversationID string) error {
	if err := s.store.Delete(ctx, conversationID); err != nil {
		return err
	}
	s.logger.Info("conversation ended", zap.String("conversationId", conversationID))
	return nil
}

// Knowledge returns the table behind the classifier.
func (s *ChatService) Knowledge() []engine.KnowledgeEntry {
	return s.classifier.Knowledge().Entries()
}
