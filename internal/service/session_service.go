package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kalasag/kalasag-go/internal/config"
	"github.com/kalasag/kalasag-go/internal/model"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("conversation session not found")

// SessionService tracks open conversation views and reaps the silent ones.
type SessionService struct {
	sessions map[string]*model.ConversationSession
	mu       sync.RWMutex
	chat     *ChatService
	cfg      config.SessionConfig
	logger   *zap.Logger
}

// NewSessionService ends conversations through chat when sessions go away.
func NewSessionService(chat *ChatService, cfg config.SessionConfig, logger *zap.Logger) *SessionService {
	return &SessionService{
		sessions: make(map[string]*model.ConversationSession),
		chat:     chat,
		cfg:      cfg,
		logger:   logger,
	}
}

// Register adds a session. A session with the same ID is closed first.
func (s *SessionService) Register(session *model.ConversationSession) {
	s.mu.Lock()
	existing, ok := s.sessions[session.ConversationID]
	s.sessions[session.ConversationID] = session
	s.mu.Unlock()

	if ok && existing != session {
		s.logger.Info("conversation reconnected, closing old connection",
			zap.String("conversationId", session.ConversationID))
		existing.Close()
	}

	s.logger.Info("conversation session registered",
		zap.String("conversationId", session.ConversationID),
		zap.String("clientIp", session.ClientIP))
}

// Get looks a session up by conversation ID.
func (s *SessionService) Get(conversationID string) (*model.ConversationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[conversationID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Send writes a frame to one conversation. A failed write tears the session down.
func (s *SessionService) Send(conversationID string, frame model.Frame) error {
	session, err := s.Get(conversationID)
	if err != nil {
		s.logger.Warn("conversation offline, frame dropped",
			zap.String("conversationId", conversationID),
			zap.String("type", frame.Type))
		return err
	}

	if err := session.WriteMessage(frame); err != nil {
		s.logger.Error("frame write failed",
			zap.String("conversationId", conversationID),
			zap.Error(err))
		go s.Remove(conversationID)
		return err
	}
	return nil
}

// UpdateHeartbeat reports false for unknown conversations.
func (s *SessionService) UpdateHeartbeat(conversationID string) bool {
	session, err := s.Get(conversationID)
	if err != nil {
		return false
	}
	session.UpdateHeartbeat()
	s.logger.Debug("heartbeat", zap.String("conversationId", conversationID))
	return true
}

// Remove closes the session and ends its conversation. Safe to call twice.
func (s *SessionService) Remove(conversationID string) {
	s.remove(conversationID, nil)
}

// RemoveSession removes session only while it is still the registered one
// for its conversation, so a stale read loop cannot drop its replacement.
func (s *SessionService) RemoveSession(session *model.ConversationSession) {
	if !s.remove(session.ConversationID, session) {
		session.Close()
	}
}

func (s *SessionService) remove(conversationID string, only *model.ConversationSession) bool {
	s.mu.Lock()
	session, ok := s.sessions[conversationID]
	if ok && only != nil && session != only {
		ok = false
	}
	if ok {
		delete(s.sessions, conversationID)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	session.Close()

	if err := s.chat.EndConversation(context.Background(), conversationID); err != nil {
		s.logger.Error("drop transcript failed",
			zap.String("conversationId", conversationID),
			zap.Error(err))
	}
	s.logger.Info("conversation session removed", zap.String("conversationId", conversationID))
	return true
}

// OnlineCount is the number of open sessions.
func (s *SessionService) OnlineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run reaps sessions every heartbeat interval until ctx is done.
func (s *SessionService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Reap(now)
		}
	}
}

// Reap counts a missed beat for every late session and removes those that
// reached the limit. It returns the removed conversation IDs.
func (s *SessionService) Reap(now time.Time) []string {
	s.mu.RLock()
	sessions := make([]*model.ConversationSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.RUnlock()

	var removed []string
	for _, session := range sessions {
		missed, late := session.CheckHeartbeat(now, s.cfg.HeartbeatTimeout)
		if !late {
			continue
		}
		if missed >= s.cfg.MaxMissedBeats {
			s.logger.Info("reaping silent conversation",
				zap.String("conversationId", session.ConversationID),
				zap.Int("missedBeats", missed))
			s.RemoveSession(session)
			removed = append(removed, session.ConversationID)
			continue
		}
		s.logger.Warn("heartbeat missed",
			zap.String("conversationId", session.ConversationID),
			zap.Int("missedBeats", missed))
	}
	return removed
}
