package model

import (
	"sync"
	"time"

	"github.com/kalasag/kalasag-go/internal/engine"
)

// Conn is the part of *websocket.Conn a session writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// ConversationSession is one open chat view.
type ConversationSession struct {
	ConversationID string
	Conn           Conn
	ClientIP       string
	LastHeartbeat  time.Time
	MissedBeats    int

	flow      *engine.Flow
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex // guards heartbeat fields and flow
	writeMu   sync.Mutex   // one writer per websocket
}

// NewConversationSession starts a session in the Idle/Closed flow state.
func NewConversationSession(conversationID string, conn Conn, clientIP string) *ConversationSession {
	return &ConversationSession{
		ConversationID: conversationID,
		Conn:           conn,
		ClientIP:       clientIP,
		LastHeartbeat:  time.Now(),
		flow:           engine.NewFlow(),
		done:           make(chan struct{}),
	}
}

// UpdateHeartbeat records a heartbeat and resets the missed count.
func (s *ConversationSession) UpdateHeartbeat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastHeartbeat = time.Now()
	s.MissedBeats = 0
}

// CheckHeartbeat counts a missed beat when the last one is older than timeout
// and reports the running total.
func (s *ConversationSession) CheckHeartbeat(now time.Time, timeout time.Duration) (missed int, late bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.LastHeartbeat) <= timeout {
		return s.MissedBeats, false
	}
	s.MissedBeats++
	return s.MissedBeats, true
}

// Fire applies a flow event under the session lock.
func (s *ConversationSession) Fire(event engine.Event, action engine.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow.Fire(event, action)
}

// FlowState returns the current chat and modal states.
func (s *ConversationSession) FlowState() (engine.ChatState, engine.ModalState, engine.Action) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flow.Chat(), s.flow.Modal(), s.flow.OpenAction()
}

// WriteMessage writes one JSON frame; safe for concurrent callers.
func (s *ConversationSession) WriteMessage(message interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.Conn.WriteJSON(message)
}

// Done is closed when the session is torn down.
func (s *ConversationSession) Done() <-chan struct{} {
	return s.done
}

// Close closes the connection once.
func (s *ConversationSession) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.Conn.Close()
	})
}
