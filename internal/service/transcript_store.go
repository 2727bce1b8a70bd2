package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/kalasag/kalasag-go/internal/model"
	"github.com/redis/go-redis/v9"
)

// TranscriptStore keeps the append-only message list of each conversation.
type TranscriptStore interface {
	Append(ctx context.Context, conversationID string, msg model.ChatMessage) error
	List(ctx context.Context, conversationID string) ([]model.ChatMessage, error)
	Delete(ctx context.Context, conversationID string) error
}

// RedisTranscriptStore keeps transcripts in Redis lists that expire after ttl.
type RedisTranscriptStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTranscriptStore wraps an already connected client.
func NewRedisTranscriptStore(client *redis.Client, ttl time.Duration) *RedisTranscriptStore {
	return &RedisTranscriptStore{client: client, ttl: ttl}
}

func transcriptKey(conversationID string) string {
	return "kalasag:transcript:" + conversationID
}

func (s *RedisTranscriptStore) Append(ctx context.Context, conversationID string, msg model.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal transcript message: %w", err)
	}

	key := transcriptKey(conversationID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append transcript %s: %w", conversationID, err)
	}
	return nil
}

func (s *RedisTranscriptStore) List(ctx context.Context, conversationID string) ([]model.ChatMessage, error) {
	raw, err := s.client.LRange(ctx, transcriptKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load transcript %s: %w", conversationID, err)
	}

	messages := make([]model.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg model.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("decode transcript %s: %w", conversationID, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *RedisTranscriptStore) Delete(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, transcriptKey(conversationID)).Err(); err != nil {
		return fmt.Errorf("delete transcript %s: %w", conversationID, err)
	}
	return nil
}

// MemoryTranscriptStore is the in-process store used when Redis is off.
type MemoryTranscriptStore struct {
	transcripts map[string][]model.ChatMessage
	mu          sync.RWMutex
}

func NewMemoryTranscriptStore() *MemoryTranscriptStore {
	return &MemoryTranscriptStore{transcripts: make(map[string][]model.ChatMessage)}
}

func (s *MemoryTranscriptStore) Append(_ context.Context, conversationID string, msg model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[conversationID] = append(s.transcripts[conversationID], msg)
	return nil
}

func (s *MemoryTranscriptStore) List(_ context.Context, conversationID string) ([]model.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ChatMessage{}, s.transcripts[conversationID]...), nil
}

func (s *MemoryTranscriptStore) Delete(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.transcripts, conversationID)
	return nil
}
