package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kalasag/kalasag-go/internal/engine"
	"github.com/kalasag/kalasag-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingStore struct {
	*MemoryTranscriptStore
	err error
}

func (f *failingStore) Append(context.Context, string, model.ChatMessage) error {
	return f.err
}

func newChatService(store TranscriptStore) *ChatService {
	return NewChatService(engine.NewClassifier(nil), store, zap.NewNop())
}

func TestChatService_HandleUserMessage(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTranscriptStore()
	svc := newChatService(store)

	welcome, err := svc.StartConversation(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, engine.WelcomeText, welcome.Text)

	resp, err := svc.HandleUserMessage(ctx, "c1", "Hi there!")
	require.NoError(t, err)
	assert.Equal(t, engine.GreetingText, resp.Text)
	assert.False(t, resp.HasAction())

	resp, err = svc.HandleUserMessage(ctx, "c1", "show high risk")
	require.NoError(t, err)
	assert.Equal(t, engine.ActionShowHighRisk, resp.Action)

	transcript, err := svc.Transcript(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, transcript, 5)

	wantSpeakers := []model.Speaker{model.SpeakerBot, model.SpeakerUser, model.SpeakerBot, model.SpeakerUser, model.SpeakerBot}
	for i, msg := range transcript {
		assert.Equal(t, wantSpeakers[i], msg.Speaker, "line %d", i)
		assert.NotEmpty(t, msg.Text, "line %d", i)
	}
	assert.Equal(t, "show high risk", transcript[3].Text)
	assert.Equal(t, engine.HighRiskText, transcript[4].Text)
}

func TestChatService_EmptyMessage(t *testing.T) {
	store := NewMemoryTranscriptStore()
	svc := newChatService(store)

	_, err := svc.HandleUserMessage(context.Background(), "c1", "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	transcript, err := svc.Transcript(context.Background(), "c1")
	require.NoError(t, err)
	assert.Empty(t, transcript)
}

func TestChatService_StoreFailure(t *testing.T) {
	boom := errors.New("boom")
	svc := newChatService(&failingStore{MemoryTranscriptStore: NewMemoryTranscriptStore(), err: boom})

	_, err := svc.HandleUserMessage(context.Background(), "c1", "hello")
	assert.ErrorIs(t, err, boom)
}

func TestChatService_EndConversation(t *testing.T) {
	ctx := context.Background()
	svc := newChatService(NewMemoryTranscriptStore())

	_, err := svc.HandleUserMessage(ctx, "c1", "what is phishing?")
	require.NoError(t, err)
	require.NoError(t, svc.EndConversation(ctx, "c1"))

	transcript, err := svc.Transcript(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, transcript)
}

func TestChatService_ClassifyIsStateless(t *testing.T) {
	svc := newChatService(NewMemoryTranscriptStore())
	assert.Equal(t, engine.FallbackText, svc.Classify("").Text)
	assert.Len(t, svc.Knowledge(), len(engine.DefaultKnowledge))
}
