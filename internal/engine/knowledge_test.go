package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeBase_FirstMatchWins(t *testing.T) {
	kb, err := NewKnowledgeBase([]KnowledgeEntry{
		{Keywords: []string{"card"}, Answer: "first"},
		{Keywords: []string{"credit card"}, Answer: "second"},
	})
	require.NoError(t, err)

	got, ok := kb.Lookup("my Credit Card was declined")
	assert.True(t, ok)
	assert.Equal(t, "first", got)
}

func TestKnowledgeBase_AnyKeywordMatches(t *testing.T) {
	got, ok := Lookup("how do I SEND MONEY to my son")
	assert.True(t, ok)
	assert.Equal(t, DefaultKnowledge[4].Answer, got)
}

func TestKnowledgeBase_NoMatch(t *testing.T) {
	_, ok := Lookup("")
	assert.False(t, ok)

	_, ok = Lookup("weather today")
	assert.False(t, ok)
}

func TestKnowledgeBase_DefaultOrder(t *testing.T) {
	// "scam" (entry 1) wins over "phishing" (entry 6).
	got, ok := Lookup("is this phishing scam real")
	assert.True(t, ok)
	assert.Equal(t, DefaultKnowledge[1].Answer, got)
	assert.Equal(t, len(DefaultKnowledge), Knowledge().Len())
}

func TestNewKnowledgeBase_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		entries []KnowledgeEntry
		wantErr error
	}{
		{name: "empty keyword", entries: []KnowledgeEntry{{Keywords: []string{""}, Answer: "a"}}, wantErr: ErrEmptyKeyword},
		{name: "duplicate keyword", entries: []KnowledgeEntry{{Keywords: []string{"pin", "pin"}, Answer: "a"}}, wantErr: ErrDuplicateKeyword},
		{name: "uppercase keyword", entries: []KnowledgeEntry{{Keywords: []string{"PIN"}, Answer: "a"}}, wantErr: ErrKeywordCase},
		{name: "empty answer", entries: []KnowledgeEntry{{Keywords: []string{"pin"}, Answer: "  "}}, wantErr: ErrEmptyAnswer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKnowledgeBase(tt.entries)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestKnowledgeBase_Entries(t *testing.T) {
	src := []KnowledgeEntry{{Keywords: []string{"loan"}, Answer: "Loans."}}
	kb, err := NewKnowledgeBase(src)
	require.NoError(t, err)

	src[0].Keywords[0] = "changed"
	entries := kb.Entries()
	entries[0].Answer = "mutated"

	got, ok := kb.Lookup("loan")
	assert.True(t, ok)
	assert.Equal(t, "Loans.", got)
}
