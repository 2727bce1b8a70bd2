package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  port: 9090
redis:
  enabled: true
  host: cache
chat:
  typingDelay: 250ms
log:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "kalasag", cfg.Server.Name)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Chat.TypingDelay)
	assert.Equal(t, 24*time.Hour, cfg.Chat.TranscriptTTL)
	assert.Equal(t, 3, cfg.Session.MaxMissedBeats)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.Addr())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "port", yaml: "server:\n  port: 70000\n", want: "server.port"},
		{name: "redis host", yaml: "redis:\n  enabled: true\n  host: \"\"\n", want: "redis.host"},
		{name: "negative delay", yaml: "chat:\n  typingDelay: -1s\n", want: "typingDelay"},
		{name: "log level", yaml: "log:\n  level: loud\n", want: "log.level"},
		{name: "missed beats", yaml: "session:\n  maxMissedBeats: 0\n", want: "maxMissedBeats"},
		{name: "bad yaml", yaml: "server: [", want: "parse config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kalasag.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  name: kalasag-test\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "kalasag-test", cfg.Server.Name)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}
