package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Redis   RedisConfig   `yaml:"redis"`
	Chat    ChatConfig    `yaml:"chat"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	Name           string   `yaml:"name"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// RedisConfig points at the transcript store. Transcripts stay in memory when Enabled is false.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ChatConfig controls the conversation channel.
type ChatConfig struct {
	TypingDelay   time.Duration `yaml:"typingDelay"`
	TranscriptTTL time.Duration `yaml:"transcriptTTL"`
}

// SessionConfig controls websocket heartbeat reaping.
type SessionConfig struct {
	HeartbeatInterval time.Duration `yaml:"heartbeatInterval"`
	HeartbeatTimeout  time.Duration `yaml:"heartbeatTimeout"`
	MaxMissedBeats    int           `yaml:"maxMissedBeats"`
}

// LogConfig sets the zap level.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the settings used for anything the file leaves out.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: 8080, Name: "kalasag"},
		Redis:  RedisConfig{Host: "localhost", Port: 6379},
		Chat: ChatConfig{
			TypingDelay:   time.Second,
			TranscriptTTL: 24 * time.Hour,
		},
		Session: SessionConfig{
			HeartbeatInterval: 30 * time.Second,
			HeartbeatTimeout:  60 * time.Second,
			MaxMissedBeats:    3,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		errs = append(errs, errors.New("redis.host is required when redis is enabled"))
	}
	if c.Chat.TypingDelay < 0 {
		errs = append(errs, errors.New("chat.typingDelay must not be negative"))
	}
	if c.Chat.TranscriptTTL <= 0 {
		errs = append(errs, errors.New("chat.transcriptTTL must be positive"))
	}
	if c.Session.HeartbeatInterval <= 0 || c.Session.HeartbeatTimeout <= 0 {
		errs = append(errs, errors.New("session heartbeat interval and timeout must be positive"))
	}
	if c.Session.MaxMissedBeats < 1 {
		errs = append(errs, errors.New("session.maxMissedBeats must be at least 1"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level unknown: %q", c.Log.Level))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Addr is the listen address for gin.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
