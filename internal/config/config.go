package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gobuffalo/envy"
)

const (
	TransportWebSocket = "ws"
	TransportRedis     = "redis"
)

var ErrInvalidTransport = errors.New("invalid_transport")

type Config struct {
	Env      string
	LogLevel string

	// Relay server
	RelayAddr string

	// Player client
	Transport     string
	RelayURL      string
	SessionID     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SendQueueSize int
	WriteTimeout  time.Duration
}

// Load reads the configuration from the environment (and .env, through envy).
func Load() (*Config, error) {
	cfg := &Config{
		Env:           envy.Get("GO_ENV", "development"),
		LogLevel:      envy.Get("LOG_LEVEL", "info"),
		RelayAddr:     envy.Get("RELAY_ADDR", "0.0.0.0:3000"),
		Transport:     envy.Get("TRANSPORT", TransportWebSocket),
		RelayURL:      envy.Get("RELAY_URL", "ws://localhost:3000"),
		SessionID:     envy.Get("SESSION_ID", "lobby"),
		RedisAddr:     envy.Get("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envy.Get("REDIS_PASSWORD", ""),
	}

	var err error
	if cfg.RedisDB, err = intVar("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SendQueueSize, err = intVar("SEND_QUEUE_SIZE", 64); err != nil {
		return nil, err
	}
	timeout := envy.Get("WRITE_TIMEOUT", "10s")
	if cfg.WriteTimeout, err = time.ParseDuration(timeout); err != nil {
		return nil, fmt.Errorf("invalid duration value for WRITE_TIMEOUT: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Transport != TransportWebSocket && cfg.Transport != TransportRedis {
		return fmt.Errorf("%w: %q", ErrInvalidTransport, cfg.Transport)
	}
	if cfg.SendQueueSize <= 0 {
		return errors.New("send_queue_size_must_be_positive")
	}
	if cfg.SessionID == "" {
		return errors.New("session_id_is_required")
	}
	return nil
}

func (cfg *Config) IsDevelopment() bool {
	return cfg.Env == "development"
}

func intVar(key string, defaultValue int) (int, error) {
	value := envy.Get(key, strconv.Itoa(defaultValue))
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %w", key, err)
	}
	return parsed, nil
}
