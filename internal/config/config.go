package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultHTTPAddr    = ":8080"
	DefaultServerURL   = "http://127.0.0.1:8080"
	DefaultGameTTLSec  = 86400
	DefaultSquareSize  = 64
	MinSquareSize      = 24
	MaxSquareSize      = 128
	defaultShutdownSec = 10
)

type AppConfig struct {
	HTTPAddr  string
	ServerURL string

	RedisURL    string
	DatabaseURL string

	GameTTLSec      int
	MessagesDir     string
	RenderSquare    int
	ShutdownTimeout time.Duration
}

// GameTTL is how long an idle game is kept in the store.
func (c *AppConfig) GameTTL() time.Duration {
	return time.Duration(c.GameTTLSec) * time.Second
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		HTTPAddr:        DefaultHTTPAddr,
		ServerURL:       DefaultServerURL,
		GameTTLSec:      DefaultGameTTLSec,
		RenderSquare:    DefaultSquareSize,
		ShutdownTimeout: defaultShutdownSec * time.Second,
	}

	if v := strings.TrimSpace(os.Getenv("HTTP_ADDR")); v != "" {
		cfg.HTTPAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("SERVER_URL")); v != "" {
		cfg.ServerURL = strings.TrimRight(v, "/")
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))

	if v := strings.TrimSpace(os.Getenv("GAME_TTL_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.GameTTLSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("RENDER_SQUARE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RenderSquare = clamp(n, MinSquareSize, MaxSquareSize)
		}
	}
	if v := strings.TrimSpace(os.Getenv("SHUTDOWN_TIMEOUT_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ShutdownTimeout = time.Duration(n) * time.Second
		}
	}

	if cfg.RedisURL != "" {
		u, err := url.Parse(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("REDIS_URL: %w", err)
		}
		if u.Scheme != "redis" && u.Scheme != "rediss" {
			return nil, errors.New("REDIS_URL must use redis:// or rediss://")
		}
	}
	if cfg.HTTPAddr == "" {
		return nil, errors.New("HTTP_ADDR is required")
	}

	return cfg, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
