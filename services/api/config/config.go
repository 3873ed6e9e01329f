package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the HyderAQI API and CLI.
type Config struct {
	Port     int
	Env      string
	LogLevel slog.Level

	GeminiAPIKey       string
	GeminiModel        string
	GeminiBaseURL      string
	ModelTimeout       time.Duration
	InsightTemperature float32

	// DatabaseURL is optional; without it the built-in locations are served.
	DatabaseURL string

	SessionTTL  time.Duration
	AIRateLimit int
	AIRateBurst int
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:               8080,
		Env:                "dev",
		LogLevel:           slog.LevelInfo,
		GeminiModel:        "gemini-2.5-flash",
		ModelTimeout:       30 * time.Second,
		InsightTemperature: 0.7,
		SessionTTL:         30 * time.Minute,
		AIRateLimit:        30,
		AIRateBurst:        5,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if env := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))); env != "" {
		switch env {
		case "dev", "prod":
			cfg.Env = env
		default:
			return cfg, fmt.Errorf("invalid APP_ENV: %s", env)
		}
	}

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		level, err := parseLogLevel(levelStr)
		if err != nil {
			return cfg, err
		}
		cfg.LogLevel = level
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("API_KEY")
	}

	if model := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); model != "" {
		cfg.GeminiModel = model
	}
	cfg.GeminiBaseURL = os.Getenv("GEMINI_BASE_URL")

	if timeoutStr := os.Getenv("MODEL_TIMEOUT"); timeoutStr != "" {
		if d, err := time.ParseDuration(timeoutStr); err == nil && d > 0 {
			cfg.ModelTimeout = d
		} else {
			return cfg, fmt.Errorf("invalid MODEL_TIMEOUT: %s", timeoutStr)
		}
	}

	if tempStr := os.Getenv("INSIGHT_TEMPERATURE"); tempStr != "" {
		if t, err := strconv.ParseFloat(tempStr, 32); err == nil && t >= 0 && t <= 2 {
			cfg.InsightTemperature = float32(t)
		} else {
			return cfg, fmt.Errorf("invalid INSIGHT_TEMPERATURE: %s", tempStr)
		}
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
		if d, err := time.ParseDuration(ttlStr); err == nil && d > 0 {
			cfg.SessionTTL = d
		} else {
			return cfg, fmt.Errorf("invalid SESSION_TTL: %s", ttlStr)
		}
	}

	if limitStr := os.Getenv("AI_RATE_LIMIT"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 0 {
			cfg.AIRateLimit = limit
		} else {
			return cfg, fmt.Errorf("invalid AI_RATE_LIMIT: %s", limitStr)
		}
	}

	if burstStr := os.Getenv("AI_RATE_BURST"); burstStr != "" {
		if burst, err := strconv.Atoi(burstStr); err == nil && burst > 0 {
			cfg.AIRateBurst = burst
		} else {
			return cfg, fmt.Errorf("invalid AI_RATE_BURST: %s", burstStr)
		}
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Production reports whether APP_ENV is prod.
func (c Config) Production() bool {
	return c.Env == "prod"
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL: %s", s)
	}
}
