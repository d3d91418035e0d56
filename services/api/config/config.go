package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the REST API.
type Config struct {
	SOSURL         string
	SOSToken       string
	DatabaseURL    string
	Port           int
	BearerToken    string
	DefaultLimit   int
	DefaultDays    int
	RequestTimeout time.Duration
	LogLevel       string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:           8080,
		DefaultLimit:   200,
		DefaultDays:    7,
		RequestTimeout: 30 * time.Second,
	}

	cfg.SOSURL = os.Getenv("SOS_URL")
	if cfg.SOSURL == "" {
		return cfg, errors.New("SOS_URL is required")
	}
	cfg.SOSToken = os.Getenv("SOS_TOKEN")

	// optional: without it only the live SOS routes are served
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

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

	if limitStr := os.Getenv("API_DEFAULT_LIMIT"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			cfg.DefaultLimit = limit
		} else {
			return cfg, fmt.Errorf("invalid API_DEFAULT_LIMIT: %s", limitStr)
		}
	}

	if daysStr := os.Getenv("API_DEFAULT_DAYS"); daysStr != "" {
		if days, err := strconv.Atoi(daysStr); err == nil && days > 0 {
			cfg.DefaultDays = days
		} else {
			return cfg, fmt.Errorf("invalid API_DEFAULT_DAYS: %s", daysStr)
		}
	}

	if timeoutStr := os.Getenv("SOS_REQUEST_TIMEOUT"); timeoutStr != "" {
		if d, err := time.ParseDuration(timeoutStr); err == nil && d > 0 {
			cfg.RequestTimeout = d
		} else {
			return cfg, fmt.Errorf("invalid SOS_REQUEST_TIMEOUT: %s", timeoutStr)
		}
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")
	cfg.LogLevel = os.Getenv("LOG_LEVEL")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
