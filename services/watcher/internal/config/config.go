package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultLookback       = 7 * 24 * time.Hour
	defaultMinInterval    = 0
	defaultRequestTimeout = 30 * time.Second
	defaultConcurrency    = 4
	defaultValueEpsilon   = 0.0
)

// Config holds runtime configuration for the watcher service.
type Config struct {
	DatabaseURL        string
	SOSURL             string
	SOSToken           string
	Features           []string
	ObservedProperties []string
	Lookback           time.Duration
	MinInterval        time.Duration
	RequestTimeout     time.Duration
	Concurrency        int
	ValueEpsilon       float64
	DryRun             bool
	LogLevel           string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	cfg.SOSURL = strings.TrimSpace(os.Getenv("SOS_URL"))
	if cfg.SOSURL == "" {
		return cfg, errors.New("SOS_URL is required")
	}
	cfg.SOSToken = os.Getenv("SOS_TOKEN")

	cfg.Features = splitList(os.Getenv("HARVEST_FOIS"))
	cfg.ObservedProperties = splitList(os.Getenv("HARVEST_OBSERVED_PROPERTIES"))

	var err error
	if cfg.Lookback, err = durationEnv("HARVEST_LOOKBACK", defaultLookback); err != nil {
		return cfg, err
	}
	if cfg.MinInterval, err = durationEnv("WATCHER_MIN_INTERVAL", defaultMinInterval); err != nil {
		return cfg, err
	}
	if cfg.RequestTimeout, err = durationEnv("WATCHER_REQUEST_TIMEOUT", defaultRequestTimeout); err != nil {
		return cfg, err
	}

	cfg.Concurrency = defaultConcurrency
	if v := strings.TrimSpace(os.Getenv("WATCHER_CONCURRENCY")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("invalid WATCHER_CONCURRENCY: %q", v)
		}
		cfg.Concurrency = n
	}

	cfg.ValueEpsilon = defaultValueEpsilon
	if v := strings.TrimSpace(os.Getenv("WATCHER_VALUE_EPSILON")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid WATCHER_VALUE_EPSILON: %w", err)
		}
		cfg.ValueEpsilon = f
	}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	cfg.LogLevel = os.Getenv("LOG_LEVEL")

	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
