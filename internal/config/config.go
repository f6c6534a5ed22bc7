package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gestor/internal/core"
	applog "gestor/internal/log"
)

type Config struct {
	// HTTP Server
	Port string

	// Logging
	LogLevel  string
	LogFormat string

	// Tracker
	InitialBalance string
	DefaultPeriod  string
	SeedDemo       bool
	Timezone       string

	// Sessions
	SessionTTL  time.Duration
	MaxSessions int

	// UI
	RateLimitPerMinute int
	ToastDuration      time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		InitialBalance: getEnv("INITIAL_BALANCE", "25000"),
		DefaultPeriod:  getEnv("DEFAULT_PERIOD", string(core.DefaultPeriod)),
		SeedDemo:       getEnvBool("SEED_DEMO", true),
		Timezone:       getEnv("TIMEZONE", "Local"),

		SessionTTL:  getEnvDuration("SESSION_TTL", 12*time.Hour),
		MaxSessions: getEnvInt("MAX_SESSIONS", 500),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		ToastDuration:      getEnvDuration("TOAST_DURATION", 2500*time.Millisecond),
	}
}

// InitialBalanceMoney parses INITIAL_BALANCE. Unlike transaction amounts the
// opening balance keeps its sign and may be zero.
func (c *Config) InitialBalanceMoney() (core.Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(c.InitialBalance))
	if err != nil {
		return core.Money{}, fmt.Errorf("invalid initial balance '%s': %w", c.InitialBalance, err)
	}
	return core.Money{Cents: d.Shift(2).Round(0).IntPart()}, nil
}

// Period returns the parsed DEFAULT_PERIOD.
func (c *Config) Period() (core.Period, error) {
	return core.ParsePeriod(c.DefaultPeriod)
}

// Location resolves TIMEZONE. "Local" and the empty string mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.Timezone)
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of [text json]", c.LogFormat))
	}

	if _, err := c.InitialBalanceMoney(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid initial balance '%s': must be a number", c.InitialBalance))
	}
	if _, err := c.Period(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid default period '%s': must be one of %v", c.DefaultPeriod, core.Periods()))
	}
	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.MaxSessions < 1 {
		errors = append(errors, fmt.Sprintf("invalid max sessions %d: must be at least 1", c.MaxSessions))
	}
	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}
	if c.ToastDuration < 100*time.Millisecond || c.ToastDuration > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid toast duration %v: must be between 100ms and 1m", c.ToastDuration))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
