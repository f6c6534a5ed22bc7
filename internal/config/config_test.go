package config

import (
	"strings"
	"testing"
	"time"

	"gestor/internal/core"
)

func validConfig() Config {
	return Config{
		Port:               "8081",
		LogLevel:           "info",
		LogFormat:          "text",
		InitialBalance:     "25000",
		DefaultPeriod:      "month",
		SeedDemo:           true,
		Timezone:           "UTC",
		SessionTTL:         12 * time.Hour,
		MaxSessions:        500,
		RateLimitPerMinute: 60,
		ToastDuration:      2500 * time.Millisecond,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "local timezone and json logs",
			mutate:  func(c *Config) { c.Timezone = "Local"; c.LogFormat = "json" },
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "invalid initial balance",
			mutate:      func(c *Config) { c.InitialBalance = "mucho" },
			wantErr:     true,
			errorString: "invalid initial balance 'mucho': must be a number",
		},
		{
			name:        "invalid default period",
			mutate:      func(c *Config) { c.DefaultPeriod = "decade" },
			wantErr:     true,
			errorString: "invalid default period 'decade'",
		},
		{
			name:        "invalid timezone",
			mutate:      func(c *Config) { c.Timezone = "Mars/Olympus" },
			wantErr:     true,
			errorString: "invalid timezone 'Mars/Olympus'",
		},
		{
			name:        "session TTL too short",
			mutate:      func(c *Config) { c.SessionTTL = time.Second },
			wantErr:     true,
			errorString: "invalid session TTL 1s: must be at least 1 minute",
		},
		{
			name:        "no sessions allowed",
			mutate:      func(c *Config) { c.MaxSessions = 0 },
			wantErr:     true,
			errorString: "invalid max sessions 0: must be at least 1",
		},
		{
			name:        "rate limit disabled",
			mutate:      func(c *Config) { c.RateLimitPerMinute = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
		{
			name:        "toast duration too long",
			mutate:      func(c *Config) { c.ToastDuration = time.Hour },
			wantErr:     true,
			errorString: "invalid toast duration 1h0m0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() expected error but got none")
					return
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err, tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestConfig_ValidateAggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.MaxSessions = 0
	cfg.DefaultPeriod = "x"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if n := strings.Count(err.Error(), "\n- "); n != 3 {
		t.Fatalf("expected 3 problems, got %d: %v", n, err)
	}
}

func TestConfig_InitialBalanceMoney(t *testing.T) {
	tests := map[string]int64{
		"25000":   2500000,
		"0":       0,
		"-150.5":  -15050,
		"1234.56": 123456,
	}
	for in, want := range tests {
		cfg := Config{InitialBalance: in}
		got, err := cfg.InitialBalanceMoney()
		if err != nil || got.Cents != want {
			t.Errorf("InitialBalanceMoney(%q) = %v, %v; want %d", in, got.Cents, err, want)
		}
	}
}

func TestConfig_Period(t *testing.T) {
	cfg := Config{DefaultPeriod: "semana"}
	p, err := cfg.Period()
	if err != nil || p != core.PeriodWeek {
		t.Fatalf("Period() = %v, %v", p, err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"PORT", "LOG_LEVEL", "LOG_FORMAT", "INITIAL_BALANCE", "DEFAULT_PERIOD",
			"SEED_DEMO", "TIMEZONE", "SESSION_TTL", "MAX_SESSIONS", "RATE_LIMIT_PER_MINUTE", "TOAST_DURATION"} {
			t.Setenv(key, "")
		}
		cfg := Load()

		if cfg.Port != "8081" || cfg.LogLevel != "info" || cfg.LogFormat != "text" {
			t.Errorf("unexpected server/log defaults: %+v", cfg)
		}
		if cfg.InitialBalance != "25000" || cfg.DefaultPeriod != "month" || !cfg.SeedDemo || cfg.Timezone != "Local" {
			t.Errorf("unexpected tracker defaults: %+v", cfg)
		}
		if cfg.SessionTTL != 12*time.Hour || cfg.MaxSessions != 500 {
			t.Errorf("unexpected session defaults: %+v", cfg)
		}
		if cfg.RateLimitPerMinute != 60 || cfg.ToastDuration != 2500*time.Millisecond {
			t.Errorf("unexpected ui defaults: %+v", cfg)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("defaults should validate: %v", err)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("SEED_DEMO", "false")
		t.Setenv("SESSION_TTL", "30m")
		t.Setenv("MAX_SESSIONS", "10")
		t.Setenv("DEFAULT_PERIOD", "all")

		cfg := Load()
		if cfg.Port != "9090" || cfg.SeedDemo || cfg.SessionTTL != 30*time.Minute || cfg.MaxSessions != 10 || cfg.DefaultPeriod != "all" {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("malformed numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("MAX_SESSIONS", "many")
		t.Setenv("TOAST_DURATION", "soon")
		t.Setenv("SEED_DEMO", "maybe")

		cfg := Load()
		if cfg.MaxSessions != 500 || cfg.ToastDuration != 2500*time.Millisecond || !cfg.SeedDemo {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})
}
