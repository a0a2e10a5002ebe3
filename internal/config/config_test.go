package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr error
	}{
		{
			name:    "defaults",
			envVars: map[string]string{},
			wantErr: nil,
		},
		{
			name: "custom model",
			envVars: map[string]string{
				"NEXRA_MODEL": "GPT-3.5-Turbo",
			},
			wantErr: nil,
		},
		{
			name: "unknown model",
			envVars: map[string]string{
				"NEXRA_MODEL": "gpt-5",
			},
			wantErr: ErrInvalidModel,
		},
		{
			name: "negative poll interval",
			envVars: map[string]string{
				"NEXRA_POLL_INTERVAL_MS": "-5",
			},
			wantErr: ErrInvalidPollInterval,
		},
		{
			name: "zero timeout",
			envVars: map[string]string{
				"NEXRA_TIMEOUT_SEC": "0",
			},
			wantErr: ErrInvalidTimeout,
		},
		{
			name: "bad cache type",
			envVars: map[string]string{
				"CACHE_TYPE": "redis",
			},
			wantErr: ErrInvalidCacheType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()

			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}
			defer clearEnvVars()

			cfg, err := Load()

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error = %v", err)
				return
			}

			if cfg == nil {
				t.Error("Load() returned nil config")
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %v, want %v", cfg.Log.Level, "info")
	}
	if cfg.Nexra.BaseURL != "https://nexra.aryahcr.cc/api/chat" {
		t.Errorf("Nexra.BaseURL = %v", cfg.Nexra.BaseURL)
	}
	if cfg.Nexra.Model != "GPT-4" {
		t.Errorf("Nexra.Model = %v, want GPT-4", cfg.Nexra.Model)
	}
	if cfg.Nexra.PollInterval != time.Second {
		t.Errorf("Nexra.PollInterval = %v, want 1s", cfg.Nexra.PollInterval)
	}
	if cfg.Nexra.Timeout != 60*time.Second {
		t.Errorf("Nexra.Timeout = %v, want 60s", cfg.Nexra.Timeout)
	}
	if cfg.Nexra.HTTPTimeout != 30*time.Second {
		t.Errorf("Nexra.HTTPTimeout = %v, want 30s", cfg.Nexra.HTTPTimeout)
	}
	if cfg.Cache.Type != "memory" || cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Metrics.Addr != ":9090" {
		t.Errorf("Metrics.Addr = %v, want :9090", cfg.Metrics.Addr)
	}
}

func TestMetricsDisabled(t *testing.T) {
	for _, value := range []string{"-", ""} {
		t.Run("METRICS_ADDR="+value, func(t *testing.T) {
			clearEnvVars()
			os.Setenv("METRICS_ADDR", value)
			defer clearEnvVars()

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Metrics.Addr != "" {
				t.Errorf("Metrics.Addr = %q, want empty", cfg.Metrics.Addr)
			}
		})
	}
}

func TestValidateBot(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateBot(); err != ErrMissingToken {
		t.Errorf("ValidateBot() error = %v, want %v", err, ErrMissingToken)
	}

	cfg.Telegram.Token = "test_token"
	if err := cfg.ValidateBot(); err != nil {
		t.Errorf("ValidateBot() error = %v", err)
	}
}

func TestGetEnvIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		defaultVal int
		want       int
	}{
		{"valid int", "42", 10, 42},
		{"empty string", "", 10, 10},
		{"invalid int", "abc", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TEST_INT", tt.envValue)
			defer os.Unsetenv("TEST_INT")

			got := getEnvIntOrDefault("TEST_INT", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvIntOrDefault() = %v, want %v", got, tt.want)
			}
		})
	}
}

func clearEnvVars() {
	envVars := []string{
		"TELEGRAM_BOT_TOKEN",
		"TELEGRAM_DEBUG",
		"NEXRA_BASE_URL",
		"NEXRA_API_KEY",
		"NEXRA_MODEL",
		"NEXRA_HTTP_TIMEOUT_SEC",
		"NEXRA_POLL_INTERVAL_MS",
		"NEXRA_TIMEOUT_SEC",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"CACHE_TYPE",
		"CACHE_TTL_SEC",
		"METRICS_ADDR",
		"SYSTEM_PROMPT",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}
