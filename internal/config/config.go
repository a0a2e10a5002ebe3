package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/kitbuilder587/nexra-gpt/internal/llm"
)

var (
	ErrMissingToken        = errors.New("TELEGRAM_BOT_TOKEN is required")
	ErrInvalidModel        = errors.New("NEXRA_MODEL is not a supported model")
	ErrInvalidPollInterval = errors.New("poll interval must be positive")
	ErrInvalidTimeout      = errors.New("timeout must be positive")
	ErrInvalidCacheType    = errors.New("CACHE_TYPE must be memory or none")
)

type Config struct {
	Telegram     TelegramConfig
	Nexra        NexraConfig
	Log          LogConfig
	Cache        CacheConfig
	Metrics      MetricsConfig
	SystemPrompt string
}

type TelegramConfig struct {
	Token string
	Debug bool
}

type NexraConfig struct {
	BaseURL      string
	APIKey       string
	Model        string
	HTTPTimeout  time.Duration
	PollInterval time.Duration
	Timeout      time.Duration
}

type LogConfig struct {
	Level  string
	Format string // json | console
}

type CacheConfig struct {
	Type string
	TTL  time.Duration
}

type MetricsConfig struct {
	Addr string // пусто - метрики не поднимаем
}

func Load() (*Config, error) {
	cfg := &Config{
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
			Debug: os.Getenv("TELEGRAM_DEBUG") == "true",
		},
		Nexra: NexraConfig{
			BaseURL:      getEnvOrDefault("NEXRA_BASE_URL", "https://nexra.aryahcr.cc/api/chat"),
			APIKey:       os.Getenv("NEXRA_API_KEY"),
			Model:        getEnvOrDefault("NEXRA_MODEL", llm.DefaultModel),
			HTTPTimeout:  time.Duration(getEnvIntOrDefault("NEXRA_HTTP_TIMEOUT_SEC", 30)) * time.Second,
			PollInterval: time.Duration(getEnvIntOrDefault("NEXRA_POLL_INTERVAL_MS", 1000)) * time.Millisecond,
			Timeout:      time.Duration(getEnvIntOrDefault("NEXRA_TIMEOUT_SEC", 60)) * time.Second,
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			TTL:  time.Duration(getEnvIntOrDefault("CACHE_TTL_SEC", 600)) * time.Second,
		},
		Metrics: MetricsConfig{
			Addr: getEnvOrDefault("METRICS_ADDR", ":9090"),
		},
		SystemPrompt: getEnvOrDefault("SYSTEM_PROMPT", "You are a helpful assistant."),
	}

	// METRICS_ADDR= или METRICS_ADDR=- отключают метрики, без переменной - :9090
	if addr, ok := os.LookupEnv("METRICS_ADDR"); ok && (addr == "" || addr == "-") {
		cfg.Metrics.Addr = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings every binary needs. The bot additionally calls ValidateBot.
func (c *Config) Validate() error {
	if !llm.ValidModel(c.Nexra.Model) {
		return ErrInvalidModel
	}
	if c.Nexra.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}
	if c.Nexra.Timeout <= 0 || c.Nexra.HTTPTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Cache.Type != "memory" && c.Cache.Type != "none" {
		return ErrInvalidCacheType
	}
	return nil
}

func (c *Config) ValidateBot() error {
	if c.Telegram.Token == "" {
		return ErrMissingToken
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
