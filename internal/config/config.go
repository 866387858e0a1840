// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ProviderConfig holds credentials and tuning for one AI provider.
// A provider with no API key is simply not constructed; that is a normal
// operating mode, not a configuration error.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Configured reports whether a credential is present for this provider.
func (p ProviderConfig) Configured() bool {
	return p.APIKey != ""
}

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string

	JWTSecret string
	TokenTTL  time.Duration

	// ProviderTimeout bounds a single provider attempt.
	ProviderTimeout time.Duration
	// HistoryWindow is how many recent interactions enrich a chat prompt.
	HistoryWindow int
	// HistoryRetention is how long history entries are kept before the
	// background sweep removes them. Zero disables the sweep.
	HistoryRetention time.Duration

	OpenAI ProviderConfig
	Gemini ProviderConfig
	Vision ProviderConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/nova.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		ProviderTimeout:  getEnvDuration("PROVIDER_TIMEOUT", 15*time.Second),
		HistoryWindow:    getEnvInt("CHAT_HISTORY_WINDOW", 3),
		HistoryRetention: getEnvDuration("HISTORY_RETENTION", 0),

		OpenAI: ProviderConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		Gemini: ProviderConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		},
		Vision: ProviderConfig{
			APIKey:  getEnv("VISION_API_KEY", os.Getenv("OPENAI_API_KEY")),
			Model:   getEnv("VISION_MODEL", "gpt-4o-mini"),
			BaseURL: getEnv("VISION_BASE_URL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
// Provider credentials are intentionally not required: with zero credentials
// the pipeline runs in guaranteed mock mode.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}
	if c.HistoryWindow < 0 {
		return fmt.Errorf("CHAT_HISTORY_WINDOW cannot be negative")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
