// Package config provides application configuration for the proxy server.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Renderer selection values.
const (
	RendererRules    = "rules"
	RendererMarkdown = "markdown"
)

// Config holds all application configuration.
type Config struct {
	Port            string
	ProviderBaseURL string
	ProviderModel   string

	// ProviderAPIKey is the server-held credential used when a request
	// carries none of its own. Never logged.
	ProviderAPIKey string

	TagEndpoint    string
	DBPath         string
	Renderer       string
	AllowedOrigins []string
	ShutdownGrace  time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "3001"),
		ProviderBaseURL: getEnv("PROVIDER_BASE_URL", ""),
		ProviderModel:   getEnv("PROVIDER_MODEL", ""),
		ProviderAPIKey:  getEnv("GEMINI_API_KEY", ""),
		TagEndpoint:     getEnv("TAG_ENDPOINT", ""),
		DBPath:          getEnv("DB_PATH", "./data/tutorchat.db"),
		Renderer:        getEnv("RENDERER", RendererRules),
		AllowedOrigins:  getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		ShutdownGrace:   10 * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Renderer != RendererRules && c.Renderer != RendererMarkdown {
		return fmt.Errorf("RENDERER must be %q or %q, got %q", RendererRules, RendererMarkdown, c.Renderer)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
