package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	LogLevel       string
	Port           uint16
	BaseURL        string
	AllowedOrigins []string
	SecureCookies  bool
	Catalog        CatalogConfig
	Gateway        GatewayConfig
	Session        SessionConfig
	Checkout       CheckoutConfig
	Sentry         SentryConfig
}

// CatalogConfig points at the product-search API of the business
// management platform.
type CatalogConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// GatewayConfig points at the order-submission API.
type GatewayConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// SessionConfig controls the in-memory session store.
type SessionConfig struct {
	// TTL is how long an idle session survives before being swept.
	TTL time.Duration
}

// CheckoutConfig controls checkout flow behavior.
type CheckoutConfig struct {
	// RedirectDelay is how long the success screen stays up before the
	// client is sent back to the menu.
	RedirectDelay time.Duration
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN         string
	Enabled     bool
	Environment string
	Release     string
	SampleRate  float64
	Debug       bool
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:            getEnv("ENV", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnvInt("PORT", 3000),
		BaseURL:        getEnv("BASE_URL", "http://localhost:3000"),
		AllowedOrigins: splitCommaList(getEnv("ALLOWED_ORIGINS", "")),
		SecureCookies:  getEnvBool("SECURE_COOKIES", false),
		Catalog: CatalogConfig{
			BaseURL: getEnv("CATALOG_BASE_URL", "http://localhost:8080/api/v1"),
			APIKey:  getEnv("CATALOG_API_KEY", ""),
			Timeout: getEnvDuration("CATALOG_TIMEOUT", 10*time.Second),
		},
		Gateway: GatewayConfig{
			BaseURL: getEnv("GATEWAY_BASE_URL", "http://localhost:8080/api/v1"),
			APIKey:  getEnv("GATEWAY_API_KEY", ""),
			Timeout: getEnvDuration("GATEWAY_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			TTL: getEnvDuration("SESSION_TTL", time.Hour),
		},
		Checkout: CheckoutConfig{
			RedirectDelay: getEnvDuration("CHECKOUT_REDIRECT_DELAY", 3*time.Second),
		},
		Sentry: SentryConfig{
			DSN:         getEnv("SENTRY_DSN", ""),
			Enabled:     getEnvBool("SENTRY_ENABLED", false), // Disabled by default for development
			Environment: getEnv("SENTRY_ENVIRONMENT", "development"),
			Release:     getEnv("SENTRY_RELEASE", ""),
			SampleRate:  getEnvFloat("SENTRY_SAMPLE_RATE", 1.0),
			Debug:       getEnvBool("SENTRY_DEBUG", false),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Env == "prod" {
		if cfg.Catalog.APIKey == "" {
			return nil, fmt.Errorf("CATALOG_API_KEY must be set in production environment")
		}
		if cfg.Gateway.APIKey == "" {
			return nil, fmt.Errorf("GATEWAY_API_KEY must be set in production environment")
		}
		if !cfg.SecureCookies {
			slog.Default().Warn("SECURE_COOKIES is disabled in production")
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		if _, err := fmt.Sscanf(value, "%f", &floatValue); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		slog.Default().Warn("Invalid duration, using default", slog.String("key", key), slog.String("value", value))
	}
	return defaultValue
}

func splitCommaList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
