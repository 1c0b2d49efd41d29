// Package config loads application configuration from the environment
// once at startup. Required settings are checked here so a misconfigured
// process dies immediately instead of failing on its first request.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"bookshelf/internal/platform/cognito"
	"bookshelf/internal/platform/recommend"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	Addr        string
	Environment string

	StoreDriver  string
	DatabaseDSN  string
	QueryTimeout time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
	AllowedOrigins []string

	// AuthEnabled gates the review-mutation role check; it is on as
	// soon as a user pool is configured.
	AuthEnabled bool
	Cognito     cognito.Config

	// RecommendEnabled gates the introduction endpoint.
	RecommendEnabled bool
	Recommend        recommend.Config
}

// Load reads configuration from the environment (after merging
// .env/.env.local in dev) and validates it.
func Load() (*Config, error) {
	// Do not override environment provided by the runtime (e.g. Docker).
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	cfg := &Config{
		Addr:        getEnv("APP_ADDR", ":8080"),
		Environment: getEnv("APP_ENV", "development"),

		StoreDriver:  getEnv("STORE_DRIVER", DriverPostgres),
		DatabaseDSN:  getEnv("DB_DSN", ""),
		QueryTimeout: getEnvDuration("DB_QUERY_TIMEOUT", 3*time.Second),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),

		Cognito: cognito.Config{
			Region:       getEnv("COGNITO_REGION", ""),
			UserPoolID:   getEnv("COGNITO_USER_POOL_ID", ""),
			ClientID:     getEnv("COGNITO_CLIENT_ID", ""),
			ClientSecret: getEnv("COGNITO_CLIENT_SECRET", ""),
			RequiredRole: getEnv("COGNITO_USER_ROLE", "Users"),
			Endpoint:     getEnv("COGNITO_ENDPOINT", ""),
			Timeout:      getEnvDuration("COGNITO_TIMEOUT", 10*time.Second),
		},

		Recommend: recommend.Config{
			APIKey:    getEnv("OPENAI_API_KEY", ""),
			Model:     getEnv("OPENAI_MODEL", ""),
			MaxTokens: getEnvInt("OPENAI_MAX_TOKENS", 150),
			Endpoint:  getEnv("OPENAI_ENDPOINT", ""),
			Timeout:   getEnvDuration("OPENAI_TIMEOUT", 15*time.Second),
		},
	}

	cfg.AuthEnabled = cfg.Cognito.UserPoolID != ""
	cfg.RecommendEnabled = cfg.Recommend.APIKey != ""

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every enabled feature has the settings it needs.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DB_DSN is required with STORE_DRIVER=%s", DriverPostgres)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.AuthEnabled {
		if c.Cognito.Region == "" && c.Cognito.Endpoint == "" {
			return fmt.Errorf("COGNITO_REGION is required when a user pool is configured")
		}
		if c.Cognito.ClientID == "" {
			return fmt.Errorf("COGNITO_CLIENT_ID is required when a user pool is configured")
		}
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
