// Package config provides runtime configuration for the storefront client.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds connection settings for the storefront's external
// collaborators: the Supabase data store, the identity provider and the
// backend mutation API.
type Config struct {
	// SupabaseURL is the Supabase project URL.
	SupabaseURL string

	// SupabaseAnonKey is the publishable anon API key.
	SupabaseAnonKey string

	// AuthURL optionally overrides the identity-provider endpoint. Default:
	// SupabaseURL + "/auth/v1".
	AuthURL string

	// APIBaseURL is the backend mutation API root.
	APIBaseURL string

	// SessionDriver selects the session persistence driver: "memory" or
	// "redis".
	SessionDriver string

	// RedisAddr and RedisPassword configure the redis driver.
	RedisAddr     string
	RedisPassword string

	// SessionTTL is how long a persisted session is kept.
	SessionTTL time.Duration

	// HTTPTimeout bounds each backend API request.
	HTTPTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durenvs(key string, defSec int) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return time.Duration(defSec) * time.Second
	}
	sec, err := strconv.Atoi(v)
	if err != nil {
		return time.Duration(defSec) * time.Second
	}
	return time.Duration(sec) * time.Second
}

// Load collects configuration from the environment with defaults, reading a
// .env file first when one exists.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		SupabaseURL:     getenv("SUPABASE_URL", ""),
		SupabaseAnonKey: getenv("SUPABASE_ANON_KEY", ""),
		AuthURL:         getenv("SUPABASE_AUTH_URL", ""),
		APIBaseURL:      getenv("BACKEND_API_URL", ""),
		SessionDriver:   getenv("SESSION_DRIVER", "memory"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		SessionTTL:      durenvs("SESSION_TTL_SECONDS", 86400),
		HTTPTimeout:     durenvs("HTTP_TIMEOUT_SECONDS", 15),
	}

	var missing []string
	if cfg.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if cfg.SupabaseAnonKey == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	if cfg.APIBaseURL == "" {
		missing = append(missing, "BACKEND_API_URL")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if cfg.AuthURL == "" {
		cfg.AuthURL = strings.TrimSuffix(cfg.SupabaseURL, "/") + "/auth/v1"
	}

	return cfg, nil
}
