/*
Package configs is responsible for loading and parsing the application's configuration settings.

Settings are read from operating system environment variables, optionally seeded from a .env file
in the working directory: the running environment, port, CORS allowed origins, the cobrowsing SDK
credentials and token lifetime, where static assets live, and which session store to use.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// PlaceholderAppKey and PlaceholderAppSecret are the values shipped in the sample .env.
	// A server still carrying them answers token requests with a configuration error.
	PlaceholderAppKey    = "YOUR_APP_KEY"
	PlaceholderAppSecret = "YOUR_APP_SECRET"

	// DefaultDomain is the SDK routing domain echoed to the pages.
	DefaultDomain = "us-sdk.cobrowse.example"

	DefaultTokenLifetimeSeconds   = 3600
	DefaultSessionLifetimeSeconds = 1800
)

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// Cobrowse SDK Settings
	AppKey               string
	AppSecret            string
	Domain               string
	TokenLifetimeSeconds int

	// Static Asset Settings; empty StaticDir serves the embedded pages.
	StaticDir string

	// Session Settings; empty RedisAddr selects the in-memory store.
	SessionLifetimeSeconds int
	RedisAddr              string
	RedisPassword          string
	RedisDB                int
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// CredentialsConfigured reports whether real SDK credentials were supplied.
// Empty values and the sample placeholders both count as missing.
func (c *AppConfig) CredentialsConfigured() bool {
	key := strings.TrimSpace(c.AppKey)
	secret := strings.TrimSpace(c.AppSecret)

	if key == "" || secret == "" {
		return false
	}

	return key != PlaceholderAppKey && secret != PlaceholderAppSecret
}

// LoadConfig reads a .env file if present, then parses the configuration from environment variables.
func LoadConfig() (*AppConfig, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	return FromEnv(os.Getenv)
}

// FromEnv builds an AppConfig from the given lookup function, applying defaults and validation.
func FromEnv(getenv func(string) string) (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	port, err := intFromEnv(getenv, "PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port < 1024 || port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", port, 1024, 65535)
	}
	cfg.Port = port

	// --- Security Settings ---
	cfg.AllowedOrigins = []string{}
	for _, origin := range strings.Split(getenv("ALLOWED_ORIGINS"), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// --- Cobrowse SDK Settings ---
	// Missing credentials are not fatal: the server still serves the pages and
	// reports the problem on the token endpoints.
	cfg.AppKey = getenv("COBROWSE_APP_KEY")
	if cfg.AppKey == "" {
		cfg.AppKey = PlaceholderAppKey
	}
	cfg.AppSecret = getenv("COBROWSE_APP_SECRET")
	if cfg.AppSecret == "" {
		cfg.AppSecret = PlaceholderAppSecret
	}

	cfg.Domain = getenv("COBROWSE_DOMAIN")
	if cfg.Domain == "" {
		cfg.Domain = DefaultDomain
	}

	lifetime, err := intFromEnv(getenv, "TOKEN_LIFETIME_SECONDS", DefaultTokenLifetimeSeconds)
	if err != nil {
		return nil, err
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("TOKEN_LIFETIME_SECONDS must be positive, got %d", lifetime)
	}
	cfg.TokenLifetimeSeconds = lifetime

	// --- Static Asset Settings ---
	cfg.StaticDir = getenv("STATIC_DIR")

	// --- Session Settings ---
	sessionLifetime, err := intFromEnv(getenv, "SESSION_TTL_SECONDS", DefaultSessionLifetimeSeconds)
	if err != nil {
		return nil, err
	}
	if sessionLifetime <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_SECONDS must be positive, got %d", sessionLifetime)
	}
	cfg.SessionLifetimeSeconds = sessionLifetime

	cfg.RedisAddr = getenv("REDIS_ADDR")
	cfg.RedisPassword = getenv("REDIS_PASSWORD")
	redisDB, err := intFromEnv(getenv, "REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.RedisDB = redisDB

	return cfg, nil
}

func intFromEnv(getenv func(string) string, name string, def int) (int, error) {
	raw := getenv(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}

	return v, nil
}
