// Package config loads application configuration from the environment.
//
// CONFIGURATION STRATEGY:
// Everything is driven by environment variables, with an optional .env file
// for local development. viper handles the merge: .env values are read first
// (if the file exists), then real environment variables override them, then
// defaults fill whatever is still unset. This keeps production deployments
// (env vars only) and local runs (a checked-out .env) on the same code path.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Remote   RemoteConfig
	Session  SessionConfig
	Assets   AssetsConfig
	LogLevel slog.Level
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// RemoteConfig points at the external user-management API.
//
// The auth endpoints (login/logout/me) and the directory endpoints (users)
// can live on different base URLs — the deployment this console was built
// for hosts them separately, so both are configurable.
type RemoteConfig struct {
	AuthBaseURL string        // e.g. "https://backend.example.com/api/auth"
	APIBaseURL  string        // e.g. "http://127.0.0.1:8000/api"
	Timeout     time.Duration // per-request timeout for outbound calls
}

// SessionConfig controls the token cookie.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

// AssetsConfig locates templates and static files.
type AssetsConfig struct {
	TemplateDir string
	StaticDir   string
}

// Load reads configuration from the environment (and .env if present).
func Load() (*Config, error) {
	v := viper.New()

	// .env is optional — env vars alone are enough in production.
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A present-but-broken .env is worth failing on; a missing one is not.
			// viper wraps fs errors too, so only hard-fail on parse errors.
			if !strings.Contains(err.Error(), "no such file") {
				return nil, fmt.Errorf("reading .env: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("SERVER_PORT"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Remote: RemoteConfig{
			AuthBaseURL: strings.TrimRight(v.GetString("AUTH_BASE_URL"), "/"),
			APIBaseURL:  strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			Timeout:     v.GetDuration("HTTP_TIMEOUT"),
		},
		Session: SessionConfig{
			CookieName: v.GetString("SESSION_COOKIE_NAME"),
			TTL:        v.GetDuration("SESSION_TTL"),
		},
		Assets: AssetsConfig{
			TemplateDir: v.GetString("TEMPLATE_DIR"),
			StaticDir:   v.GetString("STATIC_DIR"),
		},
		LogLevel: parseLevel(v.GetString("LOG_LEVEL")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "60s")

	v.SetDefault("AUTH_BASE_URL", "http://127.0.0.1:8000/api/auth")
	v.SetDefault("API_BASE_URL", "http://127.0.0.1:8000/api")
	v.SetDefault("HTTP_TIMEOUT", "30s")

	v.SetDefault("SESSION_COOKIE_NAME", "token")
	v.SetDefault("SESSION_TTL", "24h") // token cookie lives one day

	v.SetDefault("TEMPLATE_DIR", "web/templates")
	v.SetDefault("STATIC_DIR", "web/static")

	v.SetDefault("LOG_LEVEL", "info")
}

// Validate rejects configurations that would make the server unusable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Remote.AuthBaseURL == "" {
		return fmt.Errorf("AUTH_BASE_URL is required")
	}
	if c.Remote.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME must not be empty")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Session.TTL)
	}
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
