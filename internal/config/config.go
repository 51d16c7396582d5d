package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config is the runtime configuration of the terminal client, loaded from
// SICOIL_* environment variables (a local .env is read first by main).
type Config struct {
	// APIBaseURL is the backend's resource base path, e.g. http://host:8080/api.
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:8080/api"`
	// AuthBaseURL overrides where /login and /logout live. When empty it is
	// derived from APIBaseURL by stripping a trailing /api segment.
	AuthBaseURL string `envconfig:"AUTH_BASE_URL"`
	// SessionFile is where the session marker persists between runs.
	SessionFile string `envconfig:"SESSION_FILE" default:".sicoil-session.json"`
	// PageSize is the default listing page size for REPL pages.
	PageSize int    `envconfig:"PAGE_SIZE" default:"10"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("sicoil", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = AuthURLFrom(cfg.APIBaseURL)
	}
	cfg.AuthBaseURL = strings.TrimRight(cfg.AuthBaseURL, "/")
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	return &cfg, nil
}

// AuthURLFrom derives the auth endpoint base from the API base path. The
// backend mounts /auth next to /api, not under it.
func AuthURLFrom(apiBase string) string {
	base := strings.TrimRight(apiBase, "/")
	base = strings.TrimSuffix(base, "/api")
	return base + "/auth"
}
