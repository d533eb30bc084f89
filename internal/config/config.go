// Package config provides configuration loading for the server and CLI.
// Values come from an optional JSON file with environment variables layered
// on top; the environment always wins.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Backend names for the persistence layer.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config is the full runtime configuration.
type Config struct {
	// Backend selects the persistence layer: "postgres" or "sqlite".
	Backend string `json:"backend,omitempty"`
	// DatabaseURL is the PostgreSQL connection URL (postgres backend).
	DatabaseURL string `json:"database_url,omitempty"`
	// SQLitePath is the database file path (sqlite backend).
	SQLitePath string `json:"sqlite_path,omitempty"`

	// APIKey is the Gemini API key.
	APIKey string `json:"api_key,omitempty"`
	// Model overrides the default generation model.
	Model string `json:"model,omitempty"`

	// Port is the HTTP listen port.
	Port int `json:"port,omitempty"`
	// DefaultUser scopes CLI operations when no user is given explicitly.
	DefaultUser string `json:"default_user,omitempty"`
}

// envVars maps each overridable field to its environment variable.
const (
	envBackend     = "JOB_TAILOR_BACKEND"
	envDatabaseURL = "DATABASE_URL"
	envSQLitePath  = "JOB_TAILOR_SQLITE_PATH"
	envAPIKey      = "GEMINI_API_KEY"
	envModel       = "JOB_TAILOR_MODEL"
	envPort        = "PORT"
	envDefaultUser = "JOB_TAILOR_USER"
)

// Load reads configuration from an optional JSON file, applies environment
// overrides, and fills defaults. path may be empty; a missing file at the
// default location is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(envDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv(envSQLitePath); v != "" {
		c.SQLitePath = v
	}
	if v := os.Getenv(envAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(envModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(envPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv(envDefaultUser); v != "" {
		c.DefaultUser = v
	}
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		if c.DatabaseURL != "" {
			c.Backend = BackendPostgres
		} else {
			c.Backend = BackendSQLite
		}
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "job_tailor.db"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.DefaultUser == "" {
		c.DefaultUser = "local"
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: backend %q requires a database URL", c.Backend)
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("config error: backend %q requires a database file path", c.Backend)
		}
	default:
		return fmt.Errorf("config error: unknown backend %q", c.Backend)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: invalid port %d", c.Port)
	}
	return nil
}
