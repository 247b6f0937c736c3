package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	EnvAPIURL = "BOXOFFICE_API_URL"
	EnvConfig = "BOXOFFICE_CONFIG"
)

// OAuth handshake modes. Exactly one is wired at a time.
const (
	OAuthModeRedirect = "redirect"
	OAuthModePopup    = "popup"
)

// Session storage backends.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config represents the application configuration loaded from a TOML (or YAML) file.
type Config struct {
	API      APIConfig      `toml:"api" yaml:"api"`
	Database DatabaseConfig `toml:"database" yaml:"database"`
	Session  SessionConfig  `toml:"session" yaml:"session"`
	OAuth    OAuthConfig    `toml:"oauth" yaml:"oauth"`
	TMDB     TMDBConfig     `toml:"tmdb" yaml:"tmdb"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// APIConfig contains settings for the booking backend.
type APIConfig struct {
	BaseURL           string  `toml:"base_url" yaml:"base_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds" yaml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `toml:"burst" yaml:"burst"`
}

// Timeout returns the per-request timeout. Zero means no client-side timeout.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" yaml:"path"`
	MaxOpenConns int    `toml:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns" yaml:"max_idle_conns"`
}

// SessionConfig selects where the credential and identity are persisted.
type SessionConfig struct {
	Storage string `toml:"storage" yaml:"storage"`
}

// OAuthConfig configures third-party sign-in.
type OAuthConfig struct {
	Mode               string `toml:"mode" yaml:"mode"`
	CallbackAddr       string `toml:"callback_addr" yaml:"callback_addr"`
	CallbackPath       string `toml:"callback_path" yaml:"callback_path"`
	GoogleClientID     string `toml:"google_client_id" yaml:"google_client_id"`
	GoogleClientSecret string `toml:"google_client_secret" yaml:"google_client_secret"`
	TimeoutSeconds     int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// CallbackURL is the local URL the provider (or backend) redirects back to.
func (c OAuthConfig) CallbackURL() string {
	return "http://" + c.CallbackAddr + c.CallbackPath
}

// Timeout is how long a sign-in waits for the user before giving up.
func (c OAuthConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TMDBConfig contains The Movie Database credentials.
type TMDBConfig struct {
	APIKey  string `toml:"api_key" yaml:"api_key"`
	BaseURL string `toml:"base_url" yaml:"base_url"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// LoadConfig reads and parses a configuration file from the specified path.
//
// Files ending in .yaml or .yml are decoded as YAML, everything else as TOML.
// Values missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overrides config values from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.OAuth.Mode {
	case OAuthModeRedirect, OAuthModePopup:
	default:
		return fmt.Errorf("%w: oauth.mode must be %q or %q, got %q", ErrInvalidConfig, OAuthModeRedirect, OAuthModePopup, c.OAuth.Mode)
	}

	switch c.Session.Storage {
	case StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("%w: session.storage must be %q or %q, got %q", ErrInvalidConfig, StorageSQLite, StorageMemory, c.Session.Storage)
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
