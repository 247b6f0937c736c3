package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://localhost:2112" {
			t.Errorf("expected api base URL http://localhost:2112, got %s", config.API.BaseURL)
		}

		if config.Database.Path != "./boxoffice.db" {
			t.Errorf("expected database path ./boxoffice.db, got %s", config.Database.Path)
		}

		if config.OAuth.Mode != OAuthModeRedirect {
			t.Errorf("expected oauth mode %s, got %s", OAuthModeRedirect, config.OAuth.Mode)
		}

		if config.Session.Storage != StorageSQLite {
			t.Errorf("expected session storage %s, got %s", StorageSQLite, config.Session.Storage)
		}

		if config.OAuth.CallbackURL() != "http://127.0.0.1:5173/oauth/callback" {
			t.Errorf("unexpected callback URL %s", config.OAuth.CallbackURL())
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[api]
base_url = "https://tickets.example.com"
timeout_seconds = 5

[oauth]
mode = "popup"
google_client_id = "client-123"

[session]
storage = "memory"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://tickets.example.com" {
			t.Errorf("expected base URL from file, got %s", config.API.BaseURL)
		}
		if config.API.Timeout() != 5*time.Second {
			t.Errorf("expected 5s timeout, got %v", config.API.Timeout())
		}
		if config.OAuth.Mode != OAuthModePopup {
			t.Errorf("expected popup mode, got %s", config.OAuth.Mode)
		}
		if config.OAuth.CallbackAddr != "127.0.0.1:5173" {
			t.Errorf("expected default callback addr to survive partial file, got %s", config.OAuth.CallbackAddr)
		}
	})

	t.Run("LoadConfig YAML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")

		testConfig := "api:\n  base_url: http://10.0.0.2:2112\nlog:\n  level: debug\n"
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.API.BaseURL != "http://10.0.0.2:2112" {
			t.Errorf("expected base URL from yaml, got %s", config.API.BaseURL)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected debug level, got %s", config.Log.Level)
		}
	})

	t.Run("LoadConfig rejects unknown oauth mode", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[oauth]\nmode = \"both\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvAPIURL, "http://override:9000")
		config := DefaultConfig()
		config.ApplyEnv()

		if config.API.BaseURL != "http://override:9000" {
			t.Errorf("expected env override, got %s", config.API.BaseURL)
		}
	})
}
