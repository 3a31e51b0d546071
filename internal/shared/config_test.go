package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://localhost:5000/api/v1" {
			t.Errorf("expected default base URL, got %s", config.API.BaseURL)
		}

		if config.Database.Path != "./skillstream.db" {
			t.Errorf("expected database path ./skillstream.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}

		if config.UI.Theme != "dark" {
			t.Errorf("expected dark theme, got %s", config.UI.Theme)
		}

		if config.Auth.JWTSecret != "" {
			t.Errorf("expected empty client jwt secret, got %s", config.Auth.JWTSecret)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

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

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[api]
base_url = "https://courses.example.com/api/v1"
requests_per_second = 2.5

[database]
path = "/custom/path.db"

[ui]
theme = "light"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://courses.example.com/api/v1" {
			t.Errorf("unexpected base URL %s", config.API.BaseURL)
		}
		if config.API.RequestsPerSecond != 2.5 {
			t.Errorf("expected 2.5 rps, got %v", config.API.RequestsPerSecond)
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 5000 {
			t.Errorf("expected missing server section to keep default port, got %d", config.Server.Port)
		}
		if config.UI.Theme != "light" {
			t.Errorf("expected light theme, got %s", config.UI.Theme)
		}
	})

	t.Run("LoadConfig rejects invalid theme", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[ui]\ntheme = \"neon\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("SaveConfig round trip", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.UI.Theme = "light"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.UI.Theme != "light" {
			t.Errorf("expected light theme after round trip, got %s", loaded.UI.Theme)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("SKILLSTREAM_JWT_SECRET=from-dotenv\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv(EnvAPIURL, "http://override.local/api/v1")
		t.Setenv(EnvJWTSecret, "")
		os.Unsetenv(EnvJWTSecret)

		config := DefaultConfig()
		if err := config.ApplyEnv(envPath, filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if config.API.BaseURL != "http://override.local/api/v1" {
			t.Errorf("expected env override of base URL, got %s", config.API.BaseURL)
		}
		if config.Auth.JWTSecret != "from-dotenv" {
			t.Errorf("expected secret from .env, got %q", config.Auth.JWTSecret)
		}
		if config.Server.JWTSecret != "from-dotenv" {
			t.Errorf("expected server secret from .env, got %q", config.Server.JWTSecret)
		}
	})
}
