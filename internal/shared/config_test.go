package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./festmatch.db" {
			t.Errorf("expected database path ./festmatch.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3002 {
			t.Errorf("expected server port 3002, got %d", config.Server.Port)
		}

		if config.Catalog.Path != "./festivals.json" {
			t.Errorf("expected catalog path ./festivals.json, got %s", config.Catalog.Path)
		}

		if config.Cache.TTLHours != 24 {
			t.Errorf("expected 24h cache TTL, got %d", config.Cache.TTLHours)
		}

		if config.Credentials.Google.ClientID != "your_google_client_id" {
			t.Errorf("expected placeholder google client_id, got %s", config.Credentials.Google.ClientID)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("expected error when config file already exists")
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/config.toml")
		if err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		tmpDir := t.TempDir()
		badPath := filepath.Join(tmpDir, "bad.toml")
		if err := os.WriteFile(badPath, []byte("[server\nport ="), 0644); err != nil {
			t.Fatalf("failed to write bad config: %v", err)
		}

		_, err := LoadConfig(badPath)
		if err == nil {
			t.Error("expected error for invalid TOML")
		}
	})
}
