package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Cache       CacheConfig       `toml:"cache"`
	Credentials CredentialsConfig `toml:"credentials"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	PublicURL string `toml:"public_url"`
	StaticDir string `toml:"static_dir"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// CatalogConfig locates the festival catalog file and pins the season year.
type CatalogConfig struct {
	Path string `toml:"path"`
	Year int    `toml:"year"`
}

// CacheConfig contains tour-date cache tuning.
type CacheConfig struct {
	TTLHours        int `toml:"ttl_hours"`
	SweepHours      int `toml:"sweep_hours"`
	SessionSweepMin int `toml:"session_sweep_minutes"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Google GoogleConfig `toml:"google"`
	Lastfm LastfmConfig `toml:"lastfm"`
}

// GoogleConfig contains Google OAuth credentials for the login flow.
type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// LastfmConfig contains the Last.fm API key for top-artist imports.
type LastfmConfig struct {
	APIKey string `toml:"api_key"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
