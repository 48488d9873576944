// Package config loads and saves the iceplan TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config holds all iceplan configuration.
type Config struct {
	Store      StoreConfig      `toml:"store"`
	Share      ShareConfig      `toml:"share"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
	Server     ServerConfig     `toml:"server"`
}

// StoreConfig selects where the plan is persisted.
type StoreConfig struct {
	Driver        string `toml:"driver" env:"ICEPLAN_STORE_DRIVER"`
	Path          string `toml:"path,omitempty" env:"ICEPLAN_STORE_PATH"`
	RedisAddr     string `toml:"redis_addr,omitempty" env:"ICEPLAN_REDIS_ADDR"`
	RedisPassword string `toml:"redis_password,omitempty" env:"ICEPLAN_REDIS_PASSWORD"`
	RedisDB       int    `toml:"redis_db,omitempty" env:"ICEPLAN_REDIS_DB"`
}

// ShareConfig holds shareable link settings.
type ShareConfig struct {
	BaseURL string `toml:"base_url" env:"ICEPLAN_SHARE_BASE_URL"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" env:"ICEPLAN_THEME"`
}

// LogConfig holds logger settings. An empty File logs to stderr.
type LogConfig struct {
	Level string `toml:"level" env:"ICEPLAN_LOG_LEVEL"`
	File  string `toml:"file,omitempty" env:"ICEPLAN_LOG_FILE"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `toml:"addr" env:"ICEPLAN_SERVER_ADDR"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Driver: "sqlite",
		},
		Share: ShareConfig{
			BaseURL: "https://iceplan.app/",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8788",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "iceplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "iceplan")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the plan database.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "iceplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "iceplan")
}

// StorePath returns the configured SQLite path, defaulting under DataDir.
func (c Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(DataDir(), "plan.db")
}

// TUILogPath is the log file used while the TUI owns the terminal.
func (c Config) TUILogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "iceplan", "tui.log")
}

// Load reads the config file, returning defaults if it doesn't exist,
// then applies ICEPLAN_* environment overrides.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
