package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("Load = %+v, want defaults", cfg)
	}
	if Exists() {
		t.Fatal("Exists() = true for empty config dir")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Store.Driver = "redis"
	cfg.Store.RedisAddr = "localhost:6379"
	cfg.Appearance.Theme = "tokyo-night"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(ConfigPath())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("config perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Fatalf("Load = %+v, want %+v", got, cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "iceplan"), 0o755); err != nil {
		t.Fatal(err)
	}
	data := "[store]\ndriver = \"sqlite\"\n[log]\nlevel = \"warn\"\n"
	if err := os.WriteFile(ConfigPath(), []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ICEPLAN_STORE_DRIVER", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != "memory" {
		t.Fatalf("Store.Driver = %q, want memory", cfg.Store.Driver)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("Log.Level = %q, want warn (from file)", cfg.Log.Level)
	}
}

func TestLoad_BadTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "iceplan"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ConfigPath(), []byte("[store\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err == nil {
		t.Fatal("Load succeeded on malformed TOML")
	}
	if cfg.Appearance.Theme == "" {
		t.Fatal("Load returned zero config on error, want defaults")
	}
}

func TestStorePath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	cfg := DefaultConfig()
	if got := cfg.StorePath(); got != "/tmp/xdg-data/iceplan/plan.db" {
		t.Fatalf("StorePath = %q", got)
	}
	cfg.Store.Path = "/srv/plan.db"
	if got := cfg.StorePath(); got != "/srv/plan.db" {
		t.Fatalf("StorePath = %q, want override", got)
	}
}
