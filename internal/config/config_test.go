package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STEWARD_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Console.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", cfg.Console.PageSize)
	}
	if time.Duration(cfg.Console.PollInterval) != 10*time.Second {
		t.Errorf("PollInterval = %v, want 10s", time.Duration(cfg.Console.PollInterval))
	}
}

func TestLoad_YAMLThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "steward.yaml")
	yaml := `
api:
  base_url: https://yaml.example.com
  timeout: 5s
console:
  page_size: 25
  poll_interval: 30s
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("STEWARD_CONFIG_PATH", path)
	t.Setenv("STEWARD_BASE_URL", "https://env.example.com")
	t.Setenv("STEWARD_API_TOKEN", "sekret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// env beats YAML
	if cfg.API.BaseURL != "https://env.example.com" {
		t.Errorf("BaseURL = %q, want env override", cfg.API.BaseURL)
	}
	// YAML beats defaults
	if cfg.Console.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.Console.PageSize)
	}
	if time.Duration(cfg.API.Timeout) != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", time.Duration(cfg.API.Timeout))
	}
	// token is env-only
	if cfg.API.Token != "sekret" {
		t.Errorf("Token = %q", cfg.API.Token)
	}
}

func TestLoad_Validation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "steward.yaml")
	if err := os.WriteFile(path, []byte("console:\n  page_size: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STEWARD_CONFIG_PATH", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for page_size 0")
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
