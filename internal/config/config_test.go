package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 8084 {
		t.Errorf("expected default port 8084, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("unexpected read timeout: %v", cfg.Server.ReadTimeout)
	}
	if cfg.Dataset.GeneratorRows != 5000 {
		t.Errorf("expected default generator rows 5000, got %d", cfg.Dataset.GeneratorRows)
	}
	if cfg.Logger.Level != "info" || cfg.Logger.Format != "json" {
		t.Errorf("unexpected logger defaults: %+v", cfg.Logger)
	}
	if !cfg.Security.EnableRateLimit {
		t.Error("rate limiting should default to enabled")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("GENERATOR_ROWS", "123")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "http://a.example,http://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Dataset.GeneratorRows != 123 {
		t.Errorf("expected 123 generator rows, got %d", cfg.Dataset.GeneratorRows)
	}
	if cfg.Logger.Format != "text" {
		t.Errorf("expected text format, got %q", cfg.Logger.Format)
	}
	if len(cfg.Security.AllowedOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.Security.AllowedOrigins)
	}
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestLoadWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: 9100\ndataset:\n  generator_rows: 42\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile() error: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("file should override port, got %d", cfg.Server.Port)
	}
	if cfg.Dataset.GeneratorRows != 42 {
		t.Errorf("file should override generator rows, got %d", cfg.Dataset.GeneratorRows)
	}
	// Untouched keys keep their defaults.
	if cfg.Logger.Level != "info" {
		t.Errorf("expected default log level, got %q", cfg.Logger.Level)
	}
}

func TestLoadWithFileMissing(t *testing.T) {
	if _, err := LoadWithFile("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}

	cfg, err := LoadWithFile("")
	if err != nil || cfg == nil {
		t.Errorf("empty path should fall back to env config, got %v", err)
	}
}

func TestAddress(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Host: "localhost", Port: 8084}}
	if got := cfg.Address(); got != "localhost:8084" {
		t.Errorf("Address() = %q", got)
	}
}
