package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PRAESENSE_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("PRAESENSE_LOG_LEVEL", "")
	t.Setenv("PRAESENSE_MAX_REQUEST_BYTES", "")

	cfg := Load()
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %q, want info", cfg.LogLevel)
	}
	if cfg.MaxRequestBytes != DefaultMaxRequestBytes {
		t.Errorf("MaxRequestBytes: got %d, want %d", cfg.MaxRequestBytes, DefaultMaxRequestBytes)
	}
	if cfg.Debug() {
		t.Error("debug should be off by default")
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PRAESENSE_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("PRAESENSE_LOG_LEVEL", "DEBUG")
	t.Setenv("PRAESENSE_MAX_REQUEST_BYTES", "4096")

	cfg := Load()
	if !cfg.Debug() {
		t.Errorf("expected debug, got level %q", cfg.LogLevel)
	}
	if cfg.MaxRequestBytes != 4096 {
		t.Errorf("MaxRequestBytes: got %d, want 4096", cfg.MaxRequestBytes)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "praesense.env")
	content := "PRAESENSE_LOG_LEVEL=debug\nPRAESENSE_MAX_REQUEST_BYTES=2048\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	t.Setenv("PRAESENSE_ENV_FILE", path)
	// Registered with t.Setenv so the file's values are cleaned up too.
	t.Setenv("PRAESENSE_LOG_LEVEL", "")
	t.Setenv("PRAESENSE_MAX_REQUEST_BYTES", "")
	os.Unsetenv("PRAESENSE_LOG_LEVEL")
	os.Unsetenv("PRAESENSE_MAX_REQUEST_BYTES")

	cfg := Load()
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if cfg.MaxRequestBytes != 2048 {
		t.Errorf("MaxRequestBytes: got %d, want 2048", cfg.MaxRequestBytes)
	}
	if cfg.EnvFile != path {
		t.Errorf("EnvFile: got %q, want %q", cfg.EnvFile, path)
	}
}

func TestLoad_EnvFileDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "praesense.env")
	if err := os.WriteFile(path, []byte("PRAESENSE_LOG_LEVEL=debug\n"), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	t.Setenv("PRAESENSE_ENV_FILE", path)
	t.Setenv("PRAESENSE_LOG_LEVEL", "warn")

	if cfg := Load(); cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"unset", "", 7},
		{"valid", "42", 42},
		{"not a number", "abc", 7},
		{"zero", "0", 7},
		{"negative", "-5", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PRAESENSE_TEST_INT", tt.value)
			if got := getEnvAsInt("PRAESENSE_TEST_INT", 7); got != tt.want {
				t.Errorf("getEnvAsInt(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}
