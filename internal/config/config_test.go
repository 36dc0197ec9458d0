package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo-editor.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Debounce != 500*time.Millisecond {
		t.Errorf("Debounce: got %s, want 500ms", cfg.Debounce)
	}
	if cfg.HistoryCap != 10 {
		t.Errorf("HistoryCap: got %d, want 10", cfg.HistoryCap)
	}
	if cfg.Processor.Mode != ModeLocal {
		t.Errorf("Processor.Mode: got %q, want local", cfg.Processor.Mode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
log_level: debug
debounce: 250ms
history_cap: 20
output: /tmp/current.png
processor:
  mode: remote
  url: http://localhost:8000
  timeout: 5s
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q", cfg.LogLevel)
	}
	if cfg.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce: got %s, want 250ms", cfg.Debounce)
	}
	if cfg.HistoryCap != 20 {
		t.Errorf("HistoryCap: got %d, want 20", cfg.HistoryCap)
	}
	if cfg.Processor.URL != "http://localhost:8000" || cfg.Processor.Timeout != 5*time.Second {
		t.Errorf("Processor: got %+v", cfg.Processor)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Service.Addr != "127.0.0.1:8000" {
		t.Errorf("Service.Addr: got %q", cfg.Service.Addr)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := LoadFile(writeFile(t, "debounce: [unclosed")); err == nil {
		t.Error("invalid YAML should fail")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PHOTO_EDITOR_LOG_LEVEL":      "warn",
		"PHOTO_EDITOR_DEBOUNCE":       "1s",
		"PHOTO_EDITOR_HISTORY_CAP":    "3",
		"PHOTO_EDITOR_PROCESSOR_MODE": "remote",
		"PHOTO_EDITOR_PROCESSOR_URL":  "http://proc:9000",
		"PHOTO_EDITOR_OUTPUT":         "",

		"PHOTO_EDITOR_PROCESSOR_MAX_PIXELS":    "1000000",
		"PHOTO_EDITOR_SERVICE_MAX_UPLOAD_SIZE": "8589934592",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.LogLevel != "warn" || cfg.Debounce != time.Second || cfg.HistoryCap != 3 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Processor.Mode != ModeRemote || cfg.Processor.URL != "http://proc:9000" {
		t.Errorf("processor overrides not applied: %+v", cfg.Processor)
	}
	if cfg.Processor.MaxPixels != 1_000_000 {
		t.Errorf("MaxPixels: got %d, want 1000000", cfg.Processor.MaxPixels)
	}
	if cfg.Service.MaxUploadSize != 8<<30 {
		t.Errorf("MaxUploadSize: got %d, want %d", cfg.Service.MaxUploadSize, int64(8<<30))
	}
	if cfg.Output != "" {
		t.Errorf("empty variable should not override: %q", cfg.Output)
	}
}

func TestApplyEnv_BadValues(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PHOTO_EDITOR_DEBOUNCE":    "soon",
		"PHOTO_EDITOR_HISTORY_CAP": "many",

		"PHOTO_EDITOR_PROCESSOR_MAX_PIXELS":    "lots",
		"PHOTO_EDITOR_SERVICE_MAX_UPLOAD_SIZE": "1.5GB",
	}))
	if err == nil {
		t.Fatal("bad values should fail")
	}
	for _, name := range []string{"DEBOUNCE", "HISTORY_CAP", "PROCESSOR_MAX_PIXELS", "SERVICE_MAX_UPLOAD_SIZE"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error should mention %s: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"zero debounce", func(c *Config) { c.Debounce = 0 }},
		{"negative history", func(c *Config) { c.HistoryCap = -1 }},
		{"history over limit", func(c *Config) { c.HistoryCap = MaxHistoryCap + 1 }},
		{"zero timeout", func(c *Config) { c.Processor.Timeout = 0 }},
		{"negative max pixels", func(c *Config) { c.Processor.MaxPixels = -1 }},
		{"addr without port", func(c *Config) { c.Service.Addr = "localhost" }},
		{"zero upload size", func(c *Config) { c.Service.MaxUploadSize = 0 }},
		{"remote without url", func(c *Config) { c.Processor.Mode = ModeRemote }},
		{"remote url without scheme", func(c *Config) {
			c.Processor.Mode = ModeRemote
			c.Processor.URL = "not-a-url"
		}},
		{"remote url with ftp scheme", func(c *Config) {
			c.Processor.Mode = ModeRemote
			c.Processor.URL = "ftp://proc:21"
		}},
		{"unknown mode", func(c *Config) { c.Processor.Mode = "gpu" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}
