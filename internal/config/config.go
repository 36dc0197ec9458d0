// Package config loads photo-editor settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "PHOTO_EDITOR_"

// MaxHistoryCap is the largest accepted history_cap.
const MaxHistoryCap = 1000

// Processor modes.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Config is the top-level photo-editor configuration.
type Config struct {
	LogLevel   string          `yaml:"log_level"` // debug | info | warn | error
	Debounce   time.Duration   `yaml:"debounce"`
	HistoryCap int             `yaml:"history_cap"`
	Output     string          `yaml:"output"` // PNG file updated on every display; empty disables
	Processor  ProcessorConfig `yaml:"processor"`
	Service    ServiceConfig   `yaml:"service"`
}

// ProcessorConfig selects the image processing service used by sessions.
type ProcessorConfig struct {
	Mode      string        `yaml:"mode"` // local | remote
	URL       string        `yaml:"url"`  // base URL in remote mode
	Timeout   time.Duration `yaml:"timeout"`
	MaxPixels int           `yaml:"max_pixels"`
}

// ServiceConfig controls the HTTP processing service.
type ServiceConfig struct {
	Addr          string `yaml:"addr"`
	MaxUploadSize int64  `yaml:"max_upload_size"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// LoadFile reads a YAML configuration file. Missing fields get defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Load reads path if it is non-empty, otherwise starts from the defaults,
// then applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Debounce <= 0 {
		c.Debounce = 500 * time.Millisecond
	}
	if c.HistoryCap <= 0 {
		c.HistoryCap = 10
	}
	if c.Processor.Mode == "" {
		c.Processor.Mode = ModeLocal
	}
	if c.Processor.Timeout <= 0 {
		c.Processor.Timeout = 30 * time.Second
	}
	if c.Processor.MaxPixels <= 0 {
		c.Processor.MaxPixels = 50_000_000
	}
	if c.Service.Addr == "" {
		c.Service.Addr = "127.0.0.1:8000"
	}
	if c.Service.MaxUploadSize <= 0 {
		c.Service.MaxUploadSize = 32 << 20
	}
}

// ApplyEnv overrides fields from PHOTO_EDITOR_* variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = d
		}
	}
	num := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	num64 := func(name string, dst *int64) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}

	str("LOG_LEVEL", &c.LogLevel)
	dur("DEBOUNCE", &c.Debounce)
	num("HISTORY_CAP", &c.HistoryCap)
	str("OUTPUT", &c.Output)
	str("PROCESSOR_MODE", &c.Processor.Mode)
	str("PROCESSOR_URL", &c.Processor.URL)
	dur("PROCESSOR_TIMEOUT", &c.Processor.Timeout)
	num("PROCESSOR_MAX_PIXELS", &c.Processor.MaxPixels)
	str("SERVICE_ADDR", &c.Service.Addr)
	num64("SERVICE_MAX_UPLOAD_SIZE", &c.Service.MaxUploadSize)
	return errors.Join(errs...)
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("config: debounce must be positive, got %s", c.Debounce)
	}
	if c.HistoryCap <= 0 || c.HistoryCap > MaxHistoryCap {
		return fmt.Errorf("config: history_cap must be between 1 and %d, got %d", MaxHistoryCap, c.HistoryCap)
	}
	if c.Processor.Timeout <= 0 {
		return fmt.Errorf("config: processor.timeout must be positive, got %s", c.Processor.Timeout)
	}
	if c.Processor.MaxPixels < 0 {
		return fmt.Errorf("config: processor.max_pixels must not be negative, got %d", c.Processor.MaxPixels)
	}
	if _, _, err := net.SplitHostPort(c.Service.Addr); err != nil {
		return fmt.Errorf("config: service.addr %q: %w", c.Service.Addr, err)
	}
	if c.Service.MaxUploadSize <= 0 {
		return fmt.Errorf("config: service.max_upload_size must be positive, got %d", c.Service.MaxUploadSize)
	}
	switch c.Processor.Mode {
	case ModeLocal:
	case ModeRemote:
		if c.Processor.URL == "" {
			return errors.New("config: processor.url is required in remote mode")
		}
		u, err := url.Parse(c.Processor.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config: processor.url must be an http or https URL, got %q", c.Processor.URL)
		}
	default:
		return fmt.Errorf("config: processor.mode must be %q or %q, got %q", ModeLocal, ModeRemote, c.Processor.Mode)
	}
	return nil
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", name)
}
