package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/1broseidon/walltile/internal/model"
	"gopkg.in/yaml.v3"
)

// LoggingConfig configures the wallpaper action log.
type LoggingConfig struct {
	// Enabled turns action logging on/off
	Enabled bool `yaml:"enabled,omitempty"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path (default: ~/.local/share/walltile/actions.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// Config is the effective walltile configuration.
type Config struct {
	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`
	LogLevel   string `yaml:"log_level"`

	DefaultFitting  model.Fitting `yaml:"default_fitting"`
	ImageExtensions []string      `yaml:"image_extensions"`

	ThumbnailSize   int `yaml:"thumbnail_size"`
	PlaceholderSize int `yaml:"placeholder_size"`
	DecodeWorkers   int `yaml:"decode_workers"`

	MonitorPollSeconds int    `yaml:"monitor_poll_seconds"`
	FilePicker         string `yaml:"file_picker"`
	CycleHotkey        string `yaml:"cycle_hotkey"`
	ThumbnailProtocol  string `yaml:"thumbnail_protocol"`

	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:           "info",
		DefaultFitting:     model.FittingCover,
		ImageExtensions:    []string{"jpg", "jpeg", "png", "bmp", "webp"},
		ThumbnailSize:      512,
		PlaceholderSize:    128,
		DecodeWorkers:      4,
		MonitorPollSeconds: 5,
		FilePicker:         "auto",
		CycleHotkey:        "Mod4-Mod1-w",
		ThumbnailProtocol:  "auto",
		Logging: LoggingConfig{
			Enabled:   false,
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
	}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "walltile", "config.yaml"), nil
}

// HasImageExtension reports whether path ends in one of the configured
// image extensions.
func (c *Config) HasImageExtension(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return false
	}
	for _, allowed := range c.ImageExtensions {
		if strings.EqualFold(strings.TrimPrefix(allowed, "."), ext) {
			return true
		}
	}
	return false
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/walltile/actions.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if !c.DefaultFitting.Valid() {
		return &ValidationError{Path: "default_fitting", Err: fmt.Errorf("default_fitting must be one of: center, tile, stretch, contain, cover")}
	}
	if len(c.ImageExtensions) == 0 {
		return &ValidationError{Path: "image_extensions", Err: fmt.Errorf("image_extensions must not be empty")}
	}
	for _, ext := range c.ImageExtensions {
		if strings.TrimSpace(strings.TrimPrefix(ext, ".")) == "" {
			return &ValidationError{Path: "image_extensions", Err: fmt.Errorf("image_extensions contains an empty entry")}
		}
	}
	if c.ThumbnailSize < 16 {
		return &ValidationError{Path: "thumbnail_size", Err: fmt.Errorf("thumbnail_size must be >= 16")}
	}
	if c.PlaceholderSize < 1 {
		return &ValidationError{Path: "placeholder_size", Err: fmt.Errorf("placeholder_size must be >= 1")}
	}
	if c.DecodeWorkers < 1 {
		return &ValidationError{Path: "decode_workers", Err: fmt.Errorf("decode_workers must be >= 1")}
	}
	if c.MonitorPollSeconds < 0 {
		return &ValidationError{Path: "monitor_poll_seconds", Err: fmt.Errorf("monitor_poll_seconds must be >= 0 (0 disables polling)")}
	}
	switch c.FilePicker {
	case "auto", "zenity", "kdialog", "terminal":
	default:
		return &ValidationError{Path: "file_picker", Err: fmt.Errorf("file_picker must be one of: auto, zenity, kdialog, terminal")}
	}
	switch c.ThumbnailProtocol {
	case "auto", "halfblocks", "kitty", "iterm2", "sixel":
	default:
		return &ValidationError{Path: "thumbnail_protocol", Err: fmt.Errorf("thumbnail_protocol must be one of: auto, halfblocks, kitty, iterm2, sixel")}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("logging.level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	return nil
}
