package config

import (
	"fmt"

	"github.com/1broseidon/walltile/internal/model"
)

// ValidationError points at the config key that failed validation and, when
// known, the file position it came from.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawConfig mirrors Config with every key optional, so that a file only
// overrides what it sets.
type RawConfig struct {
	Display    *string `yaml:"display"`
	XAuthority *string `yaml:"xauthority"`
	LogLevel   *string `yaml:"log_level"`

	DefaultFitting  *model.Fitting `yaml:"default_fitting"`
	ImageExtensions []string       `yaml:"image_extensions"`

	ThumbnailSize   *int `yaml:"thumbnail_size"`
	PlaceholderSize *int `yaml:"placeholder_size"`
	DecodeWorkers   *int `yaml:"decode_workers"`

	MonitorPollSeconds *int    `yaml:"monitor_poll_seconds"`
	FilePicker         *string `yaml:"file_picker"`
	CycleHotkey        *string `yaml:"cycle_hotkey"`
	ThumbnailProtocol  *string `yaml:"thumbnail_protocol"`

	Logging *RawLoggingConfig `yaml:"logging"`
}

// BuildEffectiveConfig applies raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	setString(&cfg.Display, raw.Display)
	setString(&cfg.XAuthority, raw.XAuthority)
	setString(&cfg.LogLevel, raw.LogLevel)
	if raw.DefaultFitting != nil {
		cfg.DefaultFitting = *raw.DefaultFitting
	}
	if raw.ImageExtensions != nil {
		cfg.ImageExtensions = append([]string(nil), raw.ImageExtensions...)
	}
	setInt(&cfg.ThumbnailSize, raw.ThumbnailSize)
	setInt(&cfg.PlaceholderSize, raw.PlaceholderSize)
	setInt(&cfg.DecodeWorkers, raw.DecodeWorkers)
	setInt(&cfg.MonitorPollSeconds, raw.MonitorPollSeconds)
	setString(&cfg.FilePicker, raw.FilePicker)
	setString(&cfg.CycleHotkey, raw.CycleHotkey)
	setString(&cfg.ThumbnailProtocol, raw.ThumbnailProtocol)

	if l := raw.Logging; l != nil {
		if l.Enabled != nil {
			cfg.Logging.Enabled = *l.Enabled
		}
		setString(&cfg.Logging.Level, l.Level)
		setString(&cfg.Logging.File, l.File)
		setInt(&cfg.Logging.MaxSizeMB, l.MaxSizeMB)
		setInt(&cfg.Logging.MaxFiles, l.MaxFiles)
	}

	return cfg, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
