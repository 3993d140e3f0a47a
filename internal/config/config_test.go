package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/walltile/internal/model"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.DefaultFitting != model.FittingCover {
		t.Fatalf("default fitting = %s, want cover", cfg.DefaultFitting)
	}
	if cfg.ThumbnailSize != 512 || cfg.PlaceholderSize != 128 {
		t.Fatalf("thumbnail sizes = %d/%d", cfg.ThumbnailSize, cfg.PlaceholderSize)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.File != "" {
		t.Fatalf("expected no file, got %q", res.File)
	}
	if res.Config.FilePicker != "auto" {
		t.Fatalf("file_picker = %q, want auto", res.Config.FilePicker)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.DecodeWorkers != 4 {
		t.Fatalf("decode_workers = %d, want 4", res.Config.DecodeWorkers)
	}
}

func TestLoadFromPath_Overrides(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		`display: ":1"`,
		`xauthority: "/tmp/test-xauth"`,
		`default_fitting: contain`,
		`image_extensions: [png, jpg]`,
		`thumbnail_size: 256`,
		`cycle_hotkey: ""`,
		`logging:`,
		`  enabled: true`,
		`  max_files: 5`,
		``,
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Display != ":1" || cfg.XAuthority != "/tmp/test-xauth" {
		t.Fatalf("display/xauthority = %q/%q", cfg.Display, cfg.XAuthority)
	}
	if cfg.DefaultFitting != model.FittingContain {
		t.Fatalf("default_fitting = %s", cfg.DefaultFitting)
	}
	if len(cfg.ImageExtensions) != 2 || cfg.ThumbnailSize != 256 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.CycleHotkey != "" {
		t.Fatalf("cycle_hotkey = %q, want empty", cfg.CycleHotkey)
	}
	if !cfg.Logging.Enabled || cfg.Logging.MaxFiles != 5 || cfg.Logging.MaxSizeMB != 10 {
		t.Fatalf("logging = %+v", cfg.Logging)
	}

	val, src, err := Explain(res, "default_fitting")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "contain" || src.Kind != SourceFile || src.Line != 3 {
		t.Fatalf("explain default_fitting = %#v from %+v", val, src)
	}

	val, src, err = Explain(res, "decode_workers")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 4 || src.Kind != SourceDefault {
		t.Fatalf("explain decode_workers = %#v from %+v", val, src)
	}

	if _, _, err := Explain(res, "logging.nope"); err == nil {
		t.Fatalf("expected error for unknown path")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), filepath.Base(path)) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_BadFitting(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "default_fitting: zoom\n"))
	if err == nil || !strings.Contains(err.Error(), "zoom") {
		t.Fatalf("expected fitting error, got %v", err)
	}
}

func TestLoadFromPath_ValidationHasSourceContext(t *testing.T) {
	path := writeConfig(t, "log_level: info\nfile_picker: nautilus\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "file_picker" || verr.Source.Line != 2 {
		t.Fatalf("unexpected validation error %+v", verr)
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected line number in %q", err.Error())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"no extensions", func(c *Config) { c.ImageExtensions = nil }, "image_extensions"},
		{"blank extension", func(c *Config) { c.ImageExtensions = []string{"png", "."} }, "image_extensions"},
		{"tiny thumbnails", func(c *Config) { c.ThumbnailSize = 8 }, "thumbnail_size"},
		{"no workers", func(c *Config) { c.DecodeWorkers = 0 }, "decode_workers"},
		{"negative poll", func(c *Config) { c.MonitorPollSeconds = -1 }, "monitor_poll_seconds"},
		{"protocol", func(c *Config) { c.ThumbnailProtocol = "ascii" }, "thumbnail_protocol"},
		{"logging level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			var verr *ValidationError
			if err := cfg.Validate(); !errors.As(err, &verr) || verr.Path != tc.path {
				t.Fatalf("Validate() = %v, want error at %s", err, tc.path)
			}
		})
	}
}

func TestHasImageExtension(t *testing.T) {
	cfg := DefaultConfig()
	cases := map[string]bool{
		"/pics/a.PNG":    true,
		"/pics/b.jpeg":   true,
		"/pics/c.webp":   true,
		"/pics/d.gif":    false,
		"/pics/noext":    false,
		"/pics/.hidden":  false,
		"relative/e.bmp": true,
	}
	for path, want := range cases {
		if got := cfg.HasImageExtension(path); got != want {
			t.Errorf("HasImageExtension(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultFitting = model.FittingTile
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "default_fitting: tile") {
		t.Fatalf("marshalled config missing fitting:\n%s", data)
	}

	var raw RawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	back, err := BuildEffectiveConfig(raw)
	if err != nil {
		t.Fatal(err)
	}
	if back.DefaultFitting != model.FittingTile {
		t.Fatalf("round trip fitting = %s", back.DefaultFitting)
	}
}

func TestGetLoggingConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging = LoggingConfig{}
	got := cfg.GetLoggingConfig()
	if got.MaxSizeMB != 10 || got.MaxFiles != 3 || got.Level != "info" {
		t.Fatalf("defaults = %+v", got)
	}
	if !strings.HasSuffix(got.File, filepath.Join("walltile", "actions.log")) {
		t.Fatalf("file = %q", got.File)
	}
}

func TestLoadWithSourcesHonorsPathEnv(t *testing.T) {
	t.Setenv(PathEnv, writeConfig(t, "decode_workers: 7\n"))

	res, err := LoadWithSources()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.DecodeWorkers != 7 {
		t.Fatalf("decode_workers = %d, want 7", res.Config.DecodeWorkers)
	}
	if res.File == "" {
		t.Fatal("expected the env file to be recorded")
	}
}
