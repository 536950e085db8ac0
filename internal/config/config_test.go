package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ytaudio/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	for _, key := range []string{"YTAUDIO_FFMPEG", "YTAUDIO_FFPROBE", "YTAUDIO_RSYNC", "YTAUDIO_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	return home
}

func TestLoadDefaultConfigWithoutFile(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	want := filepath.Join(home, ".config", "ytaudio", "config.toml")
	if resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" || cfg.Tools.FFprobe != "ffprobe" || cfg.Tools.Rsync != "rsync" {
		t.Fatalf("unexpected tool defaults: %+v", cfg.Tools)
	}
	if cfg.Fetch.FormatItag != 140 {
		t.Fatalf("expected itag 140, got %d", cfg.Fetch.FormatItag)
	}
	if cfg.Transcode.VerifyOutput {
		t.Fatal("expected output verification disabled by default")
	}
	if cfg.Workdir.StaleAfterHours != 24 {
		t.Fatalf("unexpected stale hours: %d", cfg.Workdir.StaleAfterHours)
	}
	if cfg.TempRoot() != os.TempDir() {
		t.Fatalf("expected OS temp dir as temp root, got %q", cfg.TempRoot())
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	home := isolate(t)

	path := filepath.Join(t.TempDir(), "ytaudio.toml")
	contents := `
[tools]
ffmpeg = "/opt/ffmpeg/bin/ffmpeg"

[fetch]
format_itag = 251

[transcode]
verify_output = true

[workdir]
temp_root = "~/scratch"
stale_after_hours = 6

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected custom path to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Tools.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg: %q", cfg.Tools.FFmpeg)
	}
	if cfg.Tools.Rsync != "rsync" {
		t.Fatalf("expected rsync default to survive partial file, got %q", cfg.Tools.Rsync)
	}
	if cfg.Fetch.FormatItag != 251 {
		t.Fatalf("unexpected itag: %d", cfg.Fetch.FormatItag)
	}
	if !cfg.Transcode.VerifyOutput {
		t.Fatal("expected verify_output enabled")
	}
	if cfg.Workdir.TempRoot != filepath.Join(home, "scratch") {
		t.Fatalf("expected expanded temp root, got %q", cfg.Workdir.TempRoot)
	}
	if cfg.Workdir.StaleAfterHours != 6 {
		t.Fatalf("unexpected stale hours: %d", cfg.Workdir.StaleAfterHours)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging values, got %+v", cfg.Logging)
	}
}

func TestLoadFindsProjectConfig(t *testing.T) {
	isolate(t)
	if err := os.WriteFile("ytaudio.toml", []byte("[fetch]\nformat_itag = 139\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "ytaudio.toml" {
		t.Fatalf("expected project config, got %q exists=%v", resolved, exists)
	}
	if cfg.Fetch.FormatItag != 139 {
		t.Fatalf("unexpected itag: %d", cfg.Fetch.FormatItag)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[fetch]\nformat = \"bestaudio\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestEnvVarOverridesConfigFileForTools(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[tools]\nffmpeg = \"/from/file\"\nrsync = \"/from/file/rsync\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("YTAUDIO_FFMPEG", "/from/env")
	t.Setenv("YTAUDIO_LOG_LEVEL", "warn")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Tools.FFmpeg != "/from/env" {
		t.Fatalf("expected env override, got %q", cfg.Tools.FFmpeg)
	}
	if cfg.Tools.Rsync != "/from/file/rsync" {
		t.Fatalf("expected file value without env override, got %q", cfg.Tools.Rsync)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected env log level, got %q", cfg.Logging.Level)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	isolate(t)
	os.Unsetenv("YTAUDIO_RSYNC")
	t.Cleanup(func() { os.Unsetenv("YTAUDIO_RSYNC") })
	if err := os.WriteFile(".env", []byte("YTAUDIO_RSYNC=/usr/local/bin/rsync\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Tools.Rsync != "/usr/local/bin/rsync" {
		t.Fatalf("expected rsync from .env, got %q", cfg.Tools.Rsync)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "format_itag = 140") {
		t.Fatalf("sample config missing itag default: %s", contents)
	}

	cfg := config.Default()
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" {
		t.Fatalf("unexpected sample ffmpeg: %q", cfg.Tools.FFmpeg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero itag", func(c *config.Config) { c.Fetch.FormatItag = 0 }},
		{"negative stale hours", func(c *config.Config) { c.Workdir.StaleAfterHours = -1 }},
		{"unknown log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"unknown log level", func(c *config.Config) { c.Logging.Level = "trace" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)
	got, err := config.ExpandPath("~/music")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "music") {
		t.Fatalf("unexpected expansion: %q", got)
	}
	if empty, _ := config.ExpandPath(""); empty != "" {
		t.Fatalf("expected empty path to stay empty, got %q", empty)
	}
}
