// Package testsupport builds configurations and stub tool binaries for tests
// that exercise ytaudio end to end.
package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ytaudio/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique temp root per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	tempRoot := filepath.Join(base, "tmp")
	if err := os.MkdirAll(tempRoot, 0o755); err != nil {
		t.Fatalf("mkdir temp root: %v", err)
	}
	cfgVal := config.Default()
	cfgVal.Tools = config.Tools{FFmpeg: "ffmpeg", FFprobe: "ffprobe", Rsync: "rsync"}
	cfgVal.Workdir.TempRoot = tempRoot

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithStubbedTools writes shell stubs for ffmpeg, ffprobe, and rsync and points
// the config at them. Every invocation is appended to CallLog. The ffmpeg stub
// creates its final argument; failing names exit 3 after printing to stderr.
func WithStubbedTools(failing ...string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		logPath := callLogPath(b.baseDir)
		bodies := map[string]string{
			"ffmpeg":  "for last; do :; done\nprintf 'm4a' > \"$last\"\n",
			"ffprobe": "echo '{\"streams\": [{\"index\": 0, \"codec_type\": \"audio\", \"channels\": 2}], \"format\": {\"duration\": \"1.0\"}}'\n",
			"rsync":   "exit 0\n",
		}
		for name, body := range bodies {
			for _, fail := range failing {
				if fail == name {
					body = fmt.Sprintf("echo '%s: simulated failure' >&2\nexit 3\n", name)
				}
			}
			script := fmt.Sprintf("#!/bin/sh\necho \"%s $*\" >> '%s'\n%s", name, logPath, body)
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		b.cfg.Tools = config.Tools{
			FFmpeg:  filepath.Join(binDir, "ffmpeg"),
			FFprobe: filepath.Join(binDir, "ffprobe"),
			Rsync:   filepath.Join(binDir, "rsync"),
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Workdir.TempRoot)
}

// CallLog returns one line per stub tool invocation, oldest first.
func CallLog(t testing.TB, cfg *config.Config) []string {
	t.Helper()
	data, err := os.ReadFile(callLogPath(BaseDir(cfg)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read call log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// WriteConfig serialises cfg as TOML at path.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func callLogPath(base string) string {
	return filepath.Join(base, "calls.log")
}
