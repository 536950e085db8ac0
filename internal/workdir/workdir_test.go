package workdir

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytaudio/internal/services"
)

func TestAcquireTemporaryIsRemovedOnRelease(t *testing.T) {
	root := t.TempDir()
	dir, err := Acquire("", root)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !dir.Temporary {
		t.Fatal("expected temporary directory")
	}
	if filepath.Dir(dir.Path) != root || !strings.HasPrefix(filepath.Base(dir.Path), TempPrefix) {
		t.Fatalf("unexpected temp path %q", dir.Path)
	}
	path := dir.Path
	if err := os.WriteFile(TranscodedPath(dir.Path), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := dir.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected temp dir removed, stat err=%v", err)
	}
	if err := dir.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
}

func TestAcquireUserDirIsKept(t *testing.T) {
	userDir := t.TempDir()
	dir, err := Acquire(userDir, "")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if dir.Temporary {
		t.Fatal("user directory must not be temporary")
	}
	if err := os.WriteFile(SourcePath(dir.Path, "m4a"), []byte("audio"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := dir.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(filepath.Join(userDir, "source.m4a")); err != nil {
		t.Fatalf("expected user files kept: %v", err)
	}
}

func TestAcquireMissingUserDir(t *testing.T) {
	_, err := Acquire(filepath.Join(t.TempDir(), "missing"), "")
	if !errors.Is(err, services.ErrWorkdir) {
		t.Fatalf("expected ErrWorkdir, got %v", err)
	}
}

func TestAcquireRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Acquire(file, ""); !errors.Is(err, services.ErrWorkdir) {
		t.Fatalf("expected ErrWorkdir, got %v", err)
	}
}

func TestAcquireRefusesLockedDir(t *testing.T) {
	userDir := t.TempDir()
	first, err := Acquire(userDir, "")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer first.Release()

	_, err = Acquire(userDir, "")
	if !errors.Is(err, ErrLocked) || !errors.Is(err, services.ErrWorkdir) {
		t.Fatalf("expected lock error, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	second, err := Acquire(userDir, "")
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	_ = second.Release()
}

func TestSourcePathNormalizesExtension(t *testing.T) {
	if got := SourcePath("/work", ".webm"); got != filepath.Join("/work", "source.webm") {
		t.Fatalf("unexpected source path %q", got)
	}
	if got := TranscodedPath("/work"); got != filepath.Join("/work", "postprocess.m4a") {
		t.Fatalf("unexpected transcoded path %q", got)
	}
}

func TestFindSource(t *testing.T) {
	dir := t.TempDir()
	if _, ok, err := FindSource(dir); err != nil || ok {
		t.Fatalf("expected no source, ok=%v err=%v", ok, err)
	}

	for _, name := range []string{".source.m4a.part", "postprocess.m4a", LockName} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "source.d"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, ok, _ := FindSource(dir); ok {
		t.Fatal("partial files and directories must not satisfy the lookup")
	}

	want := filepath.Join(dir, "source.mp3")
	if err := os.WriteFile(want, []byte("id3"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, ok, err := FindSource(dir)
	if err != nil || !ok || got != want {
		t.Fatalf("FindSource = %q, %v, %v; want %q", got, ok, err, want)
	}
}
