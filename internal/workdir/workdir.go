package workdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"ytaudio/internal/services"
)

const (
	// TempPrefix names temporary working directories so CleanStale can find them.
	TempPrefix = "ytaudio-"
	// LockName is the advisory lock file placed in user-supplied directories.
	LockName = ".ytaudio.lock"
	// TranscodedName is the fixed output name of the transcode step.
	TranscodedName = "postprocess.m4a"
	// SourceStem is the base name of the fetched file; the extension follows the stream container.
	SourceStem = "source"
)

// ErrLocked reports that another run holds the working directory.
var ErrLocked = errors.New("working directory is in use by another run")

// Dir is an acquired working directory.
type Dir struct {
	Path      string
	Temporary bool

	lock *flock.Flock
}

// Acquire returns the working directory for a run. When userDir is empty a
// temporary directory is created under tempRoot (or the OS default when
// tempRoot is empty). A user-supplied directory must already exist.
func Acquire(userDir, tempRoot string) (*Dir, error) {
	userDir = strings.TrimSpace(userDir)
	if userDir == "" {
		path, err := os.MkdirTemp(strings.TrimSpace(tempRoot), TempPrefix+"*")
		if err != nil {
			return nil, services.Wrap(services.ErrWorkdir, "workdir", "create temp", "could not create temporary working directory", err)
		}
		return &Dir{Path: path, Temporary: true}, nil
	}

	path, err := filepath.Abs(userDir)
	if err != nil {
		return nil, services.Wrap(services.ErrWorkdir, "workdir", "resolve", userDir, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, services.Wrap(services.ErrWorkdir, "workdir", "stat", "working directory must exist", err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrWorkdir, "workdir", "stat", fmt.Sprintf("%s is not a directory", path), nil)
	}

	lock := flock.New(filepath.Join(path, LockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrWorkdir, "workdir", "lock", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrWorkdir, "workdir", "lock", path, ErrLocked)
	}
	return &Dir{Path: path, lock: lock}, nil
}

// Release removes a temporary directory or unlocks a user-supplied one.
// It is safe to call more than once.
func (d *Dir) Release() error {
	if d == nil {
		return nil
	}
	if d.Temporary {
		if d.Path == "" {
			return nil
		}
		err := os.RemoveAll(d.Path)
		d.Path = ""
		if err != nil {
			return fmt.Errorf("remove temporary working directory: %w", err)
		}
		return nil
	}
	if d.lock == nil {
		return nil
	}
	err := d.lock.Unlock()
	d.lock = nil
	if err != nil {
		return fmt.Errorf("release working directory lock: %w", err)
	}
	return nil
}

// SourcePath returns where a fetched stream with the given extension lives in dir.
func SourcePath(dir, ext string) string {
	return filepath.Join(dir, SourceStem+"."+strings.TrimPrefix(ext, "."))
}

// TranscodedPath returns the fixed transcode output path in dir.
func TranscodedPath(dir string) string {
	return filepath.Join(dir, TranscodedName)
}
