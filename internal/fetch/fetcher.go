package fetch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"ytaudio/internal/logging"
	"ytaudio/internal/services"
	"ytaudio/internal/workdir"
)

// Extractor downloads one audio stream for url into dir and returns the path
// it wrote.
type Extractor interface {
	Extract(ctx context.Context, url, dir string) (string, error)
}

// Fetcher produces the source audio file for a run.
type Fetcher struct {
	extractor    Extractor
	dir          string
	skipIfExists bool
	logger       *slog.Logger
}

// Option configures the fetcher.
type Option func(*Fetcher)

// WithSkipIfExists returns an existing source.* file instead of downloading again.
func WithSkipIfExists(skip bool) Option {
	return func(f *Fetcher) {
		f.skipIfExists = skip
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New constructs a Fetcher writing into dir.
func New(extractor Extractor, dir string, opts ...Option) (*Fetcher, error) {
	if extractor == nil {
		return nil, errors.New("fetch: extractor required")
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("fetch: working directory required")
	}
	f := &Fetcher{
		extractor: extractor,
		dir:       dir,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.NewComponentLogger(f.logger, "fetch")
	return f, nil
}

// Fetch returns the path of the downloaded audio. Any failure is tagged with
// services.ErrDownload.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	logger := logging.WithContext(ctx, f.logger)

	if f.skipIfExists {
		path, ok, err := workdir.FindSource(f.dir)
		if err != nil {
			return "", services.Wrap(services.ErrDownload, "fetch", "lookup existing", "", err)
		}
		if ok {
			logger.Info("reusing existing download",
				logging.String("path", path),
				logging.String(logging.FieldEventType, "fetch_skipped"),
			)
			return path, nil
		}
	}

	logger.Info("downloading audio", logging.String("url", url))
	path, err := f.extractor.Extract(ctx, url, f.dir)
	if err != nil {
		return "", services.Wrap(services.ErrDownload, "fetch", "extract", url, err)
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		if err == nil {
			err = errors.New("not a regular file")
		}
		return "", services.Wrap(services.ErrDownload, "fetch", "verify", "no output file", err)
	}

	logger.Info("download complete",
		logging.String("path", path),
		logging.Int64("bytes", info.Size()),
		logging.String(logging.FieldEventType, "fetch_complete"),
	)
	return path, nil
}
