package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ytaudio/internal/config"
	"ytaudio/internal/deliver"
	"ytaudio/internal/destination"
	"ytaudio/internal/fetch"
	"ytaudio/internal/logging"
	"ytaudio/internal/services"
	"ytaudio/internal/transcode"
	"ytaudio/internal/workdir"
)

// State tracks how far a run progressed.
type State string

const (
	StateStart      State = "start"
	StateFetched    State = "fetched"
	StateTranscoded State = "transcoded"
	StateDelivered  State = "delivered"
	StateFailed     State = "failed"
)

// Result summarises a finished run.
type Result struct {
	RunID       string
	State       State
	Kind        destination.Kind
	Workdir     string
	Source      string
	Transcoded  string
	Destination string
	Duration    time.Duration
}

// Option configures the runner.
type Option func(*Runner)

// WithExtractor replaces the YouTube extractor (primarily for tests).
func WithExtractor(extractor fetch.Extractor) Option {
	return func(r *Runner) {
		if extractor != nil {
			r.extractor = extractor
		}
	}
}

// WithExecutor injects the executor used for ffmpeg, ffprobe, and rsync.
func WithExecutor(exec services.Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRunIDGenerator overrides run id creation.
func WithRunIDGenerator(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newRunID = fn
		}
	}
}

// Runner executes runs against a loaded configuration.
type Runner struct {
	cfg       *config.Config
	extractor fetch.Extractor
	exec      services.Executor
	logger    *slog.Logger
	newRunID  func() string
}

// NewRunner constructs a Runner. A nil cfg uses defaults.
func NewRunner(cfg *config.Config, opts ...Option) *Runner {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	r := &Runner{
		cfg:      cfg,
		exec:     services.CommandExecutor{},
		logger:   logging.NewNop(),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.extractor == nil {
		r.extractor = fetch.NewYouTubeExtractor(cfg.Fetch, r.logger)
	}
	return r
}

// Run executes fetch, transcode, and deliver in order. The returned Result is
// populated up to the step that failed.
func (r *Runner) Run(ctx context.Context, opts Options) (result Result, err error) {
	started := time.Now()
	result = Result{State: StateStart, Destination: opts.Destination}
	if err := opts.Validate(); err != nil {
		result.State = StateFailed
		return result, err
	}

	result.RunID = r.newRunID()
	ctx = services.WithRunID(ctx, result.RunID)
	result.Kind = destination.Classify(opts.Destination)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(r.logger, "pipeline"))

	logger.Info("run started",
		logging.String("url", opts.URL),
		logging.String("destination", opts.Destination),
		logging.String("destination_kind", result.Kind.String()),
		logging.Bool("skip_if_exist", opts.SkipIfExists),
		logging.Bool("mono", opts.Mono),
		logging.String(logging.FieldEventType, "run_started"),
	)

	defer func() {
		result.Duration = time.Since(started)
		if err != nil {
			result.State = StateFailed
			logger.Error("run failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "run_failed"),
				logging.String(logging.FieldImpact, "audio was not delivered"),
			)
			return
		}
		logger.Info("run complete",
			logging.String("destination", opts.Destination),
			logging.Duration("elapsed", result.Duration),
			logging.String(logging.FieldEventType, "run_complete"),
		)
	}()

	dir, err := workdir.Acquire(opts.Workdir, r.cfg.TempRoot())
	if err != nil {
		return result, err
	}
	result.Workdir = dir.Path
	defer func() {
		if releaseErr := dir.Release(); releaseErr != nil {
			logger.Warn("working directory cleanup failed",
				logging.String("path", result.Workdir),
				logging.Error(releaseErr),
				logging.String(logging.FieldErrorHint, "remove the directory manually or run `ytaudio clean`"),
			)
		}
	}()
	logger.Debug("working directory ready",
		logging.String("path", dir.Path),
		logging.Bool("temporary", dir.Temporary),
	)

	fetcher, err := fetch.New(r.extractor, dir.Path,
		fetch.WithSkipIfExists(opts.SkipIfExists),
		fetch.WithLogger(r.logger),
	)
	if err != nil {
		return result, services.Wrap(services.ErrDownload, "fetch", "setup", "", err)
	}
	source, err := fetcher.Fetch(services.WithStage(ctx, "fetch"), opts.URL)
	if err != nil {
		return result, err
	}
	result.Source = source
	result.State = StateFetched

	transcodeOpts := []transcode.Option{
		transcode.WithExecutor(r.exec),
		transcode.WithMono(opts.Mono),
		transcode.WithLogger(r.logger),
	}
	if r.cfg.Transcode.VerifyOutput {
		transcodeOpts = append(transcodeOpts, transcode.WithVerify(r.cfg.Tools.FFprobe))
	}
	transcoder, err := transcode.New(r.cfg.Tools.FFmpeg, dir.Path, transcodeOpts...)
	if err != nil {
		return result, services.Wrap(services.ErrTranscode, "transcode", "setup", "", err)
	}
	transcoded, err := transcoder.Transcode(services.WithStage(ctx, "transcode"), source)
	if err != nil {
		return result, err
	}
	result.Transcoded = transcoded
	result.State = StateTranscoded

	deliverer := deliver.New(r.cfg.Tools.Rsync,
		deliver.WithExecutor(r.exec),
		deliver.WithLogger(r.logger),
	)
	if err := deliverer.DeliverAs(services.WithStage(ctx, "deliver"), transcoded, opts.Destination, result.Kind); err != nil {
		return result, err
	}
	result.State = StateDelivered
	return result, nil
}
