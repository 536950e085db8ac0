// Package transcode normalizes fetched audio into a fast-start MP4 container
// with ffmpeg.
package transcode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"ytaudio/internal/logging"
	"ytaudio/internal/media/ffprobe"
	"ytaudio/internal/services"
	"ytaudio/internal/workdir"
)

const outputTailLines = 12

// Option configures the transcoder.
type Option func(*Transcoder)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(t *Transcoder) {
		if exec != nil {
			t.exec = exec
		}
	}
}

// WithMono downmixes the output to a single channel.
func WithMono(mono bool) Option {
	return func(t *Transcoder) {
		t.mono = mono
	}
}

// WithVerify probes the output with the given ffprobe binary after ffmpeg succeeds.
func WithVerify(probeBinary string) Option {
	return func(t *Transcoder) {
		t.verify = true
		t.probeBinary = strings.TrimSpace(probeBinary)
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transcoder) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Transcoder wraps ffmpeg invocations for a single working directory.
type Transcoder struct {
	binary      string
	probeBinary string
	dir         string
	mono        bool
	verify      bool
	exec        services.Executor
	logger      *slog.Logger
}

// New constructs a Transcoder that writes postprocess.m4a into dir.
func New(binary, dir string, opts ...Option) (*Transcoder, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("working directory required")
	}
	t := &Transcoder{
		binary: binary,
		dir:    dir,
		exec:   services.CommandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = logging.NewComponentLogger(t.logger, "transcode")
	return t, nil
}

// BuildArgs returns the ffmpeg argument list. Mono output re-encodes with a
// single channel; otherwise the audio stream is copied untouched.
func BuildArgs(src, dst string, mono bool) []string {
	args := []string{"-hide_banner", "-i", src}
	if mono {
		args = append(args, "-ac", "1")
	} else {
		args = append(args, "-c", "copy")
	}
	return append(args, "-movflags", "+faststart", "-y", dst)
}

// Transcode converts src and returns the output path. Failures are tagged
// with services.ErrTranscode.
func (t *Transcoder) Transcode(ctx context.Context, src string) (string, error) {
	logger := logging.WithContext(ctx, t.logger)
	dst := workdir.TranscodedPath(t.dir)
	cmd := services.Command{
		Binary: t.binary,
		Args:   BuildArgs(src, dst, t.mono),
		Dir:    t.dir,
	}
	logger.Info("transcoding audio",
		logging.String("command", cmd.String()),
		logging.Bool("mono", t.mono),
	)

	tail := services.NewOutputTail(outputTailLines)
	err := t.exec.Run(ctx, cmd, func(line string) {
		tail.Add(line)
		logger.Debug("ffmpeg output", logging.String("line", line))
	})
	if err != nil {
		return "", services.Wrap(services.ErrTranscode, "transcode", "ffmpeg", tail.String(), err)
	}
	if info, statErr := os.Stat(dst); statErr != nil || !info.Mode().IsRegular() {
		if statErr == nil {
			statErr = errors.New("not a regular file")
		}
		return "", services.Wrap(services.ErrTranscode, "transcode", "ffmpeg", "no output file", statErr)
	}

	if t.verify {
		if err := t.verifyOutput(ctx, dst); err != nil {
			return "", err
		}
	}

	logger.Info("transcode complete",
		logging.String("path", dst),
		logging.String(logging.FieldEventType, "transcode_complete"),
	)
	return dst, nil
}

func (t *Transcoder) verifyOutput(ctx context.Context, path string) error {
	result, err := ffprobe.Inspect(ctx, t.exec, t.probeBinary, path)
	if err != nil {
		return services.Wrap(services.ErrTranscode, "transcode", "verify", "", err)
	}
	if result.AudioStreamCount() == 0 {
		return services.Wrap(services.ErrTranscode, "transcode", "verify", "output has no audio stream", nil)
	}
	if t.mono && result.MaxChannels() > 1 {
		return services.Wrap(services.ErrTranscode, "transcode", "verify",
			fmt.Sprintf("expected mono output, found %d channels", result.MaxChannels()), nil)
	}
	logging.WithContext(ctx, t.logger).Debug("output verified",
		logging.Int("audio_streams", result.AudioStreamCount()),
		logging.Int("channels", result.MaxChannels()),
		logging.Any("duration_seconds", result.DurationSeconds()),
	)
	return nil
}
