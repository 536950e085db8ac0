// Package deliver places the transcoded file at its destination, either by
// rsync to a remote host or by a local move.
package deliver

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ytaudio/internal/destination"
	"ytaudio/internal/fileutil"
	"ytaudio/internal/logging"
	"ytaudio/internal/services"
)

const outputTailLines = 8

// Option configures the deliverer.
type Option func(*Deliverer)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(d *Deliverer) {
		if exec != nil {
			d.exec = exec
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Deliverer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Deliverer performs exactly one delivery attempt per call.
type Deliverer struct {
	rsync  string
	exec   services.Executor
	logger *slog.Logger
}

// New constructs a Deliverer that uses the given rsync binary for remote targets.
func New(rsyncBinary string, opts ...Option) *Deliverer {
	rsyncBinary = strings.TrimSpace(rsyncBinary)
	if rsyncBinary == "" {
		rsyncBinary = "rsync"
	}
	d := &Deliverer{
		rsync:  rsyncBinary,
		exec:   services.CommandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.NewComponentLogger(d.logger, "deliver")
	return d
}

// Deliver classifies dest and sends src there.
func (d *Deliverer) Deliver(ctx context.Context, src, dest string) error {
	return d.DeliverAs(ctx, src, dest, destination.Classify(dest))
}

// DeliverAs sends src to dest using a classification computed by the caller.
// Failures are tagged with services.ErrDelivery.
func (d *Deliverer) DeliverAs(ctx context.Context, src, dest string, kind destination.Kind) error {
	if strings.TrimSpace(dest) == "" {
		return services.Wrap(services.ErrDelivery, "deliver", "", "destination required", nil)
	}
	if kind == destination.Remote {
		return d.sync(ctx, src, dest)
	}
	return d.move(ctx, src, dest)
}

func (d *Deliverer) sync(ctx context.Context, src, dest string) error {
	logger := logging.WithContext(ctx, d.logger)
	cmd := services.Command{Binary: d.rsync, Args: []string{"-avP", src, dest}}
	logger.Info("syncing to remote destination",
		logging.String("destination", dest),
		logging.String("command", cmd.String()),
	)

	tail := services.NewOutputTail(outputTailLines)
	if err := d.exec.Run(ctx, cmd, func(line string) {
		tail.Add(line)
		logger.Debug("rsync output", logging.String("line", line))
	}); err != nil {
		return services.Wrap(services.ErrDelivery, "deliver", "rsync", tail.String(), err)
	}
	logger.Info("delivered",
		logging.String("destination", dest),
		logging.String(logging.FieldEventType, "deliver_complete"),
	)
	return nil
}

func (d *Deliverer) move(ctx context.Context, src, dest string) error {
	logger := logging.WithContext(ctx, d.logger)
	target, err := LocalTarget(src, dest)
	if err != nil {
		return services.Wrap(services.ErrDelivery, "deliver", "resolve target", dest, err)
	}
	logger.Info("moving to local destination", logging.String("destination", target))

	if err := fileutil.MoveFile(src, target); err != nil {
		return services.Wrap(services.ErrDelivery, "deliver", "move", target, err)
	}
	logger.Info("delivered",
		logging.String("destination", target),
		logging.String(logging.FieldEventType, "deliver_complete"),
	)
	return nil
}

// LocalTarget resolves the final file path for a local move. An existing
// directory receives the file under its own base name. A file already at the
// resolved path, inside such a directory or not, is replaced by the move.
func LocalTarget(src, dest string) (string, error) {
	info, err := os.Stat(dest)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(dest, filepath.Base(src)), nil
	case err == nil, errors.Is(err, os.ErrNotExist):
		return dest, nil
	default:
		return "", err
	}
}
