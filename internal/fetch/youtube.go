package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/kkdai/youtube/v2"

	"ytaudio/internal/config"
	"ytaudio/internal/logging"
	"ytaudio/internal/workdir"
)

// DefaultItag is the AAC-in-MP4 audio-only stream.
const DefaultItag = 140

// ErrFormatUnavailable reports that the video does not offer the configured itag.
var ErrFormatUnavailable = errors.New("format not offered")

// YouTubeExtractor downloads a single fixed-format stream with kkdai/youtube.
type YouTubeExtractor struct {
	client *youtube.Client
	itag   int
	logger *slog.Logger
}

// NewYouTubeExtractor builds an extractor from the fetch configuration.
func NewYouTubeExtractor(cfg config.Fetch, logger *slog.Logger) *YouTubeExtractor {
	itag := cfg.FormatItag
	if itag <= 0 {
		itag = DefaultItag
	}
	httpClient := &http.Client{}
	if ua := strings.TrimSpace(cfg.UserAgent); ua != "" {
		httpClient.Transport = userAgentTransport{agent: ua, next: http.DefaultTransport}
	}
	return &YouTubeExtractor{
		client: &youtube.Client{HTTPClient: httpClient},
		itag:   itag,
		logger: logging.NewComponentLogger(logger, "youtube"),
	}
}

// Extract resolves url, selects the configured itag, and streams it to
// dir/source.<ext>. Bytes land in a hidden .part file first and are renamed
// only after the stream completes.
func (e *YouTubeExtractor) Extract(ctx context.Context, url, dir string) (string, error) {
	video, err := e.client.GetVideoContext(ctx, url)
	if err != nil {
		return "", fmt.Errorf("resolve video: %w", err)
	}
	format, err := selectFormat(video, e.itag)
	if err != nil {
		return "", err
	}

	ext := ExtensionForMime(format.MimeType)
	final := workdir.SourcePath(dir, ext)
	partial := filepath.Join(dir, "."+filepath.Base(final)+".part")

	logging.WithContext(ctx, e.logger).Debug("selected stream",
		logging.String("video_id", video.ID),
		logging.String("title", video.Title),
		logging.Int("itag", format.ItagNo),
		logging.String("mime_type", format.MimeType),
		logging.Int("bitrate", format.Bitrate),
	)

	stream, size, err := e.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", fmt.Errorf("start stream: %w", err)
	}
	defer stream.Close()

	if err := writePartial(ctx, partial, stream, size); err != nil {
		_ = os.Remove(partial)
		return "", err
	}
	if err := os.Rename(partial, final); err != nil {
		_ = os.Remove(partial)
		return "", fmt.Errorf("finalize download: %w", err)
	}
	return final, nil
}

func selectFormat(video *youtube.Video, itag int) (*youtube.Format, error) {
	formats := video.Formats.Itag(itag)
	if len(formats) == 0 {
		return nil, fmt.Errorf("itag %d for %s: %w", itag, video.ID, ErrFormatUnavailable)
	}
	return &formats[0], nil
}

func writePartial(ctx context.Context, path string, stream io.Reader, size int64) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open partial file: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, contextReader{ctx: ctx, r: stream})
	if err != nil {
		return fmt.Errorf("download stream: %w", err)
	}
	if size > 0 && written != size {
		return fmt.Errorf("download truncated: got %d of %d bytes", written, size)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close partial file: %w", err)
	}
	return nil
}

// ExtensionForMime maps a stream MIME type to its native container extension.
func ExtensionForMime(mime string) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch mime {
	case "audio/mp4":
		return "m4a"
	case "audio/webm":
		return "webm"
	case "audio/mpeg":
		return "mp3"
	}
	if _, sub, ok := strings.Cut(mime, "/"); ok && sub != "" {
		return sub
	}
	return "bin"
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.agent)
	return t.next.RoundTrip(clone)
}
