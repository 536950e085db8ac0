package preflight

import (
	"context"
	"strings"

	"ytaudio/internal/config"
)

// DefaultYouTubeURL is probed to confirm the extraction endpoint is reachable.
const DefaultYouTubeURL = "https://www.youtube.com"

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Options selects optional checks.
type Options struct {
	// Workdir is checked when the user intends to pass --workdir.
	Workdir string
	// Offline skips network checks.
	Offline bool
	// YouTubeURL overrides DefaultYouTubeURL (tests).
	YouTubeURL string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("Temp root", cfg.TempRoot())}

	if dir := strings.TrimSpace(opts.Workdir); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			results = append(results, Result{Name: "Working directory", Detail: err.Error()})
		} else {
			results = append(results, CheckDirectoryAccess("Working directory", expanded))
		}
	}

	if !opts.Offline {
		url := strings.TrimSpace(opts.YouTubeURL)
		if url == "" {
			url = DefaultYouTubeURL
		}
		results = append(results, CheckReachable(ctx, "YouTube", url, cfg.Fetch.UserAgent))
	}

	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
