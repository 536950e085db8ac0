// Package deps reports whether the external tools a run invokes are installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"ytaudio/internal/config"
)

// Requirement defines an external dependency ytaudio relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	// Path is the resolved executable when Available.
	Path   string
	Detail string
}

// Requirements lists the tools named by cfg. rsync is only required when the
// caller intends to deliver to remote destinations.
func Requirements(cfg *config.Config, remote bool) []Requirement {
	tools := config.Default().Tools
	verify := false
	if cfg != nil {
		tools = cfg.Tools
		verify = cfg.Transcode.VerifyOutput
	}
	return []Requirement{
		{Name: "FFmpeg", Command: tools.FFmpeg, Description: "Transcodes fetched audio"},
		{Name: "FFprobe", Command: tools.FFprobe, Description: "Verifies transcoded output", Optional: !verify},
		{Name: "rsync", Command: tools.Rsync, Description: "Delivers to remote destinations", Optional: !remote},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of unavailable, non-optional dependencies.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Name)
		}
	}
	return missing
}
