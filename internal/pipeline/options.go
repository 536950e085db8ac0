package pipeline

import (
	"strings"

	"ytaudio/internal/services"
)

// Options is the per-run record built from the command line.
type Options struct {
	URL          string
	Destination  string
	Workdir      string
	SkipIfExists bool
	Mono         bool
}

// Validate ensures the required positional inputs are present.
func (o Options) Validate() error {
	if strings.TrimSpace(o.URL) == "" {
		return services.Wrap(services.ErrConfiguration, "pipeline", "validate", "source URL required", nil)
	}
	if strings.TrimSpace(o.Destination) == "" {
		return services.Wrap(services.ErrConfiguration, "pipeline", "validate", "destination required", nil)
	}
	return nil
}
