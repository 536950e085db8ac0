package config

const (
	defaultFFmpegBinary    = "ffmpeg"
	defaultFFprobeBinary   = "ffprobe"
	defaultRsyncBinary     = "rsync"
	defaultFormatItag      = 140
	defaultStaleAfterHours = 24
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults. Tool binaries
// are left empty so normalize can apply environment overrides before falling
// back to PATH lookups by bare name.
func Default() Config {
	return Config{
		Fetch: Fetch{
			FormatItag: defaultFormatItag,
		},
		Workdir: Workdir{
			StaleAfterHours: defaultStaleAfterHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
