package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Fetch.FormatItag <= 0 {
		return fmt.Errorf("fetch.format_itag must be a positive stream identifier, got %d", c.Fetch.FormatItag)
	}
	if c.Workdir.StaleAfterHours < 0 {
		return errors.New("workdir.stale_after_hours must be zero or positive")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
