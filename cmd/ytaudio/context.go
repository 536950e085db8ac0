package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ytaudio/internal/config"
	"ytaudio/internal/fetch"
	"ytaudio/internal/logging"
	"ytaudio/internal/services"
)

type commandContext struct {
	configFlag *string

	// extractor replaces the YouTube extractor in tests.
	extractor fetch.Extractor
	// executor replaces os/exec in tests.
	executor services.Executor

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(w io.Writer) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, w)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "config", "logging", "", err)
	}
	return logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func usageError(format string, args ...any) error {
	return services.Wrap(services.ErrConfiguration, "", "", fmt.Sprintf(format, args...), nil)
}
