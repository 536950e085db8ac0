package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeTools()
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if err := c.normalizeWorkdir(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = toolValue(c.Tools.FFmpeg, "YTAUDIO_FFMPEG", defaultFFmpegBinary)
	c.Tools.FFprobe = toolValue(c.Tools.FFprobe, "YTAUDIO_FFPROBE", defaultFFprobeBinary)
	c.Tools.Rsync = toolValue(c.Tools.Rsync, "YTAUDIO_RSYNC", defaultRsyncBinary)
}

// toolValue resolves a binary with precedence env > file > default.
func toolValue(fileValue, envKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	if value := strings.TrimSpace(fileValue); value != "" {
		return value
	}
	return fallback
}

func (c *Config) normalizeWorkdir() error {
	root := strings.TrimSpace(c.Workdir.TempRoot)
	if root == "" {
		c.Workdir.TempRoot = ""
		return nil
	}
	expanded, err := expandPath(root)
	if err != nil {
		return fmt.Errorf("workdir.temp_root: %w", err)
	}
	c.Workdir.TempRoot = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("YTAUDIO_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
