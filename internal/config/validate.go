package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateEditor(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.ProgressInterval < 1 {
		return errors.New("ffmpeg.progress_interval must be at least 1 second")
	}
	if c.FFmpeg.ProgressPersistInterval < 0 {
		return errors.New("ffmpeg.progress_persist_interval must not be negative")
	}
	return nil
}

func (c *Config) validateExport() error {
	if c.Export.MaxConcurrent < 1 {
		return errors.New("export.max_concurrent must be at least 1")
	}
	return nil
}

func (c *Config) validateEditor() error {
	if c.Editor.MaxHistory < 1 {
		return errors.New("editor.max_history must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
