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
	if err := c.validateRecorder(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.StagingDir == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if c.Paths.ArchiveDir == "" {
		return errors.New("paths.archive_dir must be set")
	}
	if c.Paths.StagingDir == c.Paths.ArchiveDir {
		return errors.New("paths.staging_dir and paths.archive_dir must differ")
	}
	return nil
}

func (c *Config) validateRecorder() error {
	if c.Recorder.PollInterval < 1 {
		return errors.New("recorder.poll_interval must be at least 1 second")
	}
	if c.Recorder.ChunkDuration < c.Recorder.PollInterval {
		return fmt.Errorf(
			"recorder.chunk_duration (%ds) must be at least recorder.poll_interval (%ds)",
			c.Recorder.ChunkDuration, c.Recorder.PollInterval,
		)
	}
	if c.Recorder.StopTimeout < 1 {
		return errors.New("recorder.stop_timeout must be at least 1 second")
	}
	switch c.Recorder.Container {
	case "mp3", "aac", "ogg":
	default:
		return fmt.Errorf("recorder.container: unsupported value %q", c.Recorder.Container)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
