package testsupport

import (
	"path/filepath"
	"testing"

	"aircheck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.ArchiveDir = filepath.Join(base, "archive")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithPollInterval overrides the supervisor poll interval in seconds.
func WithPollInterval(seconds int) ConfigOption {
	return func(c *config.Config) {
		c.Recorder.PollInterval = seconds
	}
}

// WithChunkDuration overrides the rotation boundary in seconds.
func WithChunkDuration(seconds int) ConfigOption {
	return func(c *config.Config) {
		c.Recorder.ChunkDuration = seconds
	}
}

// WithStopTimeout overrides the terminate-then-kill bound in seconds.
func WithStopTimeout(seconds int) ConfigOption {
	return func(c *config.Config) {
		c.Recorder.StopTimeout = seconds
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
