package config

const (
	defaultStagingDir = "~/.local/share/aircheck/staging"
	defaultArchiveDir = "~/.local/share/aircheck/archive"
	defaultLogDir     = "~/.local/share/aircheck/logs"

	defaultPollInterval      = 5
	defaultChunkDuration     = 3600
	defaultStopTimeout       = 5
	defaultReconnectDelayMax = 5
	defaultContainer         = "mp3"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			ArchiveDir: defaultArchiveDir,
			LogDir:     defaultLogDir,
		},
		Recorder: Recorder{
			PollInterval:      defaultPollInterval,
			ChunkDuration:     defaultChunkDuration,
			StopTimeout:       defaultStopTimeout,
			ReconnectDelayMax: defaultReconnectDelayMax,
			Container:         defaultContainer,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
