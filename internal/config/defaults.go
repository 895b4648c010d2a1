package config

const (
	defaultOutputDir               = "~/Videos/cutroom"
	defaultLogDir                  = "~/.local/share/cutroom/logs"
	defaultFFmpegBinary            = "ffmpeg"
	defaultProgressInterval        = 1
	defaultProgressPersistInterval = 2
	defaultMaxConcurrent           = 1
	defaultMaxHistory              = 50
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		FFmpeg: FFmpeg{
			Binary:                  defaultFFmpegBinary,
			ProgressInterval:        defaultProgressInterval,
			ProgressPersistInterval: defaultProgressPersistInterval,
		},
		Export: Export{
			MaxConcurrent: defaultMaxConcurrent,
		},
		Editor: Editor{
			MaxHistory:   defaultMaxHistory,
			SnapToFrames: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
