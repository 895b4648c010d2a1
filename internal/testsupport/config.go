package testsupport

import (
	"path/filepath"
	"testing"

	"cutroom/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "exports")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.FFmpeg.ProgressPersistInterval = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMaxConcurrent overrides the export worker limit on the test config.
func WithMaxConcurrent(limit int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.MaxConcurrent = limit
	}
}

// WithFFmpegBinary overrides the transcoder binary on the test config.
func WithFFmpegBinary(binary string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.FFmpeg.Binary = binary
	}
}
