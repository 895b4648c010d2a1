package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"cutroom/internal/render"
)

var commandContext = exec.CommandContext

// ProgressUpdate captures encoder progress events.
type ProgressUpdate struct {
	Percent float64
	Message string
}

// Runner executes a compiled plan. Implementations report progress through
// the callback when they can and must honor context cancellation.
type Runner interface {
	Run(ctx context.Context, plan render.Plan, progress func(ProgressUpdate)) error
}

// FFmpegRunner runs plans through the ffmpeg binary, reading its
// machine-readable progress stream from stdout.
type FFmpegRunner struct {
	binary string
}

// Option configures the ffmpeg runner.
type Option func(*FFmpegRunner)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(r *FFmpegRunner) {
		if binary != "" {
			r.binary = binary
		}
	}
}

// NewFFmpegRunner constructs a runner using defaults.
func NewFFmpegRunner(opts ...Option) *FFmpegRunner {
	runner := &FFmpegRunner{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// Run launches ffmpeg and streams progress until the encode finishes.
func (r *FFmpegRunner) Run(ctx context.Context, plan render.Plan, progress func(ProgressUpdate)) error {
	if len(plan.Args) == 0 {
		return errors.New("plan has no arguments")
	}

	args := append([]string{"-hide_banner", "-nostats", "-progress", "pipe:1"}, plan.Args...)
	cmd := commandContext(ctx, r.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "out_time_us", "out_time_ms":
			us, parseErr := strconv.ParseInt(value, 10, 64)
			if parseErr != nil || plan.DurationSeconds <= 0 {
				continue
			}
			if progress != nil {
				percent := float64(us) / 1e6 / plan.DurationSeconds * 100
				if percent > 100 {
					percent = 100
				}
				progress(ProgressUpdate{Percent: percent, Message: "Encoding"})
			}
		case "progress":
			if value == "end" && progress != nil {
				progress(ProgressUpdate{Percent: 100, Message: "Finishing"})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return fmt.Errorf("read ffmpeg output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			if idx := strings.LastIndexByte(detail, '\n'); idx >= 0 {
				detail = strings.TrimSpace(detail[idx+1:])
			}
			return fmt.Errorf("ffmpeg failed: %s: %w", detail, err)
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

var _ Runner = (*FFmpegRunner)(nil)
