package preset

import (
	"fmt"
	"math"
	"strings"

	"cutroom/internal/services"
	"cutroom/internal/timeline"
)

// aspectRatioTolerance is the absolute difference beyond which the
// timeline and preset aspect ratios are considered mismatched.
const aspectRatioTolerance = 0.1

// Result carries itemized validation findings. Warnings never block
// compilation; only Errors clear Valid.
type Result struct {
	Valid    bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Err converts a failed result into a tagged validation error, or nil for
// a valid result.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return services.Wrap(services.ErrValidation, "preset", "validate", strings.Join(r.Errors, "; "), nil)
}

// Validate checks a timeline against a preset's delivery constraints.
func Validate(tl *timeline.Timeline, p Preset) Result {
	result := Result{Valid: true}

	if p.MaxDuration > 0 && tl.Duration > p.MaxDuration {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(
			"timeline duration %.2fs exceeds %s limit of %.2fs", tl.Duration, p.Name, p.MaxDuration))
	}

	for i := range tl.Tracks {
		track := &tl.Tracks[i]
		if !track.Enabled {
			continue
		}
		if len(track.Clips) == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("track %q is enabled but has no clips", track.Name))
			continue
		}
		if track.Kind.AllowsOverlap() {
			continue
		}
		for _, overlap := range timeline.FindOverlaps(track) {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"track %q has overlapping clips %s and %s", track.Name, overlap.FirstID, overlap.OtherID))
		}
	}

	timelineRatio := tl.Settings.AspectRatio()
	presetRatio := p.Options.AspectRatio()
	if timelineRatio > 0 && presetRatio > 0 && math.Abs(timelineRatio-presetRatio) > aspectRatioTolerance {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"timeline aspect ratio %.3f differs from preset aspect ratio %.3f; output will be scaled", timelineRatio, presetRatio))
	}

	if p.MaxFileSize > 0 {
		if estimate := EstimateFileSize(tl, p); estimate > p.MaxFileSize {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"estimated output size %d bytes exceeds %s limit of %d bytes", estimate, p.Name, p.MaxFileSize))
		}
	}

	return result
}
