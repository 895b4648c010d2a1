package preset

import "cutroom/internal/timeline"

// Bitrate defaults used when a preset leaves bitrates unspecified.
const (
	defaultVideoBitrateKbps = 4000
	defaultAudioBitrateKbps = 128
)

// EstimateFileSize predicts the rendered output size in bytes from the
// combined bitrate and the timeline duration. The estimate is advisory
// only and never rejects an export.
func EstimateFileSize(tl *timeline.Timeline, p Preset) int64 {
	videoKbps := p.Options.VideoBitrateKbps
	if videoKbps <= 0 {
		videoKbps = defaultVideoBitrateKbps
	}
	audioKbps := p.Options.AudioBitrateKbps
	if audioKbps <= 0 {
		audioKbps = defaultAudioBitrateKbps
	}
	bitsPerSecond := float64(videoKbps+audioKbps) * 1000
	return int64(bitsPerSecond * tl.Duration / 8)
}
