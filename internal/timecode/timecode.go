// Package timecode converts between continuous timeline seconds and discrete
// frame indices.
package timecode

import "math"

// TimeToFrame returns the frame index nearest to the given time in seconds.
// Non-positive frame rates and negative times map to frame 0.
func TimeToFrame(seconds, frameRate float64) int64 {
	if frameRate <= 0 || seconds <= 0 {
		return 0
	}
	return int64(math.Round(seconds * frameRate))
}

// FrameToTime returns the timestamp of a frame index in seconds. It is the
// exact inverse of TimeToFrame for frame-aligned inputs.
func FrameToTime(frame int64, frameRate float64) float64 {
	if frameRate <= 0 || frame <= 0 {
		return 0
	}
	return float64(frame) / frameRate
}

// SnapToFrame quantizes a time to the nearest frame boundary.
func SnapToFrame(seconds, frameRate float64) float64 {
	return FrameToTime(TimeToFrame(seconds, frameRate), frameRate)
}

// FramePeriod returns the duration of one frame in seconds, or 0 for
// non-positive frame rates.
func FramePeriod(frameRate float64) float64 {
	if frameRate <= 0 {
		return 0
	}
	return 1 / frameRate
}
