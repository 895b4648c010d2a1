package editor

import "cutroom/internal/timeline"

// OverlapIssue is an advisory conflict between two clips on one track.
// Allowed marks overlaps on overlay-capable track kinds, which are legal
// but still reported for visibility.
type OverlapIssue struct {
	Overlap timeline.Overlap
	Kind    timeline.TrackKind
	Allowed bool
}

// ValidateClipOverlap scans every track for overlapping clips. The result
// is advisory: editing is never blocked by it, and export treats disallowed
// overlaps as warnings.
func (e *Editor) ValidateClipOverlap() []OverlapIssue {
	var issues []OverlapIssue
	for i := range e.tl.Tracks {
		track := &e.tl.Tracks[i]
		for _, overlap := range timeline.FindOverlaps(track) {
			issues = append(issues, OverlapIssue{
				Overlap: overlap,
				Kind:    track.Kind,
				Allowed: track.Kind.AllowsOverlap(),
			})
		}
	}
	return issues
}
