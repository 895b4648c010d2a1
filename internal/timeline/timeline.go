package timeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// TrackKind identifies the media lane type of a track.
type TrackKind string

const (
	KindVideo TrackKind = "video"
	KindAudio TrackKind = "audio"
	KindText  TrackKind = "text"
)

// ParseTrackKind converts a string into a known TrackKind.
func ParseTrackKind(value string) (TrackKind, bool) {
	kind := TrackKind(strings.ToLower(strings.TrimSpace(value)))
	switch kind {
	case KindVideo, KindAudio, KindText:
		return kind, true
	}
	return "", false
}

// AllowsOverlap reports whether clips on this kind of track may occupy the
// same timeline range. Text tracks are overlay lanes; video and audio are
// exclusive.
func (k TrackKind) AllowsOverlap() bool {
	return k == KindText
}

// Settings holds per-timeline rendering parameters.
type Settings struct {
	FrameRate    float64 `json:"frameRate"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	SampleRate   int     `json:"sampleRate"`
	SnapInterval float64 `json:"snapInterval"`
}

// AspectRatio returns width/height, or 0 when the height is unset.
func (s Settings) AspectRatio() float64 {
	if s.Height <= 0 {
		return 0
	}
	return float64(s.Width) / float64(s.Height)
}

// Track is an ordered lane of clips of one media kind.
type Track struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Kind    TrackKind `json:"kind"`
	Order   int       `json:"order"`
	Enabled bool      `json:"enabled"`
	Locked  bool      `json:"locked"`
	Muted   bool      `json:"muted"`
	Volume  float64   `json:"volume"`
	Opacity float64   `json:"opacity"`
	Clips   []Clip    `json:"clips"`
}

// SortClips restores the ordered-by-start-time invariant.
func (t *Track) SortClips() {
	sort.SliceStable(t.Clips, func(i, j int) bool {
		return t.Clips[i].TimelineStart < t.Clips[j].TimelineStart
	})
}

// ClipIndex returns the position of a clip by id, or -1.
func (t *Track) ClipIndex(clipID string) int {
	for i := range t.Clips {
		if t.Clips[i].ID == clipID {
			return i
		}
	}
	return -1
}

// Timeline is the top-level edit project.
type Timeline struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Duration float64  `json:"duration"`
	Tracks   []Track  `json:"tracks"`
	Settings Settings `json:"settings"`
}

// NewTimeline constructs an empty timeline with a fresh identifier.
func NewTimeline(name string, settings Settings) *Timeline {
	return &Timeline{
		ID:       NewID(),
		Name:     name,
		Settings: settings,
	}
}

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// NewTrack constructs an enabled track at unity volume and opacity. Callers
// that need a muted or transparent track set those fields afterwards.
func NewTrack(name string, kind TrackKind) Track {
	return Track{
		ID:      NewID(),
		Name:    name,
		Kind:    kind,
		Enabled: true,
		Volume:  1,
		Opacity: 1,
	}
}

// AddTrack appends a track, assigning the next display order. A track id
// collision is a structural error.
func (tl *Timeline) AddTrack(track Track) error {
	if track.ID == "" {
		track.ID = NewID()
	}
	for i := range tl.Tracks {
		if tl.Tracks[i].ID == track.ID {
			return fmt.Errorf("track id %s already present", track.ID)
		}
	}
	track.Order = len(tl.Tracks)
	tl.Tracks = append(tl.Tracks, track)
	return nil
}

// RemoveTrack deletes a track by id and renumbers the remaining tracks so
// display orders stay contiguous. It reports whether a track was removed.
func (tl *Timeline) RemoveTrack(trackID string) bool {
	idx := -1
	for i := range tl.Tracks {
		if tl.Tracks[i].ID == trackID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	tl.Tracks = append(tl.Tracks[:idx], tl.Tracks[idx+1:]...)
	for i := range tl.Tracks {
		tl.Tracks[i].Order = i
	}
	tl.RecomputeDuration()
	return true
}

// TrackByID returns the track with the given id, or nil.
func (tl *Timeline) TrackByID(trackID string) *Track {
	for i := range tl.Tracks {
		if tl.Tracks[i].ID == trackID {
			return &tl.Tracks[i]
		}
	}
	return nil
}

// RecomputeDuration refreshes the derived total duration: the maximum clip
// end time across enabled tracks. Call after any clip end time changes.
func (tl *Timeline) RecomputeDuration() {
	duration := 0.0
	for i := range tl.Tracks {
		track := &tl.Tracks[i]
		if !track.Enabled {
			continue
		}
		for j := range track.Clips {
			if end := track.Clips[j].End(); end > duration {
				duration = end
			}
		}
	}
	tl.Duration = duration
}
