package editor

import (
	"cutroom/internal/history"
	"cutroom/internal/services"
	"cutroom/internal/timeline"
)

// AddTrack appends a track to the timeline. The track is stored as given;
// timeline.NewTrack supplies the usual enabled unity-gain defaults, and an
// explicit zero volume or opacity is preserved.
func (e *Editor) AddTrack(track timeline.Track) (timeline.Track, error) {
	if err := e.tl.AddTrack(track); err != nil {
		return timeline.Track{}, services.Wrap(services.ErrInvalidRange, "editor", "add track", err.Error(), nil)
	}
	added := e.tl.Tracks[len(e.tl.Tracks)-1]

	rec := history.NewRecord(history.TrackAdd)
	snapshot := added
	rec.Tracks = []history.TrackChange{{After: &snapshot}}
	e.record(rec)
	return added, nil
}

// TrackPatch describes a partial track update; nil fields are unchanged.
type TrackPatch struct {
	Name    *string
	Muted   *bool
	Locked  *bool
	Volume  *float64
	Opacity *float64
}

// UpdateTrack merges patch fields into an existing track.
func (e *Editor) UpdateTrack(trackID string, patch TrackPatch) (timeline.Track, error) {
	track := e.tl.TrackByID(trackID)
	if track == nil {
		return timeline.Track{}, services.Wrap(services.ErrNotFound, "editor", "update track", "track "+trackID, nil)
	}

	before := *track
	before.Clips = append([]timeline.Clip(nil), track.Clips...)

	if patch.Name != nil {
		track.Name = *patch.Name
	}
	if patch.Muted != nil {
		track.Muted = *patch.Muted
	}
	if patch.Locked != nil {
		track.Locked = *patch.Locked
	}
	if patch.Volume != nil {
		if *patch.Volume < 0 {
			return timeline.Track{}, services.Wrap(services.ErrInvalidRange, "editor", "update track", "volume must not be negative", nil)
		}
		track.Volume = *patch.Volume
	}
	if patch.Opacity != nil {
		if *patch.Opacity < 0 || *patch.Opacity > 1 {
			return timeline.Track{}, services.Wrap(services.ErrInvalidRange, "editor", "update track", "opacity must be within [0,1]", nil)
		}
		track.Opacity = *patch.Opacity
	}

	after := *track
	after.Clips = append([]timeline.Clip(nil), track.Clips...)
	rec := history.NewRecord(history.TrackUpdate)
	rec.Tracks = []history.TrackChange{{Before: &before, After: &after}}
	e.record(rec)
	return after, nil
}

// ToggleTrack flips a track's enabled flag, which also changes the derived
// timeline duration.
func (e *Editor) ToggleTrack(trackID string) (timeline.Track, error) {
	track := e.tl.TrackByID(trackID)
	if track == nil {
		return timeline.Track{}, services.Wrap(services.ErrNotFound, "editor", "toggle track", "track "+trackID, nil)
	}

	before := *track
	before.Clips = append([]timeline.Clip(nil), track.Clips...)
	track.Enabled = !track.Enabled
	after := *track
	after.Clips = append([]timeline.Clip(nil), track.Clips...)

	rec := history.NewRecord(history.TrackToggle)
	rec.Tracks = []history.TrackChange{{Before: &before, After: &after}}
	e.record(rec)
	return after, nil
}

// DeleteTrack removes a track and all of its clips. Deleting an absent
// track is a silent no-op with no history entry, mirroring clip deletion.
func (e *Editor) DeleteTrack(trackID string) {
	track := e.tl.TrackByID(trackID)
	if track == nil {
		return
	}

	snapshot := *track
	snapshot.Clips = append([]timeline.Clip(nil), track.Clips...)
	for _, clip := range snapshot.Clips {
		delete(e.selection, clip.ID)
	}
	e.tl.RemoveTrack(trackID)

	rec := history.NewRecord(history.TrackDelete)
	rec.Tracks = []history.TrackChange{{Before: &snapshot}}
	e.record(rec)
}
