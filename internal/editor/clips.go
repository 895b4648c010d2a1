package editor

import (
	"cutroom/internal/history"
	"cutroom/internal/logging"
	"cutroom/internal/services"
	"cutroom/internal/timeline"
)

// AddClip places a new clip on a track, assigning a fresh id. It fails
// with a not-found error when the track is absent and an invalid-range
// error when the duration or source range is malformed.
func (e *Editor) AddClip(trackID string, clip timeline.Clip) (timeline.Clip, error) {
	track := e.tl.TrackByID(trackID)
	if track == nil {
		return timeline.Clip{}, services.Wrap(services.ErrNotFound, "editor", "add clip", "track "+trackID, nil)
	}
	if clip.Duration <= 0 {
		return timeline.Clip{}, services.Wrap(services.ErrInvalidRange, "editor", "add clip", "duration must be positive", nil)
	}
	if clip.SourceEnd < clip.SourceStart {
		return timeline.Clip{}, services.Wrap(services.ErrInvalidRange, "editor", "add clip", "source end precedes source start", nil)
	}

	clip.ID = timeline.NewID()
	clip.TimelineStart = e.placeTime(clip.TimelineStart)
	track.Clips = append(track.Clips, clip)
	track.SortClips()

	rec := history.NewRecord(history.ClipAdd)
	rec.Clips = []history.ClipChange{{TrackID: trackID, After: []timeline.Clip{clip.Clone()}}}
	e.record(rec)

	e.logger.Debug("clip added",
		logging.String(logging.FieldTrackID, trackID),
		logging.String(logging.FieldClipID, clip.ID),
		logging.Float64("timeline_start", clip.TimelineStart),
	)
	return clip, nil
}

// ClipPatch describes a partial clip update; nil fields are left unchanged.
type ClipPatch struct {
	Name          *string
	SourceStart   *float64
	SourceEnd     *float64
	TimelineStart *float64
	Duration      *float64
	Enabled       *bool
	Locked        *bool
	Volume        *float64
	Opacity       *float64
	Effects       []timeline.Effect
}

// UpdateClip merges patch fields into an existing clip and re-validates
// duration consistency. When the patch moves the source range without an
// explicit duration, the duration is re-derived from the source range.
func (e *Editor) UpdateClip(trackID, clipID string, patch ClipPatch) (timeline.Clip, error) {
	track := e.tl.TrackByID(trackID)
	if track == nil {
		return timeline.Clip{}, services.Wrap(services.ErrNotFound, "editor", "update clip", "track "+trackID, nil)
	}
	idx := track.ClipIndex(clipID)
	if idx < 0 {
		return timeline.Clip{}, services.Wrap(services.ErrNotFound, "editor", "update clip", "clip "+clipID, nil)
	}

	before := track.Clips[idx].Clone()
	updated := before.Clone()
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.SourceStart != nil {
		updated.SourceStart = *patch.SourceStart
	}
	if patch.SourceEnd != nil {
		updated.SourceEnd = *patch.SourceEnd
	}
	if patch.TimelineStart != nil {
		updated.TimelineStart = e.placeTime(*patch.TimelineStart)
	}
	switch {
	case patch.Duration != nil:
		updated.Duration = *patch.Duration
	case patch.SourceStart != nil || patch.SourceEnd != nil:
		updated.Duration = updated.SourceDuration()
	}
	if patch.Enabled != nil {
		updated.Enabled = *patch.Enabled
	}
	if patch.Locked != nil {
		updated.Locked = *patch.Locked
	}
	if patch.Volume != nil {
		updated.Volume = *patch.Volume
	}
	if patch.Opacity != nil {
		updated.Opacity = *patch.Opacity
	}
	if patch.Effects != nil {
		updated.Effects = append([]timeline.Effect(nil), patch.Effects...)
		timeline.SortEffects(updated.Effects)
	}

	if updated.Duration <= 0 {
		return timeline.Clip{}, services.Wrap(services.ErrInvalidRange, "editor", "update clip", "duration must be positive", nil)
	}
	if updated.SourceEnd < updated.SourceStart {
		return timeline.Clip{}, services.Wrap(services.ErrInvalidRange, "editor", "update clip", "source end precedes source start", nil)
	}

	track.Clips[idx] = updated
	track.SortClips()

	rec := history.NewRecord(history.ClipUpdate)
	rec.Clips = []history.ClipChange{{
		TrackID: trackID,
		Before:  []timeline.Clip{before},
		After:   []timeline.Clip{updated.Clone()},
	}}
	e.record(rec)
	return updated, nil
}

// DeleteClip removes a clip and drops it from the active selection.
// Deleting an absent clip is a silent no-op with no history entry; this is
// a deliberate idempotence guarantee.
func (e *Editor) DeleteClip(trackID, clipID string) {
	track := e.tl.TrackByID(trackID)
	if track == nil {
		return
	}
	idx := track.ClipIndex(clipID)
	if idx < 0 {
		return
	}

	removed := track.Clips[idx].Clone()
	track.Clips = append(track.Clips[:idx], track.Clips[idx+1:]...)
	delete(e.selection, clipID)

	rec := history.NewRecord(history.ClipDelete)
	rec.Clips = []history.ClipChange{{TrackID: trackID, Before: []timeline.Clip{removed}}}
	e.record(rec)

	e.logger.Debug("clip deleted",
		logging.String(logging.FieldTrackID, trackID),
		logging.String(logging.FieldClipID, clipID),
	)
}

// SplitClip cuts a clip into two at splitTime. The split is valid only
// strictly inside the clip's interval; outside it the call is a silent
// no-op. The two resulting source ranges are contiguous extensions of the
// original, so no source material is lost.
func (e *Editor) SplitClip(trackID, clipID string, splitTime float64) ([]timeline.Clip, error) {
	track := e.tl.TrackByID(trackID)
	if track == nil {
		return nil, services.Wrap(services.ErrNotFound, "editor", "split clip", "track "+trackID, nil)
	}
	idx := track.ClipIndex(clipID)
	if idx < 0 {
		return nil, services.Wrap(services.ErrNotFound, "editor", "split clip", "clip "+clipID, nil)
	}

	original := track.Clips[idx].Clone()
	if splitTime <= original.TimelineStart || splitTime >= original.End() {
		return nil, nil
	}

	offset := splitTime - original.TimelineStart
	first := original.Clone()
	first.SourceEnd = original.SourceStart + offset
	first.Duration = offset

	second := original.Clone()
	second.ID = timeline.NewID()
	second.SourceStart = first.SourceEnd
	second.SourceEnd = original.SourceEnd
	second.TimelineStart = splitTime
	second.Duration = original.Duration - offset
	second.Effects = nil
	for _, effect := range original.Effects {
		copied := effect
		copied.ID = timeline.NewID()
		second.Effects = append(second.Effects, copied)
	}

	track.Clips[idx] = first
	track.Clips = append(track.Clips, second)
	track.SortClips()

	rec := history.NewRecord(history.ClipSplit)
	rec.Clips = []history.ClipChange{{
		TrackID: trackID,
		Before:  []timeline.Clip{original},
		After:   []timeline.Clip{first.Clone(), second.Clone()},
	}}
	e.record(rec)

	e.logger.Debug("clip split",
		logging.String(logging.FieldTrackID, trackID),
		logging.String(logging.FieldClipID, clipID),
		logging.Float64("split_time", splitTime),
	)
	return []timeline.Clip{first, second}, nil
}

// MergeClips replaces two clips on one track with a single clip spanning
// from the earlier start to the later end. The merged source range runs
// from the earlier clip's source start to the later clip's source end;
// when the inputs are not temporally adjacent the gap is bridged by the
// merged clip. Merging a clip with itself is a silent no-op.
func (e *Editor) MergeClips(trackID, firstID, secondID string) (timeline.Clip, error) {
	track := e.tl.TrackByID(trackID)
	if track == nil {
		return timeline.Clip{}, services.Wrap(services.ErrNotFound, "editor", "merge clips", "track "+trackID, nil)
	}
	firstIdx := track.ClipIndex(firstID)
	if firstIdx < 0 {
		return timeline.Clip{}, services.Wrap(services.ErrNotFound, "editor", "merge clips", "clip "+firstID, nil)
	}
	secondIdx := track.ClipIndex(secondID)
	if secondIdx < 0 {
		return timeline.Clip{}, services.Wrap(services.ErrNotFound, "editor", "merge clips", "clip "+secondID, nil)
	}
	if firstID == secondID {
		return track.Clips[firstIdx].Clone(), nil
	}

	earlier := track.Clips[firstIdx].Clone()
	later := track.Clips[secondIdx].Clone()
	if later.TimelineStart < earlier.TimelineStart {
		earlier, later = later, earlier
	}

	merged := earlier.Clone()
	merged.Duration = later.End() - earlier.TimelineStart
	merged.SourceEnd = later.SourceEnd
	merged.Effects = append(merged.Effects, later.Effects...)
	for i := range merged.Effects {
		merged.Effects[i].Order = i
	}

	remaining := make([]timeline.Clip, 0, len(track.Clips)-1)
	for i := range track.Clips {
		if track.Clips[i].ID == earlier.ID || track.Clips[i].ID == later.ID {
			continue
		}
		remaining = append(remaining, track.Clips[i])
	}
	track.Clips = append(remaining, merged)
	track.SortClips()
	delete(e.selection, later.ID)

	rec := history.NewRecord(history.ClipMerge)
	rec.Clips = []history.ClipChange{{
		TrackID: trackID,
		Before:  []timeline.Clip{earlier, later},
		After:   []timeline.Clip{merged.Clone()},
	}}
	e.record(rec)

	e.logger.Debug("clips merged",
		logging.String(logging.FieldTrackID, trackID),
		logging.String(logging.FieldClipID, merged.ID),
	)
	return merged, nil
}
