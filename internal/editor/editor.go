package editor

import (
	"log/slog"

	"cutroom/internal/history"
	"cutroom/internal/logging"
	"cutroom/internal/timecode"
	"cutroom/internal/timeline"
)

// Options configures editor behavior.
type Options struct {
	// HistoryCapacity bounds the undo log; zero uses history.DefaultCapacity.
	HistoryCapacity int
	// SnapToFrames quantizes clip placement to frame boundaries.
	SnapToFrames bool
	Logger       *slog.Logger
}

// Editor owns one edit session over a timeline.
type Editor struct {
	tl        *timeline.Timeline
	log       *history.Log
	logger    *slog.Logger
	snap      bool
	selection map[string]struct{}
	clipboard clipboard
}

// New constructs an editor over the given timeline.
func New(tl *timeline.Timeline, opts Options) *Editor {
	return &Editor{
		tl:        tl,
		log:       history.NewLog(opts.HistoryCapacity),
		logger:    logging.NewComponentLogger(opts.Logger, "editor"),
		snap:      opts.SnapToFrames,
		selection: make(map[string]struct{}),
	}
}

// Timeline returns the timeline under edit.
func (e *Editor) Timeline() *timeline.Timeline { return e.tl }

// History exposes the action log for inspection.
func (e *Editor) History() *history.Log { return e.log }

// Select marks clips as selected; selection feeds CopyClips and is pruned
// by deletions.
func (e *Editor) Select(clipIDs ...string) {
	for _, id := range clipIDs {
		e.selection[id] = struct{}{}
	}
}

// ClearSelection resets the selection.
func (e *Editor) ClearSelection() {
	e.selection = make(map[string]struct{})
}

// Selected reports whether a clip id is currently selected.
func (e *Editor) Selected(clipID string) bool {
	_, ok := e.selection[clipID]
	return ok
}

// Undo reverses the most recent action. It reports whether anything was
// undone.
func (e *Editor) Undo() bool {
	record, ok := e.log.Undo()
	if !ok {
		return false
	}
	e.applyRecord(record, true)
	e.logger.Debug("action undone", logging.String("kind", string(record.Kind)))
	return true
}

// Redo re-applies the most recently undone action.
func (e *Editor) Redo() bool {
	record, ok := e.log.Redo()
	if !ok {
		return false
	}
	e.applyRecord(record, false)
	e.logger.Debug("action redone", logging.String("kind", string(record.Kind)))
	return true
}

// applyRecord replays a history record. With inverse set, the After
// snapshots are removed and the Before snapshots restored; otherwise the
// opposite.
func (e *Editor) applyRecord(record history.Record, inverse bool) {
	for _, change := range record.Clips {
		remove, restore := change.After, change.Before
		if !inverse {
			remove, restore = change.Before, change.After
		}
		track := e.tl.TrackByID(change.TrackID)
		if track == nil {
			continue
		}
		for _, clip := range remove {
			if idx := track.ClipIndex(clip.ID); idx >= 0 {
				track.Clips = append(track.Clips[:idx], track.Clips[idx+1:]...)
			}
		}
		for _, clip := range restore {
			track.Clips = append(track.Clips, clip.Clone())
		}
		track.SortClips()
	}
	for _, change := range record.Tracks {
		remove, restore := change.After, change.Before
		if !inverse {
			remove, restore = change.Before, change.After
		}
		switch {
		case remove != nil && restore != nil:
			// In-place update keeps the track's slice position and the
			// contiguous display orders of its neighbors.
			if track := e.tl.TrackByID(remove.ID); track != nil {
				snapshot := cloneTrack(restore)
				snapshot.Order = track.Order
				*track = snapshot
			}
		case remove != nil:
			e.tl.RemoveTrack(remove.ID)
		case restore != nil:
			e.insertTrackAt(cloneTrack(restore))
		}
	}
	e.tl.RecomputeDuration()
}

// insertTrackAt reinserts a track snapshot at its recorded display order
// and renumbers all tracks so orders stay contiguous.
func (e *Editor) insertTrackAt(snapshot timeline.Track) {
	idx := snapshot.Order
	if idx < 0 {
		idx = 0
	}
	if idx > len(e.tl.Tracks) {
		idx = len(e.tl.Tracks)
	}
	e.tl.Tracks = append(e.tl.Tracks, timeline.Track{})
	copy(e.tl.Tracks[idx+1:], e.tl.Tracks[idx:])
	e.tl.Tracks[idx] = snapshot
	for i := range e.tl.Tracks {
		e.tl.Tracks[i].Order = i
	}
}

// cloneTrack copies a snapshot so the restored track does not alias the
// history record's clip slice.
func cloneTrack(snapshot *timeline.Track) timeline.Track {
	out := *snapshot
	out.Clips = make([]timeline.Clip, len(snapshot.Clips))
	for i := range snapshot.Clips {
		out.Clips[i] = snapshot.Clips[i].Clone()
	}
	return out
}

// placeTime applies frame snapping to a timeline position when enabled.
func (e *Editor) placeTime(t float64) float64 {
	if !e.snap || e.tl.Settings.FrameRate <= 0 {
		return t
	}
	return timecode.SnapToFrame(t, e.tl.Settings.FrameRate)
}

func (e *Editor) record(rec history.Record) {
	e.log.Append(rec)
	e.tl.RecomputeDuration()
}
