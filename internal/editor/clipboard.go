package editor

import (
	"cutroom/internal/history"
	"cutroom/internal/timeline"
)

type clipboardEntry struct {
	trackID string
	clip    timeline.Clip
}

type clipboard struct {
	entries []clipboardEntry
	// anchor is the earliest timeline start among copied clips; paste
	// preserves each clip's offset from it.
	anchor float64
}

// CopyClips snapshots the named clips (or the current selection when no
// ids are given) together with their owning tracks. The snapshot is
// independent of later edits.
func (e *Editor) CopyClips(clipIDs ...string) int {
	if len(clipIDs) == 0 {
		clipIDs = make([]string, 0, len(e.selection))
		for id := range e.selection {
			clipIDs = append(clipIDs, id)
		}
	}

	wanted := make(map[string]struct{}, len(clipIDs))
	for _, id := range clipIDs {
		wanted[id] = struct{}{}
	}

	entries := make([]clipboardEntry, 0, len(wanted))
	anchor := 0.0
	for i := range e.tl.Tracks {
		track := &e.tl.Tracks[i]
		for j := range track.Clips {
			if _, ok := wanted[track.Clips[j].ID]; !ok {
				continue
			}
			clip := track.Clips[j].Clone()
			if len(entries) == 0 || clip.TimelineStart < anchor {
				anchor = clip.TimelineStart
			}
			entries = append(entries, clipboardEntry{trackID: track.ID, clip: clip})
		}
	}

	e.clipboard = clipboard{entries: entries, anchor: anchor}
	return len(entries)
}

// PasteClips materializes the clipboard at targetTime. Each pasted clip
// gets fresh clip and effect ids and lands on its originating track,
// keeping relative offsets among the pasted clips. Clips whose originating
// track no longer exists are skipped. Returns the pasted clips; an empty
// clipboard pastes nothing and records nothing.
func (e *Editor) PasteClips(targetTime float64) []timeline.Clip {
	if len(e.clipboard.entries) == 0 {
		return nil
	}
	targetTime = e.placeTime(targetTime)

	changes := make(map[string]*history.ClipChange)
	var pasted []timeline.Clip
	for _, entry := range e.clipboard.entries {
		track := e.tl.TrackByID(entry.trackID)
		if track == nil {
			continue
		}
		clip := entry.clip.Clone()
		clip.ID = timeline.NewID()
		for i := range clip.Effects {
			clip.Effects[i].ID = timeline.NewID()
		}
		clip.TimelineStart = targetTime + (entry.clip.TimelineStart - e.clipboard.anchor)

		track.Clips = append(track.Clips, clip)
		track.SortClips()
		pasted = append(pasted, clip)

		change, ok := changes[track.ID]
		if !ok {
			change = &history.ClipChange{TrackID: track.ID}
			changes[track.ID] = change
		}
		change.After = append(change.After, clip.Clone())
	}
	if len(pasted) == 0 {
		return nil
	}

	rec := history.NewRecord(history.ClipPaste)
	for _, change := range changes {
		rec.Clips = append(rec.Clips, *change)
	}
	e.record(rec)
	return pasted
}
