package timeline

// Clip is a bounded reference into source media placed at a point in the
// timeline. SourceStart and SourceEnd are offsets into the originating
// media; Duration equals SourceEnd-SourceStart for unstretched clips.
type Clip struct {
	ID            string   `json:"id"`
	Name          string   `json:"name,omitempty"`
	SourceStart   float64  `json:"sourceStart"`
	SourceEnd     float64  `json:"sourceEnd"`
	TimelineStart float64  `json:"timelineStart"`
	Duration      float64  `json:"duration"`
	Enabled       bool     `json:"enabled"`
	Locked        bool     `json:"locked"`
	Volume        float64  `json:"volume"`
	Opacity       float64  `json:"opacity"`
	Effects       []Effect `json:"effects,omitempty"`
}

// End returns the clip's end time in timeline space.
func (c Clip) End() float64 {
	return c.TimelineStart + c.Duration
}

// Contains reports whether a timeline position falls inside the clip's
// half-open interval [TimelineStart, End).
func (c Clip) Contains(time float64) bool {
	return time >= c.TimelineStart && time < c.End()
}

// SourceDuration returns the length of the referenced source range.
func (c Clip) SourceDuration() float64 {
	return c.SourceEnd - c.SourceStart
}

// Clone returns a deep copy, including effects.
func (c Clip) Clone() Clip {
	out := c
	if len(c.Effects) > 0 {
		out.Effects = make([]Effect, len(c.Effects))
		copy(out.Effects, c.Effects)
	}
	return out
}

// FindClipAt returns the clip whose interval contains the given time. When
// clips overlap, the first match in start-time order wins.
func FindClipAt(clips []Clip, time float64) (Clip, bool) {
	for i := range clips {
		if clips[i].Contains(time) {
			return clips[i], true
		}
	}
	return Clip{}, false
}

// Overlap describes a pair of clips on one track occupying the same
// timeline range.
type Overlap struct {
	TrackID string `json:"trackId"`
	FirstID string `json:"firstId"`
	OtherID string `json:"otherId"`
}

// FindOverlaps scans a track's clips in start-time order and returns the
// conflicting pairs. Each clip is checked against its immediate predecessor
// and against the furthest-reaching earlier clip, so a long clip spanning
// several later ones conflicts with each of them. Detection is
// unconditional; whether an overlap is acceptable depends on the track
// kind.
func FindOverlaps(track *Track) []Overlap {
	if track == nil || len(track.Clips) < 2 {
		return nil
	}
	track.SortClips()
	var overlaps []Overlap
	reach := 0
	for i := 1; i < len(track.Clips); i++ {
		current := track.Clips[i]
		prev := track.Clips[i-1]
		if current.TimelineStart < prev.End() {
			overlaps = append(overlaps, Overlap{
				TrackID: track.ID,
				FirstID: prev.ID,
				OtherID: current.ID,
			})
		}
		furthest := track.Clips[reach]
		if reach != i-1 && current.TimelineStart < furthest.End() {
			overlaps = append(overlaps, Overlap{
				TrackID: track.ID,
				FirstID: furthest.ID,
				OtherID: current.ID,
			})
		}
		if current.End() > track.Clips[reach].End() {
			reach = i
		}
	}
	return overlaps
}
