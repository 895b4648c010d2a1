package timeline_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"cutroom/internal/timeline"
)

func videoTrack(clips ...timeline.Clip) timeline.Track {
	return timeline.Track{
		ID:      timeline.NewID(),
		Name:    "V1",
		Kind:    timeline.KindVideo,
		Enabled: true,
		Volume:  1,
		Opacity: 1,
		Clips:   clips,
	}
}

func clipAt(start, duration float64) timeline.Clip {
	return timeline.Clip{
		ID:            timeline.NewID(),
		SourceStart:   0,
		SourceEnd:     duration,
		TimelineStart: start,
		Duration:      duration,
		Enabled:       true,
		Volume:        1,
		Opacity:       1,
	}
}

func TestAddTrackRejectsIDCollision(t *testing.T) {
	tl := timeline.NewTimeline("test", timeline.Settings{FrameRate: 30})
	track := videoTrack()
	if err := tl.AddTrack(track); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := tl.AddTrack(track); err == nil {
		t.Fatal("expected collision error")
	}
}

func TestAddTrackAssignsContiguousOrder(t *testing.T) {
	tl := timeline.NewTimeline("test", timeline.Settings{FrameRate: 30})
	for i := 0; i < 3; i++ {
		if err := tl.AddTrack(videoTrack()); err != nil {
			t.Fatalf("add track %d: %v", i, err)
		}
	}
	for i, track := range tl.Tracks {
		if track.Order != i {
			t.Fatalf("track %d has order %d", i, track.Order)
		}
	}

	tl.RemoveTrack(tl.Tracks[1].ID)
	for i, track := range tl.Tracks {
		if track.Order != i {
			t.Fatalf("after remove, track %d has order %d", i, track.Order)
		}
	}
}

func TestRecomputeDurationSkipsDisabledTracks(t *testing.T) {
	tl := timeline.NewTimeline("test", timeline.Settings{FrameRate: 30})
	enabled := videoTrack(clipAt(0, 10))
	disabled := videoTrack(clipAt(0, 99))
	disabled.Enabled = false
	if err := tl.AddTrack(enabled); err != nil {
		t.Fatal(err)
	}
	if err := tl.AddTrack(disabled); err != nil {
		t.Fatal(err)
	}

	tl.RecomputeDuration()
	if tl.Duration != 10 {
		t.Fatalf("expected duration 10, got %v", tl.Duration)
	}
}

func TestFindClipAtUsesHalfOpenInterval(t *testing.T) {
	first := clipAt(0, 4)
	second := clipAt(4, 6)
	clips := []timeline.Clip{first, second}

	if got, ok := timeline.FindClipAt(clips, 3.99); !ok || got.ID != first.ID {
		t.Fatalf("expected first clip at 3.99, got %v ok=%v", got.ID, ok)
	}
	if got, ok := timeline.FindClipAt(clips, 4); !ok || got.ID != second.ID {
		t.Fatalf("expected second clip at boundary, got %v ok=%v", got.ID, ok)
	}
	if _, ok := timeline.FindClipAt(clips, 10); ok {
		t.Fatal("expected no clip past the end")
	}
}

func TestFindClipAtFirstMatchWinsOnOverlap(t *testing.T) {
	first := clipAt(0, 5)
	overlapping := clipAt(3, 5)
	clips := []timeline.Clip{first, overlapping}
	if got, _ := timeline.FindClipAt(clips, 4); got.ID != first.ID {
		t.Fatalf("expected start-order tie-break toward first clip, got %v", got.ID)
	}
}

func TestFindOverlaps(t *testing.T) {
	track := videoTrack(clipAt(0, 5), clipAt(3, 5), clipAt(10, 2))
	overlaps := timeline.FindOverlaps(&track)
	if len(overlaps) != 1 {
		t.Fatalf("expected one overlap, got %d", len(overlaps))
	}
	if overlaps[0].FirstID != track.Clips[0].ID || overlaps[0].OtherID != track.Clips[1].ID {
		t.Fatalf("unexpected overlap pair %+v", overlaps[0])
	}

	clean := videoTrack(clipAt(0, 5), clipAt(5, 5))
	if got := timeline.FindOverlaps(&clean); got != nil {
		t.Fatalf("adjacent clips should not overlap, got %+v", got)
	}
}

func TestFindOverlapsWithSpanningClip(t *testing.T) {
	track := videoTrack(clipAt(0, 100), clipAt(10, 10), clipAt(30, 10))
	long := track.Clips[0].ID
	mid := track.Clips[1].ID
	late := track.Clips[2].ID

	overlaps := timeline.FindOverlaps(&track)
	if len(overlaps) != 2 {
		t.Fatalf("expected two overlaps against the spanning clip, got %+v", overlaps)
	}
	for _, o := range overlaps {
		if o.FirstID != long {
			t.Fatalf("overlap not attributed to the spanning clip: %+v", o)
		}
	}
	if overlaps[0].OtherID != mid || overlaps[1].OtherID != late {
		t.Fatalf("unexpected overlap partners: %+v", overlaps)
	}
}

func TestNewTrackDefaults(t *testing.T) {
	track := timeline.NewTrack("V1", timeline.KindVideo)
	if track.ID == "" {
		t.Fatal("expected fresh id")
	}
	if !track.Enabled || track.Volume != 1 || track.Opacity != 1 {
		t.Fatalf("unexpected defaults: %+v", track)
	}
}

func TestTrackKindOverlapPolicy(t *testing.T) {
	if timeline.KindVideo.AllowsOverlap() || timeline.KindAudio.AllowsOverlap() {
		t.Fatal("video and audio tracks must be exclusive lanes")
	}
	if !timeline.KindText.AllowsOverlap() {
		t.Fatal("text tracks are overlay lanes")
	}
}

func TestEffectJSONRoundTrip(t *testing.T) {
	effects := []timeline.Effect{
		{
			ID:      timeline.NewID(),
			Type:    timeline.EffectFade,
			Params:  timeline.FadeParams{Direction: "in", Duration: 1.5},
			Enabled: true,
			Order:   0,
		},
		{
			ID:      timeline.NewID(),
			Type:    timeline.EffectColorCorrect,
			Params:  timeline.ColorCorrectParams{Brightness: 0.1, Contrast: 1.2, Saturation: 0.9},
			Window:  &timeline.Window{Start: 1, End: 3},
			Enabled: true,
			Order:   1,
		},
	}

	data, err := json.Marshal(effects)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded []timeline.Effect
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(effects, decoded) {
		t.Fatalf("round trip changed effects:\n%+v\n%+v", effects, decoded)
	}
}

func TestUnknownEffectTypeRoundTripsAsRaw(t *testing.T) {
	blob := `{"id":"x","type":"motion-blur","params":{"radius":4,"mode":"gaussian"},"enabled":true,"order":2}`
	var effect timeline.Effect
	if err := json.Unmarshal([]byte(blob), &effect); err != nil {
		t.Fatalf("unmarshal unknown type: %v", err)
	}
	raw, ok := effect.Params.(timeline.RawParams)
	if !ok {
		t.Fatalf("expected RawParams fallback, got %T", effect.Params)
	}
	if raw["mode"] != "gaussian" {
		t.Fatalf("payload lost in fallback: %v", raw)
	}

	out, err := json.Marshal(effect)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again timeline.Effect
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("second unmarshal: %v", err)
	}
	if !reflect.DeepEqual(effect, again) {
		t.Fatalf("unknown effect did not survive round trip")
	}
}

func TestSortEffectsIsStable(t *testing.T) {
	effects := []timeline.Effect{
		{ID: "c", Order: 1},
		{ID: "a", Order: 0},
		{ID: "b", Order: 1},
	}
	timeline.SortEffects(effects)
	got := []string{effects[0].ID, effects[1].ID, effects[2].ID}
	want := []string{"a", "c", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected stable order %v, got %v", want, got)
	}
}

func TestTimelineJSONRoundTrip(t *testing.T) {
	tl := timeline.NewTimeline("promo", timeline.Settings{FrameRate: 30, Width: 1920, Height: 1080, SampleRate: 48000})
	track := videoTrack(clipAt(0, 10))
	track.Clips[0].Effects = []timeline.Effect{{
		ID:      timeline.NewID(),
		Type:    timeline.EffectFade,
		Params:  timeline.FadeParams{Direction: "out", Duration: 2},
		Enabled: true,
	}}
	if err := tl.AddTrack(track); err != nil {
		t.Fatal(err)
	}
	tl.RecomputeDuration()

	data, err := json.Marshal(tl)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded timeline.Timeline
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(*tl, decoded) {
		t.Fatal("timeline did not survive JSON round trip")
	}
}
