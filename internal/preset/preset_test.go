package preset_test

import (
	"errors"
	"strings"
	"testing"

	"cutroom/internal/preset"
	"cutroom/internal/services"
	"cutroom/internal/timeline"
)

func buildTimeline(duration float64) *timeline.Timeline {
	tl := timeline.NewTimeline("test", timeline.Settings{FrameRate: 30, Width: 1920, Height: 1080, SampleRate: 48000})
	track := timeline.Track{
		ID:      timeline.NewID(),
		Name:    "V1",
		Kind:    timeline.KindVideo,
		Enabled: true,
		Volume:  1,
		Opacity: 1,
		Clips: []timeline.Clip{{
			ID:          timeline.NewID(),
			SourceStart: 0,
			SourceEnd:   duration,
			Duration:    duration,
			Enabled:     true,
			Volume:      1,
			Opacity:     1,
		}},
	}
	_ = tl.AddTrack(track)
	tl.RecomputeDuration()
	return tl
}

func TestCatalogLookupAndRegister(t *testing.T) {
	cat := preset.NewCatalog()
	if _, ok := cat.Lookup("youtube"); !ok {
		t.Fatal("expected youtube builtin")
	}
	if _, ok := cat.Lookup("nope"); ok {
		t.Fatal("unexpected preset")
	}

	custom := preset.Preset{Name: "intranet", Platform: "Internal"}
	if err := cat.Register(custom); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := cat.Register(custom); err == nil {
		t.Fatal("duplicate registration must fail")
	}
	if err := cat.Register(preset.Preset{}); err == nil {
		t.Fatal("empty name must fail")
	}

	all := cat.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Name >= all[i].Name {
			t.Fatalf("All() must be sorted by name: %v", all)
		}
	}
}

func TestQualityTierMapping(t *testing.T) {
	cases := map[preset.QualityTier]int{
		preset.QualityLow:      28,
		preset.QualityMedium:   23,
		preset.QualityHigh:     18,
		preset.QualityLossless: 0,
		"mystery":              23,
	}
	for tier, want := range cases {
		if got := tier.CRF(); got != want {
			t.Fatalf("CRF(%s) = %d, want %d", tier, got, want)
		}
	}
}

func TestValidateDurationLimit(t *testing.T) {
	tl := buildTimeline(65)
	p := preset.Preset{Name: "clip", MaxDuration: 60, Options: preset.MediaProcessingOptions{Width: 1920, Height: 1080}}

	result := preset.Validate(tl, p)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one duration error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "duration") {
		t.Fatalf("unexpected error text %q", result.Errors[0])
	}
	if err := result.Err(); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}

	tl = buildTimeline(60)
	if result := preset.Validate(tl, p); !result.Valid {
		t.Fatalf("duration at the limit should pass, got %v", result.Errors)
	}
}

func TestValidateWarnings(t *testing.T) {
	tl := buildTimeline(10)

	empty := timeline.Track{ID: timeline.NewID(), Name: "A1", Kind: timeline.KindAudio, Enabled: true, Volume: 1, Opacity: 1}
	if err := tl.AddTrack(empty); err != nil {
		t.Fatal(err)
	}

	video := tl.TrackByID(tl.Tracks[0].ID)
	video.Clips = append(video.Clips, timeline.Clip{
		ID:            timeline.NewID(),
		SourceStart:   0,
		SourceEnd:     5,
		TimelineStart: 5,
		Duration:      5,
		Enabled:       true,
		Volume:        1,
		Opacity:       1,
	})
	video.Clips = append(video.Clips, timeline.Clip{
		ID:            timeline.NewID(),
		SourceStart:   0,
		SourceEnd:     5,
		TimelineStart: 7,
		Duration:      5,
		Enabled:       true,
		Volume:        1,
		Opacity:       1,
	})
	tl.RecomputeDuration()

	vertical := preset.Preset{Name: "vertical", Options: preset.MediaProcessingOptions{Width: 1080, Height: 1920}}
	result := preset.Validate(tl, vertical)
	if !result.Valid {
		t.Fatalf("warnings must not invalidate: %v", result.Errors)
	}
	var sawEmpty, sawOverlap, sawAspect bool
	for _, w := range result.Warnings {
		switch {
		case strings.Contains(w, "no clips"):
			sawEmpty = true
		case strings.Contains(w, "overlapping"):
			sawOverlap = true
		case strings.Contains(w, "aspect ratio"):
			sawAspect = true
		}
	}
	if !sawEmpty || !sawOverlap || !sawAspect {
		t.Fatalf("missing expected warnings: %v", result.Warnings)
	}
	if result.Err() != nil {
		t.Fatal("valid result must yield nil error")
	}
}

func TestValidateTextOverlapsAllowed(t *testing.T) {
	tl := buildTimeline(10)
	text := timeline.Track{
		ID:      timeline.NewID(),
		Name:    "T1",
		Kind:    timeline.KindText,
		Enabled: true,
		Volume:  1,
		Opacity: 1,
		Clips: []timeline.Clip{
			{ID: timeline.NewID(), SourceEnd: 5, Duration: 5, Enabled: true, Volume: 1, Opacity: 1},
			{ID: timeline.NewID(), SourceEnd: 5, Duration: 5, TimelineStart: 2, Enabled: true, Volume: 1, Opacity: 1},
		},
	}
	if err := tl.AddTrack(text); err != nil {
		t.Fatal(err)
	}

	p := preset.Preset{Name: "wide", Options: preset.MediaProcessingOptions{Width: 1920, Height: 1080}}
	result := preset.Validate(tl, p)
	for _, w := range result.Warnings {
		if strings.Contains(w, "overlapping") {
			t.Fatalf("text overlay overlap should not warn: %v", result.Warnings)
		}
	}
}

func TestEstimateFileSize(t *testing.T) {
	tl := buildTimeline(10)

	defaulted := preset.Preset{Name: "d"}
	// (4000 + 128) kbps * 10s / 8 = 5160000 bytes.
	if got := preset.EstimateFileSize(tl, defaulted); got != 5160000 {
		t.Fatalf("default estimate = %d, want 5160000", got)
	}

	explicit := preset.Preset{Name: "e", Options: preset.MediaProcessingOptions{VideoBitrateKbps: 1000, AudioBitrateKbps: 100}}
	if got := preset.EstimateFileSize(tl, explicit); got != 1375000 {
		t.Fatalf("explicit estimate = %d, want 1375000", got)
	}
}

func TestValidateFileSizeWarning(t *testing.T) {
	tl := buildTimeline(100)
	small := preset.Preset{Name: "s", MaxFileSize: 1000, Options: preset.MediaProcessingOptions{Width: 1920, Height: 1080}}
	result := preset.Validate(tl, small)
	if !result.Valid {
		t.Fatal("size estimate must never reject an export")
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "estimated output size") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected size warning, got %v", result.Warnings)
	}
}
