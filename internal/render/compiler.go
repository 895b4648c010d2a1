package render

import (
	"fmt"
	"strings"

	"cutroom/internal/preset"
	"cutroom/internal/services"
	"cutroom/internal/timeline"
)

// Compile turns a timeline and preset into a transcoding plan reading
// inputPath and writing outputPath. It fails only when the timeline has
// no enabled media clips; advisory conditions are the validator's job.
func Compile(tl *timeline.Timeline, p preset.Preset, inputPath, outputPath string) (Plan, error) {
	if strings.TrimSpace(inputPath) == "" {
		return Plan{}, services.Wrap(services.ErrInvalidRange, "render", "compile", "input path must not be empty", nil)
	}
	if strings.TrimSpace(outputPath) == "" {
		return Plan{}, services.Wrap(services.ErrInvalidRange, "render", "compile", "output path must not be empty", nil)
	}

	graph := newFilterGraph()
	for i := range tl.Tracks {
		track := &tl.Tracks[i]
		if !track.Enabled {
			continue
		}
		track.SortClips()
		for j := range track.Clips {
			clip := &track.Clips[j]
			if !clip.Enabled {
				continue
			}
			switch track.Kind {
			case timeline.KindVideo:
				graph.addVideoClip(track, clip)
			case timeline.KindAudio:
				graph.addAudioClip(track, clip)
			case timeline.KindText:
				graph.addTextClip(clip)
			}
		}
	}
	if len(graph.videoLabels) == 0 && len(graph.audioLabels) == 0 {
		return Plan{}, services.Wrap(services.ErrValidation, "render", "compile", "timeline has no enabled clips", nil)
	}

	args := []string{"-i", inputPath}

	filterArg, videoOut, audioOut := graph.render()
	if filterArg != "" {
		args = append(args, "-filter_complex", filterArg)
	}
	if videoOut != "" {
		args = append(args, "-map", "["+videoOut+"]")
	}
	if audioOut != "" {
		args = append(args, "-map", "["+audioOut+"]")
	}

	args = append(args, encodeArgs(p)...)
	args = append(args, "-y", outputPath)

	return Plan{
		Args:            args,
		InputPath:       inputPath,
		OutputPath:      outputPath,
		DurationSeconds: tl.Duration,
	}, nil
}

// encodeArgs emits the preset's codec, geometry, bitrate, and quality
// parameters in a fixed order.
func encodeArgs(p preset.Preset) []string {
	args := make([]string, 0, 16)
	if p.Options.VideoCodec != "" {
		args = append(args, "-c:v", p.Options.VideoCodec)
	}
	if p.Options.Width > 0 && p.Options.Height > 0 {
		args = append(args, "-s", fmt.Sprintf("%dx%d", p.Options.Width, p.Options.Height))
	}
	if p.Options.FrameRate > 0 {
		args = append(args, "-r", formatFloat(p.Options.FrameRate))
	}
	if p.Options.VideoBitrateKbps > 0 {
		args = append(args, "-b:v", fmt.Sprintf("%dk", p.Options.VideoBitrateKbps))
	}
	args = append(args, "-crf", fmt.Sprintf("%d", p.Options.Quality.CRF()))
	if p.Options.AudioCodec != "" {
		args = append(args, "-c:a", p.Options.AudioCodec)
	}
	if p.Options.AudioBitrateKbps > 0 {
		args = append(args, "-b:a", fmt.Sprintf("%dk", p.Options.AudioBitrateKbps))
	}
	return args
}

// filterGraph accumulates per-clip chains and per-kind intermediate
// labels while walking the timeline.
type filterGraph struct {
	chains      []string
	videoLabels []string
	audioLabels []string
	overlays    []string
}

func newFilterGraph() *filterGraph {
	return &filterGraph{}
}

func (g *filterGraph) addVideoClip(track *timeline.Track, clip *timeline.Clip) {
	label := fmt.Sprintf("v%d", len(g.videoLabels))
	stages := []string{
		fmt.Sprintf("trim=start=%s:end=%s", formatFloat(clip.SourceStart), formatFloat(clip.SourceStart+clip.Duration)),
		"setpts=PTS-STARTPTS",
	}
	if opacity := clip.Opacity * track.Opacity; opacity != 1.0 {
		stages = append(stages, fmt.Sprintf("format=yuva420p,colorchannelmixer=aa=%s", formatFloat(opacity)))
	}
	stages = append(stages, videoEffectStages(clip)...)
	g.chains = append(g.chains, fmt.Sprintf("[0:v]%s[%s]", strings.Join(stages, ","), label))
	g.videoLabels = append(g.videoLabels, label)
}

func (g *filterGraph) addAudioClip(track *timeline.Track, clip *timeline.Clip) {
	label := fmt.Sprintf("a%d", len(g.audioLabels))
	stages := []string{
		fmt.Sprintf("atrim=start=%s:end=%s", formatFloat(clip.SourceStart), formatFloat(clip.SourceStart+clip.Duration)),
		"asetpts=PTS-STARTPTS",
	}
	volume := clip.Volume * track.Volume
	if track.Muted {
		volume = 0
	}
	if volume != 1.0 {
		stages = append(stages, fmt.Sprintf("volume=%s", formatFloat(volume)))
	}
	stages = append(stages, audioEffectStages(clip)...)
	g.chains = append(g.chains, fmt.Sprintf("[0:a]%s[%s]", strings.Join(stages, ","), label))
	g.audioLabels = append(g.audioLabels, label)
}

// addTextClip collects overlay stages from a text-track clip. Text tracks
// reference no input stream; their directives decorate the concatenated
// video between the clip's timeline bounds.
func (g *filterGraph) addTextClip(clip *timeline.Clip) {
	g.overlays = append(g.overlays, textOverlayStages(clip)...)
}

// render assembles the filter_complex expression and returns it together
// with the final video and audio labels.
func (g *filterGraph) render() (expr, videoOut, audioOut string) {
	chains := append([]string(nil), g.chains...)

	if len(g.videoLabels) > 0 {
		videoOut = "vout"
		concat := fmt.Sprintf("%sconcat=n=%d:v=1:a=0", labelRefs(g.videoLabels), len(g.videoLabels))
		if len(g.overlays) > 0 {
			concat += "," + strings.Join(g.overlays, ",")
		}
		chains = append(chains, fmt.Sprintf("%s[%s]", concat, videoOut))
	}
	if len(g.audioLabels) > 0 {
		audioOut = "aout"
		chains = append(chains, fmt.Sprintf("%sconcat=n=%d:v=0:a=1[%s]", labelRefs(g.audioLabels), len(g.audioLabels), audioOut))
	}
	return strings.Join(chains, ";"), videoOut, audioOut
}

func labelRefs(labels []string) string {
	var b strings.Builder
	for _, label := range labels {
		b.WriteByte('[')
		b.WriteString(label)
		b.WriteByte(']')
	}
	return b.String()
}
