package render

import (
	"fmt"
	"strings"

	"cutroom/internal/timeline"
)

// videoEffectStages emits filter fragments for a clip's enabled video
// effects in ascending order. Unknown effect types are skipped so plans
// stay forward-compatible with payloads this version does not understand.
func videoEffectStages(clip *timeline.Clip) []string {
	effects := orderedEffects(clip)
	var stages []string
	for _, effect := range effects {
		switch params := effect.Params.(type) {
		case timeline.FadeParams:
			stages = append(stages, fadeStage("fade", effect, params.Direction, params.Duration, clip.Duration))
		case timeline.ColorCorrectParams:
			stages = append(stages, fmt.Sprintf("eq=brightness=%s:contrast=%s:saturation=%s",
				formatFloat(params.Brightness), formatFloat(params.Contrast), formatFloat(params.Saturation)))
		case timeline.TextOverlayParams:
			stages = append(stages, drawtextStage(params, effect.Window))
		default:
			// Raw or unwired params: forward-compatible no-op.
		}
	}
	return stages
}

// audioEffectStages emits filter fragments for a clip's enabled audio
// effects.
func audioEffectStages(clip *timeline.Clip) []string {
	effects := orderedEffects(clip)
	var stages []string
	for _, effect := range effects {
		switch params := effect.Params.(type) {
		case timeline.AudioFadeParams:
			stages = append(stages, fadeStage("afade", effect, params.Direction, params.Duration, clip.Duration))
		default:
		}
	}
	return stages
}

// textOverlayStages converts a text-track clip into drawtext stages active
// between the clip's timeline bounds.
func textOverlayStages(clip *timeline.Clip) []string {
	var stages []string
	for _, effect := range orderedEffects(clip) {
		params, ok := effect.Params.(timeline.TextOverlayParams)
		if !ok {
			continue
		}
		window := timeline.Window{Start: clip.TimelineStart, End: clip.End()}
		if effect.Window != nil {
			window.Start = clip.TimelineStart + effect.Window.Start
			window.End = clip.TimelineStart + effect.Window.End
		}
		stages = append(stages, drawtextStage(params, &window))
	}
	return stages
}

func orderedEffects(clip *timeline.Clip) []timeline.Effect {
	if len(clip.Effects) == 0 {
		return nil
	}
	effects := make([]timeline.Effect, 0, len(clip.Effects))
	for _, effect := range clip.Effects {
		if effect.Enabled {
			effects = append(effects, effect)
		}
	}
	timeline.SortEffects(effects)
	return effects
}

// fadeStage emits a video or audio fade. Fade-out starts so that it ends
// exactly at the effect window's end (or the clip's end).
func fadeStage(filter string, effect timeline.Effect, direction string, duration, clipDuration float64) string {
	end := clipDuration
	start := 0.0
	if effect.Window != nil {
		start = effect.Window.Start
		end = effect.Window.End
	}
	if strings.EqualFold(direction, "out") {
		at := end - duration
		if at < start {
			at = start
		}
		return fmt.Sprintf("%s=t=out:st=%s:d=%s", filter, formatFloat(at), formatFloat(duration))
	}
	return fmt.Sprintf("%s=t=in:st=%s:d=%s", filter, formatFloat(start), formatFloat(duration))
}

func drawtextStage(params timeline.TextOverlayParams, window *timeline.Window) string {
	fontSize := params.FontSize
	if fontSize <= 0 {
		fontSize = 24
	}
	color := params.Color
	if color == "" {
		color = "white"
	}
	x := params.X
	if x == "" {
		x = "(w-text_w)/2"
	}
	y := params.Y
	if y == "" {
		y = "h-(2*text_h)"
	}
	stage := fmt.Sprintf("drawtext=text='%s':fontsize=%d:fontcolor=%s:x=%s:y=%s",
		escapeDrawtext(params.Text), fontSize, color, x, y)
	if window != nil {
		stage += fmt.Sprintf(":enable='between(t,%s,%s)'", formatFloat(window.Start), formatFloat(window.End))
	}
	return stage
}

// escapeDrawtext guards the characters drawtext treats specially.
func escapeDrawtext(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return replacer.Replace(text)
}
