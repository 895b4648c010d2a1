package timeline

import (
	"encoding/json"
	"fmt"
	"sort"
)

// EffectType tags an effect with the transformation it applies.
type EffectType string

const (
	EffectFade         EffectType = "fade"
	EffectColorCorrect EffectType = "color-correct"
	EffectTextOverlay  EffectType = "text-overlay"
	EffectAudioFade    EffectType = "audio-fade"
)

// Params is the tagged union of per-type effect parameters. Unknown effect
// types decode into RawParams so future payloads survive a round trip and
// the compiler can skip them without reflection.
type Params interface {
	effectParams()
}

// FadeParams configures a video fade at a clip boundary.
type FadeParams struct {
	Direction string  `json:"direction"` // "in" or "out"
	Duration  float64 `json:"duration"`
}

func (FadeParams) effectParams() {}

// ColorCorrectParams adjusts the clip's color balance. Neutral values are
// brightness 0, contrast 1, saturation 1.
type ColorCorrectParams struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
}

func (ColorCorrectParams) effectParams() {}

// TextOverlayParams draws a caption over the clip.
type TextOverlayParams struct {
	Text     string `json:"text"`
	FontSize int    `json:"fontSize"`
	Color    string `json:"color,omitempty"`
	X        string `json:"x,omitempty"`
	Y        string `json:"y,omitempty"`
}

func (TextOverlayParams) effectParams() {}

// AudioFadeParams configures an audio fade at a clip boundary.
type AudioFadeParams struct {
	Direction string  `json:"direction"`
	Duration  float64 `json:"duration"`
}

func (AudioFadeParams) effectParams() {}

// RawParams preserves the payload of an effect type this version does not
// recognize.
type RawParams map[string]any

func (RawParams) effectParams() {}

// Window restricts an effect to a sub-range of its clip, in seconds
// relative to the clip start.
type Window struct {
	Start float64 `json:"startTime"`
	End   float64 `json:"endTime"`
}

// Effect is a parametrized transformation applied to a clip's output.
// Effects with lower Order apply first.
type Effect struct {
	ID      string     `json:"id"`
	Type    EffectType `json:"type"`
	Name    string     `json:"name,omitempty"`
	Params  Params     `json:"params,omitempty"`
	Window  *Window    `json:"window,omitempty"`
	Enabled bool       `json:"enabled"`
	Order   int        `json:"order"`
}

type effectJSON struct {
	ID      string          `json:"id"`
	Type    EffectType      `json:"type"`
	Name    string          `json:"name,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Window  *Window         `json:"window,omitempty"`
	Enabled bool            `json:"enabled"`
	Order   int             `json:"order"`
}

// MarshalJSON encodes the params variant under its type tag.
func (e Effect) MarshalJSON() ([]byte, error) {
	out := effectJSON{
		ID:      e.ID,
		Type:    e.Type,
		Name:    e.Name,
		Window:  e.Window,
		Enabled: e.Enabled,
		Order:   e.Order,
	}
	if e.Params != nil {
		raw, err := json.Marshal(e.Params)
		if err != nil {
			return nil, fmt.Errorf("marshal %s params: %w", e.Type, err)
		}
		out.Params = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes params into the variant matching the type tag,
// falling back to RawParams for unknown types.
func (e *Effect) UnmarshalJSON(data []byte) error {
	var in effectJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	e.ID = in.ID
	e.Type = in.Type
	e.Name = in.Name
	e.Window = in.Window
	e.Enabled = in.Enabled
	e.Order = in.Order
	e.Params = nil
	if len(in.Params) == 0 {
		return nil
	}
	params, err := decodeParams(in.Type, in.Params)
	if err != nil {
		return fmt.Errorf("decode %s params: %w", in.Type, err)
	}
	e.Params = params
	return nil
}

func decodeParams(kind EffectType, raw json.RawMessage) (Params, error) {
	switch kind {
	case EffectFade:
		var p FadeParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case EffectColorCorrect:
		var p ColorCorrectParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case EffectTextOverlay:
		var p TextOverlayParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case EffectAudioFade:
		var p AudioFadeParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		var p RawParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	}
}

// SortEffects restores the stable apply order within a clip.
func SortEffects(effects []Effect) {
	sort.SliceStable(effects, func(i, j int) bool {
		return effects[i].Order < effects[j].Order
	})
}
