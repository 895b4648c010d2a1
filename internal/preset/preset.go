package preset

import (
	"fmt"
	"sort"
	"strings"
)

// QualityTier selects the encoder quality scale for a preset.
type QualityTier string

const (
	QualityLow      QualityTier = "low"
	QualityMedium   QualityTier = "medium"
	QualityHigh     QualityTier = "high"
	QualityLossless QualityTier = "lossless"
)

// CRF maps a quality tier onto the encoder's constant-rate-factor scale,
// where lower is better. Unknown tiers fall back to medium.
func (q QualityTier) CRF() int {
	switch q {
	case QualityLow:
		return 28
	case QualityMedium:
		return 23
	case QualityHigh:
		return 18
	case QualityLossless:
		return 0
	default:
		return 23
	}
}

// MediaProcessingOptions bundles the encode parameters of a preset.
type MediaProcessingOptions struct {
	Container        string      `json:"container"`
	VideoCodec       string      `json:"videoCodec"`
	AudioCodec       string      `json:"audioCodec"`
	Width            int         `json:"width"`
	Height           int         `json:"height"`
	FrameRate        float64     `json:"frameRate"`
	VideoBitrateKbps int         `json:"videoBitrateKbps,omitempty"`
	AudioBitrateKbps int         `json:"audioBitrateKbps,omitempty"`
	Quality          QualityTier `json:"quality"`
}

// AspectRatio returns width/height, or 0 when the height is unset.
func (o MediaProcessingOptions) AspectRatio() float64 {
	if o.Height <= 0 {
		return 0
	}
	return float64(o.Width) / float64(o.Height)
}

// Preset is a named, immutable delivery target.
type Preset struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Platform    string                 `json:"platform"`
	Options     MediaProcessingOptions `json:"options"`
	// MaxDuration in seconds; zero means unconstrained.
	MaxDuration float64 `json:"maxDuration,omitempty"`
	// MaxFileSize in bytes; zero means unconstrained.
	MaxFileSize int64 `json:"maxFileSize,omitempty"`
}

// Catalog is a named set of presets. The zero value is not usable; build
// one with NewCatalog.
type Catalog struct {
	presets map[string]Preset
}

// NewCatalog returns a catalog seeded with the built-in platform presets.
func NewCatalog() *Catalog {
	c := &Catalog{presets: make(map[string]Preset, len(builtins))}
	for _, p := range builtins {
		c.presets[p.Name] = p
	}
	return c
}

// Register adds a host-supplied preset. Names are unique; registering an
// existing name is an error so built-ins cannot be shadowed silently.
func (c *Catalog) Register(p Preset) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("preset name must not be empty")
	}
	if _, exists := c.presets[name]; exists {
		return fmt.Errorf("preset %q already registered", name)
	}
	p.Name = name
	c.presets[name] = p
	return nil
}

// Lookup returns the preset with the given name.
func (c *Catalog) Lookup(name string) (Preset, bool) {
	p, ok := c.presets[strings.TrimSpace(name)]
	return p, ok
}

// All returns every preset sorted by name.
func (c *Catalog) All() []Preset {
	out := make([]Preset, 0, len(c.presets))
	for _, p := range c.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var builtins = []Preset{
	{
		Name:        "youtube",
		Description: "YouTube 1080p upload",
		Platform:    "YouTube",
		Options: MediaProcessingOptions{
			Container:  "mp4",
			VideoCodec: "libx264",
			AudioCodec: "aac",
			Width:      1920,
			Height:     1080,
			FrameRate:  30,
			Quality:    QualityHigh,
		},
	},
	{
		Name:        "youtube-shorts",
		Description: "YouTube Shorts vertical video",
		Platform:    "YouTube",
		Options: MediaProcessingOptions{
			Container:  "mp4",
			VideoCodec: "libx264",
			AudioCodec: "aac",
			Width:      1080,
			Height:     1920,
			FrameRate:  30,
			Quality:    QualityHigh,
		},
		MaxDuration: 60,
	},
	{
		Name:        "instagram-reel",
		Description: "Instagram Reel vertical video",
		Platform:    "Instagram",
		Options: MediaProcessingOptions{
			Container:        "mp4",
			VideoCodec:       "libx264",
			AudioCodec:       "aac",
			Width:            1080,
			Height:           1920,
			FrameRate:        30,
			VideoBitrateKbps: 5000,
			AudioBitrateKbps: 128,
			Quality:          QualityMedium,
		},
		MaxDuration: 90,
	},
	{
		Name:        "tiktok",
		Description: "TikTok vertical video",
		Platform:    "TikTok",
		Options: MediaProcessingOptions{
			Container:        "mp4",
			VideoCodec:       "libx264",
			AudioCodec:       "aac",
			Width:            1080,
			Height:           1920,
			FrameRate:        30,
			VideoBitrateKbps: 4000,
			AudioBitrateKbps: 128,
			Quality:          QualityMedium,
		},
		MaxDuration: 180,
	},
	{
		Name:        "twitter",
		Description: "X/Twitter timeline video",
		Platform:    "X",
		Options: MediaProcessingOptions{
			Container:        "mp4",
			VideoCodec:       "libx264",
			AudioCodec:       "aac",
			Width:            1280,
			Height:           720,
			FrameRate:        30,
			VideoBitrateKbps: 2500,
			AudioBitrateKbps: 128,
			Quality:          QualityMedium,
		},
		MaxDuration: 140,
		MaxFileSize: 512 << 20,
	},
	{
		Name:        "archive",
		Description: "Lossless archival master",
		Platform:    "Archive",
		Options: MediaProcessingOptions{
			Container:  "mkv",
			VideoCodec: "libx264",
			AudioCodec: "flac",
			Width:      1920,
			Height:     1080,
			FrameRate:  30,
			Quality:    QualityLossless,
		},
	},
}
