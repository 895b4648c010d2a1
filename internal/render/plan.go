package render

import (
	"strconv"
	"strings"
)

// Plan is a compiled, ready-to-execute transcoding directive sequence.
// Args is everything after the binary name, ending with the output path.
type Plan struct {
	Args       []string `json:"args"`
	InputPath  string   `json:"inputPath"`
	OutputPath string   `json:"outputPath"`
	// DurationSeconds is the timeline duration at compile time, kept so
	// the runner can translate encoder timestamps into percent progress.
	DurationSeconds float64 `json:"durationSeconds"`
}

// Command renders the plan as a shell-style string for display and logs.
func (p Plan) Command(binary string) string {
	parts := make([]string, 0, len(p.Args)+1)
	parts = append(parts, binary)
	for _, arg := range p.Args {
		if strings.ContainsAny(arg, " \t\"[];,") {
			parts = append(parts, strconv.Quote(arg))
		} else {
			parts = append(parts, arg)
		}
	}
	return strings.Join(parts, " ")
}

// formatFloat renders a float without trailing zeros, keeping plans
// byte-stable across compiles.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
