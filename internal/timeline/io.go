package timeline

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a timeline from a JSON project file.
func LoadFile(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timeline %s: %w", path, err)
	}
	var tl Timeline
	if err := json.Unmarshal(data, &tl); err != nil {
		return nil, fmt.Errorf("decode timeline %s: %w", path, err)
	}
	return &tl, nil
}

// SaveFile writes the timeline to a JSON project file.
func (tl *Timeline) SaveFile(path string) error {
	data, err := json.MarshalIndent(tl, "", "  ")
	if err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write timeline %s: %w", path, err)
	}
	return nil
}
