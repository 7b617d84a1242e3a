// Package testdata embeds canonical touch traces and stroke recordings
// used by integration tests.
package testdata

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/ayusman/mudra/internal/replay"
	"github.com/ayusman/mudra/internal/shape"
)

//go:embed traces/*.json strokes/*.json
var fixturesFS embed.FS

// LoadTrace loads an embedded touch trace by name, e.g. "tap".
func LoadTrace(name string) (*replay.Trace, error) {
	data, err := fixturesFS.ReadFile("traces/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load trace %s: %w", name, err)
	}
	return replay.ParseTrace(data)
}

// LoadStroke loads an embedded stroke recording by name, e.g. "checkmark".
func LoadStroke(name string) ([]shape.PathPoint, error) {
	data, err := fixturesFS.ReadFile("strokes/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load stroke %s: %w", name, err)
	}

	var stroke struct {
		Points []shape.PathPoint `json:"points"`
	}
	if err := json.Unmarshal(data, &stroke); err != nil {
		return nil, fmt.Errorf("decode stroke %s: %w", name, err)
	}
	return stroke.Points, nil
}

// Traces lists the embedded trace names.
func Traces() ([]string, error) {
	entries, err := fixturesFS.ReadDir("traces")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		names = append(names, name[:len(name)-len(".json")])
	}
	return names, nil
}
