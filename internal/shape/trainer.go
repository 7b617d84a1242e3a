package shape

import (
	"encoding/json"
	"errors"
	"fmt"
)

// StrokeSample is one recorded stroke submitted for training.
type StrokeSample struct {
	Points    []PathPoint `json:"points"`
	Timestamp int64       `json:"timestamp,omitempty"`
}

// ParseSample decodes a stored stroke sample from JSON.
func ParseSample(data []byte) (*StrokeSample, error) {
	var s StrokeSample
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse stroke sample: %w", err)
	}
	return &s, nil
}

// Trainer averages recorded strokes into template paths.
type Trainer struct{}

// NewTrainer creates a Trainer.
func NewTrainer() *Trainer {
	return &Trainer{}
}

// Train builds a template path from one or more recorded strokes. Samples
// are aligned to the first sample's length by linear interpolation,
// averaged pointwise, and normalized into the unit box with the first
// sample's timeline. Interpolation, rather than the matcher's index
// subsampling, keeps averaged points aligned when sample lengths differ.
func (t *Trainer) Train(samples []StrokeSample) ([]PathPoint, error) {
	if len(samples) == 0 {
		return nil, errors.New("no samples provided")
	}
	for i, s := range samples {
		if len(s.Points) < 2 {
			return nil, fmt.Errorf("sample %d has %d points, need at least 2", i, len(s.Points))
		}
	}

	target := len(samples[0].Points)
	aligned := make([][]PathPoint, len(samples))
	for i, s := range samples {
		aligned[i] = interpolatePath(s.Points, target)
	}

	averaged := make([]PathPoint, target)
	n := float64(len(aligned))
	for i := 0; i < target; i++ {
		var sx, sy float64
		for _, path := range aligned {
			sx += path[i].X
			sy += path[i].Y
		}
		averaged[i] = PathPoint{
			X: sx / n,
			Y: sy / n,
			T: aligned[0][i].T,
		}
	}

	return normalizePoints(averaged, 1), nil
}

// interpolatePath resamples a path to targetLength points by linear
// interpolation between neighbors.
func interpolatePath(path []PathPoint, targetLength int) []PathPoint {
	if len(path) == 0 || targetLength <= 0 {
		return nil
	}
	if len(path) == 1 || targetLength == 1 {
		out := make([]PathPoint, targetLength)
		for i := range out {
			out[i] = path[0]
		}
		return out
	}

	out := make([]PathPoint, targetLength)
	for i := 0; i < targetLength; i++ {
		t := float64(i) / float64(targetLength-1)
		pos := t * float64(len(path)-1)
		idx := int(pos)
		if idx >= len(path)-1 {
			idx = len(path) - 2
		}
		frac := pos - float64(idx)

		out[i] = PathPoint{
			X: path[idx].X + (path[idx+1].X-path[idx].X)*frac,
			Y: path[idx].Y + (path[idx+1].Y-path[idx].Y)*frac,
			T: path[idx].T + int64(float64(path[idx+1].T-path[idx].T)*frac),
		}
	}
	return out
}
