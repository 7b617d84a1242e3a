package shape

import (
	"math"
	"testing"
)

func TestTrainSingleSample(t *testing.T) {
	tr := NewTrainer()

	path, err := tr.Train([]StrokeSample{
		{Points: []PathPoint{{X: 0, Y: 0, T: 0}, {X: 10, Y: 0, T: 50}, {X: 10, Y: 10, T: 100}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 3 {
		t.Fatalf("expected 3 points, got %d", len(path))
	}

	// The template is normalized into the unit box.
	want := []PathPoint{{X: 0, Y: 0, T: 0}, {X: 1, Y: 0, T: 50}, {X: 1, Y: 1, T: 100}}
	for i, p := range path {
		if math.Abs(p.X-want[i].X) > 1e-9 || math.Abs(p.Y-want[i].Y) > 1e-9 {
			t.Errorf("point %d: expected (%f, %f), got (%f, %f)", i, want[i].X, want[i].Y, p.X, p.Y)
		}
	}
}

func TestTrainAveragesSamples(t *testing.T) {
	tr := NewTrainer()

	path, err := tr.Train([]StrokeSample{
		{Points: []PathPoint{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}},
		{Points: []PathPoint{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 30}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Averaged endpoint is (10, 20); the box is 10x20, so y scales to 1
	// and x to 0.5.
	last := path[len(path)-1]
	if math.Abs(last.X-0.5) > 1e-9 || math.Abs(last.Y-1) > 1e-9 {
		t.Errorf("expected averaged endpoint (0.5, 1), got (%f, %f)", last.X, last.Y)
	}
}

func TestTrainAlignsDifferentLengths(t *testing.T) {
	tr := NewTrainer()

	// The second sample traces the same L shape with five points; it is
	// interpolated down to the first sample's three.
	path, err := tr.Train([]StrokeSample{
		{Points: []PathPoint{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}},
		{Points: []PathPoint{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 10, Y: 10}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 3 {
		t.Fatalf("expected 3 points, got %d", len(path))
	}

	want := []PathPoint{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	for i, p := range path {
		if math.Abs(p.X-want[i].X) > 1e-9 || math.Abs(p.Y-want[i].Y) > 1e-9 {
			t.Errorf("point %d: expected (%f, %f), got (%f, %f)", i, want[i].X, want[i].Y, p.X, p.Y)
		}
	}
}

func TestTrainRejectsEmptyInput(t *testing.T) {
	tr := NewTrainer()
	if _, err := tr.Train(nil); err == nil {
		t.Error("expected an error for no samples")
	}
}

func TestTrainRejectsShortSample(t *testing.T) {
	tr := NewTrainer()
	_, err := tr.Train([]StrokeSample{
		{Points: []PathPoint{{X: 0, Y: 0}, {X: 10, Y: 0}}},
		{Points: []PathPoint{{X: 5, Y: 5}}},
	})
	if err == nil {
		t.Error("expected an error for a one-point sample")
	}
}

func TestInterpolatePath(t *testing.T) {
	path := []PathPoint{{X: 0, Y: 0, T: 0}, {X: 10, Y: 0, T: 100}}

	out := interpolatePath(path, 5)
	if len(out) != 5 {
		t.Fatalf("expected 5 points, got %d", len(out))
	}
	// Midpoint interpolates halfway along the segment.
	if math.Abs(out[2].X-5) > 1e-9 {
		t.Errorf("expected midpoint x 5, got %f", out[2].X)
	}
	if out[2].T != 50 {
		t.Errorf("expected midpoint timestamp 50, got %d", out[2].T)
	}
	if out[0] != path[0] || out[4] != path[1] {
		t.Error("expected endpoints preserved")
	}
}

func TestParseSample(t *testing.T) {
	s, err := ParseSample([]byte(`{"points":[{"x":1,"y":2,"t":3},{"x":4,"y":5,"t":6}],"timestamp":99}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(s.Points))
	}
	if s.Points[1].X != 4 || s.Points[1].T != 6 {
		t.Errorf("expected point (4, 5, 6), got %+v", s.Points[1])
	}
	if s.Timestamp != 99 {
		t.Errorf("expected timestamp 99, got %d", s.Timestamp)
	}

	if _, err := ParseSample([]byte(`not json`)); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}
