package gesture

import (
	"math"
	"testing"
)

func TestSwipeDirection(t *testing.T) {
	tests := []struct {
		name string
		dx   float64
		dy   float64
		want Direction
	}{
		{"right", 100, 0, DirectionRight},
		{"left", -100, 0, DirectionLeft},
		{"down", 0, 100, DirectionDown},
		{"up", 0, -100, DirectionUp},
		{"right with drift", 100, 40, DirectionRight},
		{"up with drift", 20, -50, DirectionUp},
		{"down-right diagonal", 80, 80, DirectionDownRight},
		{"up-left diagonal", -60, -60, DirectionUpLeft},
		{"up-right diagonal", 50, -50, DirectionUpRight},
		{"down-left diagonal", -50, 50, DirectionDownLeft},
		// Exactly twice the other axis is not dominant enough for a
		// cardinal direction.
		{"boundary is diagonal", 100, 50, DirectionDownRight},
		{"zero vector", 0, 0, DirectionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := swipeDirection(tt.dx, tt.dy); got != tt.want {
				t.Errorf("expected %s for (%f, %f), got %s", tt.want, tt.dx, tt.dy, got)
			}
		})
	}
}

func TestConfidence(t *testing.T) {
	// Fast, long, and far: nothing borderline.
	if got := confidence(0.5, 200, 50); got != 1.0 {
		t.Errorf("expected confidence 1.0, got %f", got)
	}

	// All three boundary conditions at once.
	want := 0.85 * 0.85 * 0.85
	if got := confidence(0.05, 50, 5); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected confidence %f, got %f", want, got)
	}

	// Single condition.
	if got := confidence(0.05, 200, 50); math.Abs(got-0.85) > 1e-9 {
		t.Errorf("expected confidence 0.85, got %f", got)
	}
}

func TestMovementAngle(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   float64
	}{
		{1, 0, 0},
		{0, 1, 90},
		{-1, 0, 180},
		{0, -1, -90},
		{1, 1, 45},
		{0, 0, 0},
	}

	for _, tt := range tests {
		if got := movementAngle(tt.dx, tt.dy); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("expected angle %f for (%f, %f), got %f", tt.want, tt.dx, tt.dy, got)
		}
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{45, 45},
		{180, 180},
		{-180, 180},
		{190, -170},
		{-190, 170},
		{360, 0},
		{540, 180},
	}

	for _, tt := range tests {
		if got := normalizeDegrees(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("expected %f normalized to %f, got %f", tt.in, tt.want, got)
		}
	}
}

func TestClassifyReleaseSingleContact(t *testing.T) {
	opts := DefaultOptions()

	tap := Event{Distance: 2, Duration: 150, Velocity: Velocity{Magnitude: 0.01}}
	if got := classifyRelease(opts, tap, nil, false, false); got != TypeTap {
		t.Errorf("expected tap, got %q", got)
	}

	// Same geometry after a long-press cannot resolve as a tap again.
	if got := classifyRelease(opts, tap, nil, false, true); got != "" {
		t.Errorf("expected no classification after long-press, got %q", got)
	}

	swipe := Event{Distance: 100, Duration: 120, Velocity: Velocity{Magnitude: 0.83}}
	if got := classifyRelease(opts, swipe, nil, false, false); got != TypeSwipe {
		t.Errorf("expected swipe, got %q", got)
	}

	// Far but slow: neither a tap nor a swipe.
	drag := Event{Distance: 100, Duration: 5000, Velocity: Velocity{Magnitude: 0.02}}
	if got := classifyRelease(opts, drag, nil, false, false); got != "" {
		t.Errorf("expected no classification for a slow drag, got %q", got)
	}
}

func TestClassifyReleaseDoubleTap(t *testing.T) {
	opts := DefaultOptions()
	prev := Event{Type: TypeTap, EndTime: 100, Center: Point{X: 0, Y: 0}}

	second := Event{
		Distance: 1, Duration: 50, EndTime: 250,
		Center:   Point{X: 3, Y: 4},
		Velocity: Velocity{Magnitude: 0.01},
	}
	if got := classifyRelease(opts, second, &prev, false, false); got != TypeDoubleTap {
		t.Errorf("expected double-tap, got %q", got)
	}

	// Outside the time window.
	late := second
	late.EndTime = 500
	if got := classifyRelease(opts, late, &prev, false, false); got != TypeTap {
		t.Errorf("expected plain tap outside the window, got %q", got)
	}

	// Outside the distance threshold.
	far := second
	far.Center = Point{X: 50, Y: 50}
	if got := classifyRelease(opts, far, &prev, false, false); got != TypeTap {
		t.Errorf("expected plain tap for distant centers, got %q", got)
	}
}

func TestClassifyReleaseMultiTouch(t *testing.T) {
	opts := DefaultOptions()

	pinch := Event{Scale: 2.0, Rotation: 40}
	if got := classifyRelease(opts, pinch, nil, true, false); got != TypePinch {
		t.Errorf("expected pinch to take precedence, got %q", got)
	}

	rotate := Event{Scale: 1.0, Rotation: 45}
	if got := classifyRelease(opts, rotate, nil, true, false); got != TypeRotate {
		t.Errorf("expected rotate, got %q", got)
	}

	still := Event{Scale: 1.005, Rotation: 2}
	if got := classifyRelease(opts, still, nil, true, false); got != "" {
		t.Errorf("expected no classification below sensitivity, got %q", got)
	}
}

func TestClamp01(t *testing.T) {
	if got := clamp01(-0.5); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
	if got := clamp01(1.5); got != 1 {
		t.Errorf("expected 1, got %f", got)
	}
	if got := clamp01(0.42); got != 0.42 {
		t.Errorf("expected 0.42, got %f", got)
	}
}
