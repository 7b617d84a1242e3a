package shape

import (
	"math"
	"testing"
)

// scaleStroke returns the stroke scaled by f and translated by (dx, dy).
func scaleStroke(points []PathPoint, f, dx, dy float64) []PathPoint {
	out := make([]PathPoint, len(points))
	for i, p := range points {
		out[i] = PathPoint{X: p.X*f + dx, Y: p.Y*f + dy, T: p.T}
	}
	return out
}

// circleStroke samples a circle of the given radius centered at (cx, cy).
func circleStroke(cx, cy, radius float64, samples int) []PathPoint {
	out := make([]PathPoint, 0, samples+1)
	for i := 0; i <= samples; i++ {
		theta := -math.Pi/2 + 2*math.Pi*float64(i)/float64(samples)
		out = append(out, PathPoint{
			X: cx + radius*math.Cos(theta),
			Y: cy + radius*math.Sin(theta),
			T: int64(i * 20),
		})
	}
	return out
}

func TestRecognizeCheckmark(t *testing.T) {
	r := NewRecognizer(Options{})

	// The built-in checkmark scaled by 40 and moved to (10, 25).
	stroke := []PathPoint{
		{X: 10, Y: 45, T: 0},
		{X: 24, Y: 65, T: 40},
		{X: 50, Y: 25, T: 100},
	}

	res := r.Recognize(stroke)
	if res == nil {
		t.Fatal("expected the checkmark to be recognized")
	}
	if res.Pattern == nil || res.Pattern.ID != PatternCheckmark {
		t.Fatalf("expected pattern %s, got %+v", PatternCheckmark, res.Pattern)
	}
	if res.Score < 0.95 {
		t.Errorf("expected score >= 0.95 for an exact shape, got %f", res.Score)
	}
	if res.Confidence <= 0 || res.Confidence > 1 {
		t.Errorf("expected confidence in (0, 1], got %f", res.Confidence)
	}
}

func TestRecognizeCircle(t *testing.T) {
	r := NewRecognizer(Options{})

	res := r.Recognize(circleStroke(200, 300, 80, 16))
	if res == nil {
		t.Fatal("expected the circle to be recognized")
	}
	if res.Pattern.ID != PatternCircle {
		t.Errorf("expected pattern %s, got %s", PatternCircle, res.Pattern.ID)
	}
}

func TestScaleInvariance(t *testing.T) {
	r := NewRecognizer(Options{})

	stroke := []PathPoint{
		{X: 0, Y: 0, T: 0},
		{X: 30, Y: 40, T: 50},
		{X: 60, Y: 0, T: 100},
		{X: 90, Y: 40, T: 150},
	}
	r.AddPattern(&Pattern{ID: "custom", Name: "Custom", Confidence: 1, Points: stroke})

	doubled := scaleStroke(stroke, 2, 0, 0)
	res := r.Recognize(doubled)
	if res == nil {
		t.Fatal("expected the doubled stroke to match")
	}
	if res.Pattern.ID != "custom" {
		t.Fatalf("expected the custom pattern to win, got %s", res.Pattern.ID)
	}
	if res.Score < 0.99 {
		t.Errorf("expected similarity >= 0.99 for a scaled copy, got %f", res.Score)
	}
}

func TestTranslationInvariance(t *testing.T) {
	r := NewRecognizer(Options{})

	stroke := []PathPoint{
		{X: 0, Y: 0, T: 0},
		{X: 30, Y: 40, T: 50},
		{X: 60, Y: 0, T: 100},
		{X: 90, Y: 40, T: 150},
	}
	r.AddPattern(&Pattern{ID: "custom", Name: "Custom", Confidence: 1, Points: stroke})

	moved := scaleStroke(stroke, 1, 500, 700)
	res := r.Recognize(moved)
	if res == nil {
		t.Fatal("expected the translated stroke to match")
	}
	if res.Pattern.ID != "custom" || res.Score < 0.99 {
		t.Errorf("expected a near-perfect match, got %s at %f", res.Pattern.ID, res.Score)
	}
}

func TestRecognizeTooFewPoints(t *testing.T) {
	r := NewRecognizer(Options{})

	if res := r.Recognize([]PathPoint{{X: 0, Y: 0}, {X: 50, Y: 50}}); res != nil {
		t.Error("expected nil for a stroke below the minimum point count")
	}

	// Points that collapse under filtering also fall short.
	jitter := []PathPoint{
		{X: 10, Y: 10}, {X: 10.2, Y: 10}, {X: 10.4, Y: 10.1}, {X: 10.1, Y: 10.3},
	}
	if res := r.Recognize(jitter); res != nil {
		t.Error("expected nil for a stroke that filters down to jitter")
	}
}

func TestRecognizeNothingAboveThreshold(t *testing.T) {
	r := NewRecognizer(Options{})
	r.SetPatterns([]*Pattern{horizontalLinePattern()})

	// A circle is nowhere near a horizontal line.
	if res := r.Recognize(circleStroke(100, 100, 50, 16)); res != nil {
		t.Errorf("expected no match, got %s at %f", res.Pattern.ID, res.Score)
	}
}

func TestRecognizeMatchesSortedBySimilarity(t *testing.T) {
	r := NewRecognizer(Options{})

	stroke := []PathPoint{
		{X: 0, Y: 0, T: 0},
		{X: 30, Y: 40, T: 50},
		{X: 60, Y: 0, T: 100},
		{X: 90, Y: 40, T: 150},
	}
	variant := make([]PathPoint, len(stroke))
	copy(variant, stroke)
	variant[1].Y += 8

	r.SetPatterns([]*Pattern{
		{ID: "exact", Name: "Exact", Confidence: 1, Points: stroke},
		{ID: "variant", Name: "Variant", Confidence: 1, Points: variant},
	})

	res := r.Recognize(stroke)
	if res == nil {
		t.Fatal("expected a match")
	}
	if res.Pattern.ID != "exact" {
		t.Errorf("expected the exact pattern to win, got %s", res.Pattern.ID)
	}
	for i := 1; i < len(res.Matches); i++ {
		if res.Matches[i-1].Similarity < res.Matches[i].Similarity {
			t.Error("expected matches ordered best first")
		}
	}
}

func TestPatternConfidenceWeighting(t *testing.T) {
	r := NewRecognizer(Options{})
	stroke := []PathPoint{
		{X: 0, Y: 0, T: 0},
		{X: 30, Y: 40, T: 50},
		{X: 60, Y: 0, T: 100},
	}
	r.SetPatterns([]*Pattern{
		{ID: "weighted", Name: "Weighted", Confidence: 0.5, Points: stroke},
	})

	res := r.Recognize(stroke)
	if res == nil {
		t.Fatal("expected a match")
	}
	// Confidence is similarity weighted by the pattern's own confidence.
	if math.Abs(res.Confidence-res.Score*0.5) > 1e-9 {
		t.Errorf("expected confidence %f, got %f", res.Score*0.5, res.Confidence)
	}
}

func TestStartAddStop(t *testing.T) {
	r := NewRecognizer(Options{})

	var recognized []*Result
	r.OnRecognized = func(res *Result) { recognized = append(recognized, res) }

	r.Start(10, 45, 0)
	r.AddPoint(24, 65, 40)
	r.AddPoint(50, 25, 100)
	res := r.Stop()

	if res == nil {
		t.Fatal("expected the captured stroke to be recognized")
	}
	if res.Pattern.ID != PatternCheckmark {
		t.Errorf("expected checkmark, got %s", res.Pattern.ID)
	}
	if len(recognized) != 1 {
		t.Fatalf("expected one callback, got %d", len(recognized))
	}
	if last := r.LastResult(); last != res {
		t.Error("expected LastResult to return the Stop outcome")
	}
	if hist := r.History(); len(hist) != 1 || hist[0] != res {
		t.Errorf("expected one history entry, got %d", len(hist))
	}
}

func TestStopWithoutStart(t *testing.T) {
	r := NewRecognizer(Options{})

	fired := false
	r.OnRecognized = func(*Result) { fired = true }

	if res := r.Stop(); res != nil {
		t.Error("expected nil from Stop without a capture")
	}
	if fired {
		t.Error("expected no callback without a capture")
	}
}

func TestAddPointWithoutStartIgnored(t *testing.T) {
	r := NewRecognizer(Options{})

	r.AddPoint(10, 45, 0)
	r.AddPoint(24, 65, 40)
	r.AddPoint(50, 25, 100)

	if res := r.Stop(); res != nil {
		t.Error("expected points outside a capture to be discarded")
	}
}

func TestStartDiscardsPriorCapture(t *testing.T) {
	r := NewRecognizer(Options{})

	r.Start(500, 500, 0)
	r.AddPoint(600, 600, 10)

	// A new Start abandons the half-finished stroke.
	r.Start(10, 45, 100)
	r.AddPoint(24, 65, 140)
	r.AddPoint(50, 25, 200)

	res := r.Stop()
	if res == nil || res.Pattern.ID != PatternCheckmark {
		t.Errorf("expected the second capture to be recognized alone, got %+v", res)
	}
}

func TestStopWithoutMatchLeavesHistoryUntouched(t *testing.T) {
	r := NewRecognizer(Options{})
	r.SetPatterns([]*Pattern{horizontalLinePattern()})

	fired := false
	r.OnRecognized = func(*Result) { fired = true }

	stroke := circleStroke(100, 100, 50, 16)
	r.Start(stroke[0].X, stroke[0].Y, stroke[0].T)
	for _, p := range stroke[1:] {
		r.AddPoint(p.X, p.Y, p.T)
	}
	if res := r.Stop(); res != nil {
		t.Fatal("expected no match for a circle against a line library")
	}
	if fired {
		t.Error("expected no callback for a failed recognition")
	}
	if len(r.History()) != 0 {
		t.Errorf("expected empty history, got %d entries", len(r.History()))
	}
}

func TestAddPatternReplacesById(t *testing.T) {
	r := NewRecognizer(Options{})
	r.SetPatterns(nil)

	r.AddPattern(&Pattern{ID: "x", Name: "First", Points: []PathPoint{{X: 0}, {X: 1}}})
	r.AddPattern(&Pattern{ID: "x", Name: "Second", Points: []PathPoint{{X: 0}, {X: 2}}})

	patterns := r.Patterns()
	if len(patterns) != 1 {
		t.Fatalf("expected one pattern after replacement, got %d", len(patterns))
	}
	if patterns[0].Name != "Second" {
		t.Errorf("expected the replacement to win, got %s", patterns[0].Name)
	}
}

func TestRemovePattern(t *testing.T) {
	r := NewRecognizer(Options{})
	before := len(r.Patterns())

	r.RemovePattern(PatternCircle)
	patterns := r.Patterns()
	if len(patterns) != before-1 {
		t.Fatalf("expected %d patterns, got %d", before-1, len(patterns))
	}
	for _, p := range patterns {
		if p.ID == PatternCircle {
			t.Error("expected the circle to be removed")
		}
	}

	// Removing an unknown id is a no-op.
	r.RemovePattern("does-not-exist")
	if len(r.Patterns()) != before-1 {
		t.Error("expected removal of an unknown id to change nothing")
	}
}

func TestBuiltinLibrary(t *testing.T) {
	ids := map[string]bool{}
	for _, p := range BuiltinPatterns() {
		ids[p.ID] = true
		if len(p.Points) < 3 {
			t.Errorf("expected pattern %s to have at least 3 points", p.ID)
		}
	}
	for _, want := range []string{
		PatternCheckmark, PatternCircle, PatternSquare,
		PatternTriangle, PatternZigzag, PatternHorizontalLine,
	} {
		if !ids[want] {
			t.Errorf("expected built-in pattern %s", want)
		}
	}
}

func TestTransformationReported(t *testing.T) {
	r := NewRecognizer(Options{})

	stroke := []PathPoint{
		{X: 10, Y: 45, T: 0},
		{X: 24, Y: 65, T: 40},
		{X: 50, Y: 25, T: 100},
	}
	res := r.Recognize(stroke)
	if res == nil {
		t.Fatal("expected a match")
	}

	tr := res.Matches[0].Transformation
	if tr.TranslateX != 10 || tr.TranslateY != 25 {
		t.Errorf("expected translation (10, 25), got (%f, %f)", tr.TranslateX, tr.TranslateY)
	}
}

func TestClearHistory(t *testing.T) {
	r := NewRecognizer(Options{})

	r.Start(10, 45, 0)
	r.AddPoint(24, 65, 40)
	r.AddPoint(50, 25, 100)
	r.Stop()

	r.ClearHistory()
	if len(r.History()) != 0 {
		t.Error("expected empty history after clear")
	}
	if r.LastResult() != nil {
		t.Error("expected last result cleared")
	}
}
