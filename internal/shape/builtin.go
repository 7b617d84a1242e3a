package shape

import "math"

// Built-in pattern ids.
const (
	PatternCheckmark      = "checkmark"
	PatternCircle         = "circle"
	PatternSquare         = "square"
	PatternTriangle       = "triangle"
	PatternZigzag         = "zigzag"
	PatternHorizontalLine = "line-horizontal"
)

// BuiltinPatterns returns the stock template library. Templates are
// defined in a unit box; recognition normalizes them alongside the
// candidate, so their absolute size is irrelevant.
func BuiltinPatterns() []*Pattern {
	return []*Pattern{
		checkmarkPattern(),
		circlePattern(),
		squarePattern(),
		trianglePattern(),
		zigzagPattern(),
		horizontalLinePattern(),
	}
}

// checkmarkPattern is a short down-right stroke meeting a longer rising
// stroke.
func checkmarkPattern() *Pattern {
	return &Pattern{
		ID:         PatternCheckmark,
		Name:       "Checkmark",
		Confidence: 1,
		Points: []PathPoint{
			{X: 0, Y: 0.5, T: 0},
			{X: 0.35, Y: 1, T: 40},
			{X: 1, Y: 0, T: 100},
		},
	}
}

// circlePattern traces a full circle clockwise from the top.
func circlePattern() *Pattern {
	const segments = 16
	points := make([]PathPoint, 0, segments+1)
	for i := 0; i <= segments; i++ {
		theta := -math.Pi/2 + 2*math.Pi*float64(i)/segments
		points = append(points, PathPoint{
			X: 0.5 + 0.5*math.Cos(theta),
			Y: 0.5 + 0.5*math.Sin(theta),
			T: int64(i * 20),
		})
	}
	return &Pattern{
		ID:         PatternCircle,
		Name:       "Circle",
		Confidence: 1,
		Points:     points,
	}
}

// squarePattern traces a square clockwise from the top-left corner, with
// edge midpoints so resampling lands on the sides rather than only the
// corners.
func squarePattern() *Pattern {
	return &Pattern{
		ID:         PatternSquare,
		Name:       "Square",
		Confidence: 1,
		Points: []PathPoint{
			{X: 0, Y: 0, T: 0},
			{X: 0.5, Y: 0, T: 25},
			{X: 1, Y: 0, T: 50},
			{X: 1, Y: 0.5, T: 75},
			{X: 1, Y: 1, T: 100},
			{X: 0.5, Y: 1, T: 125},
			{X: 0, Y: 1, T: 150},
			{X: 0, Y: 0.5, T: 175},
			{X: 0, Y: 0, T: 200},
		},
	}
}

// trianglePattern traces a triangle clockwise from the apex.
func trianglePattern() *Pattern {
	return &Pattern{
		ID:         PatternTriangle,
		Name:       "Triangle",
		Confidence: 1,
		Points: []PathPoint{
			{X: 0.5, Y: 0, T: 0},
			{X: 0.75, Y: 0.5, T: 30},
			{X: 1, Y: 1, T: 60},
			{X: 0.5, Y: 1, T: 90},
			{X: 0, Y: 1, T: 120},
			{X: 0.25, Y: 0.5, T: 150},
			{X: 0.5, Y: 0, T: 180},
		},
	}
}

// zigzagPattern is four alternating diagonal strokes.
func zigzagPattern() *Pattern {
	return &Pattern{
		ID:         PatternZigzag,
		Name:       "Zigzag",
		Confidence: 1,
		Points: []PathPoint{
			{X: 0, Y: 0, T: 0},
			{X: 0.25, Y: 1, T: 40},
			{X: 0.5, Y: 0, T: 80},
			{X: 0.75, Y: 1, T: 120},
			{X: 1, Y: 0, T: 160},
		},
	}
}

// horizontalLinePattern is a straight left-to-right stroke.
func horizontalLinePattern() *Pattern {
	return &Pattern{
		ID:         PatternHorizontalLine,
		Name:       "Horizontal Line",
		Confidence: 1,
		Points: []PathPoint{
			{X: 0, Y: 0.5, T: 0},
			{X: 0.5, Y: 0.5, T: 30},
			{X: 1, Y: 0.5, T: 60},
		},
	}
}
