// Package touch converts raw finger-contact samples into normalized point
// records and owns the lifecycle of one continuous multi-touch interaction.
package touch

import "math"

// Contact is a single raw sample for one finger, as delivered by the host
// input source. Pressure and Radius are zero when the device does not
// report them.
type Contact struct {
	ID       int64   `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure,omitempty"`
	Radius   float64 `json:"radius,omitempty"`
}

// Velocity is a rate of movement in pixels per millisecond.
type Velocity struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Magnitude returns the scalar speed in px/ms.
func (v Velocity) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// TouchPoint is the normalized record of one contact within a session. It
// is created on the first sample carrying a given contact id, updated on
// every later sample for that id, and discarded when the session ends.
type TouchPoint struct {
	ID        int64    `json:"id"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	StartX    float64  `json:"start_x"`
	StartY    float64  `json:"start_y"`
	DeltaX    float64  `json:"delta_x"`
	DeltaY    float64  `json:"delta_y"`
	Pressure  float64  `json:"pressure"`
	Radius    float64  `json:"radius"`
	Timestamp int64    `json:"timestamp"`
	Velocity  Velocity `json:"velocity"`
}

// Distance returns the straight-line travel from the point's start
// position to its current position.
func (p TouchPoint) Distance() float64 {
	return math.Sqrt(p.DeltaX*p.DeltaX + p.DeltaY*p.DeltaY)
}
