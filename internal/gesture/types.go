// Package gesture classifies streams of touch contact samples into
// discrete interaction events such as taps, swipes, pinches, and
// long-presses.
package gesture

import "github.com/ayusman/mudra/internal/touch"

// Type identifies a classified interaction.
type Type string

const (
	TypeTap        Type = "tap"
	TypeDoubleTap  Type = "double-tap"
	TypeLongPress  Type = "long-press"
	TypeSwipe      Type = "swipe"
	TypePan        Type = "pan"
	TypePinch      Type = "pinch"
	TypeRotate     Type = "rotate"
	TypeForceTouch Type = "force-touch"
)

// Direction labels the dominant movement axis of a swipe. Coordinates are
// screen-space, so a positive y delta points down.
type Direction string

const (
	DirectionNone      Direction = "none"
	DirectionLeft      Direction = "left"
	DirectionRight     Direction = "right"
	DirectionUp        Direction = "up"
	DirectionDown      Direction = "down"
	DirectionUpLeft    Direction = "up-left"
	DirectionUpRight   Direction = "up-right"
	DirectionDownLeft  Direction = "down-left"
	DirectionDownRight Direction = "down-right"
)

// Point is a position in screen coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Velocity is the smoothed movement rate attached to an event, in px/ms.
type Velocity struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Magnitude float64 `json:"magnitude"`
}

// Event is an immutable snapshot of one classified interaction. Start and
// end notifications reuse the same shape with an empty Type when no
// classification applies.
type Event struct {
	Type      Type               `json:"type"`
	StartTime int64              `json:"start_time"`
	EndTime   int64              `json:"end_time"`
	Duration  int64              `json:"duration"`
	Points    []touch.TouchPoint `json:"points"`
	Center    Point              `json:"center"`
	Velocity  Velocity           `json:"velocity"`

	// Direction and Angle describe the movement of the primary contact.
	// Direction is set for swipes and none otherwise.
	Direction Direction `json:"direction"`
	Angle     float64   `json:"angle"`
	Distance  float64   `json:"distance"`

	// Scale and Rotation carry pinch state for multi-touch sessions and
	// stay at their neutral values (1 and 0) for single contacts.
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`

	Pressure   float64 `json:"pressure"`
	Confidence float64 `json:"confidence"`
}
