package gesture

import "math"

// Multipliers applied to an event's confidence when the interaction sits
// near a threshold boundary: barely-moving swipes, very short presses, and
// tiny travels are more likely to be misread.
const (
	lowVelocityCutoff  = 0.1 // px/ms
	shortDurationMs    = 100
	shortTravelPx      = 10.0
	boundaryConfidence = 0.85
)

// confidence scores how unambiguous an interaction is. Each boundary
// condition multiplies the base score of 1, and the product is clamped to
// [0, 1].
func confidence(velocityMag float64, duration int64, distance float64) float64 {
	c := 1.0
	if velocityMag < lowVelocityCutoff {
		c *= boundaryConfidence
	}
	if duration < shortDurationMs {
		c *= boundaryConfidence
	}
	if distance < shortTravelPx {
		c *= boundaryConfidence
	}
	return clamp01(c)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// isTap reports whether a single-contact release qualifies as a tap:
// short travel, short duration, low velocity.
func isTap(o Options, ev Event) bool {
	return ev.Distance <= o.TapThreshold &&
		ev.Duration <= o.DoubleTapDelay &&
		ev.Velocity.Magnitude < o.TapMaxVelocity
}

// isSwipe reports whether a single-contact release qualifies as a swipe:
// enough travel at enough speed.
func isSwipe(o Options, ev Event) bool {
	return ev.Distance >= o.SwipeMinDistance &&
		ev.Velocity.Magnitude >= o.SwipeMinVelocity
}

// isDoubleTap reports whether the current tap release, paired with a
// previous unresolved tap, qualifies as a double-tap: released within the
// double-tap window and centered within the tap travel threshold.
func isDoubleTap(o Options, ev Event, prev *Event) bool {
	if prev == nil {
		return false
	}
	if ev.EndTime-prev.EndTime > o.DoubleTapDelay {
		return false
	}
	return math.Hypot(ev.Center.X-prev.Center.X, ev.Center.Y-prev.Center.Y) <= o.TapThreshold
}

// classifyRelease assigns the terminal classification of a resolved
// interaction in precedence order: double-tap, tap, swipe for single
// contacts; pinch, rotate for multi-contact sessions. The first matching
// type wins. longPressed marks sessions already resolved as a long-press,
// which bars the tap family but still permits a swipe. An empty Type
// means the interaction resolved without classification.
func classifyRelease(o Options, ev Event, prevTap *Event, multiTouch, longPressed bool) Type {
	if multiTouch {
		if math.Abs(ev.Scale-1) >= o.PinchSensitivity {
			return TypePinch
		}
		if math.Abs(ev.Rotation) >= o.RotateSensitivity {
			return TypeRotate
		}
		return ""
	}

	if !longPressed && isTap(o, ev) {
		if isDoubleTap(o, ev, prevTap) {
			return TypeDoubleTap
		}
		return TypeTap
	}
	if isSwipe(o, ev) {
		return TypeSwipe
	}
	return ""
}

// swipeDirection maps a movement vector to one of eight directions. The
// cardinal directions require the dominant axis to exceed twice the other;
// anything else is a diagonal. A zero vector has no direction.
func swipeDirection(dx, dy float64) Direction {
	adx, ady := math.Abs(dx), math.Abs(dy)
	if adx == 0 && ady == 0 {
		return DirectionNone
	}

	switch {
	case adx > 2*ady:
		if dx > 0 {
			return DirectionRight
		}
		return DirectionLeft
	case ady > 2*adx:
		if dy > 0 {
			return DirectionDown
		}
		return DirectionUp
	}

	if dy < 0 {
		if dx < 0 {
			return DirectionUpLeft
		}
		return DirectionUpRight
	}
	if dx < 0 {
		return DirectionDownLeft
	}
	return DirectionDownRight
}

// movementAngle returns the angle of a movement vector in degrees, or
// zero for a zero vector.
func movementAngle(dx, dy float64) float64 {
	if dx == 0 && dy == 0 {
		return 0
	}
	return math.Atan2(dy, dx) * 180 / math.Pi
}

// normalizeDegrees folds an angle into (-180, 180].
func normalizeDegrees(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}
