package touch

import (
	"math"
	"sort"
	"time"
)

// State identifies where a session is in its lifecycle.
type State int

const (
	// StateIdle means the session has been finalized.
	StateIdle State = iota
	// StateTracking means at least one contact is down.
	StateTracking
	// StateResolving means every contact has lifted and the final snapshot
	// is being held through the grace delay.
	StateResolving
)

// Session owns the contact points and pending timers of one continuous
// multi-touch interaction, from first contact to full release. A contact
// landing while the session is active joins the same session rather than
// starting a new one.
//
// Sessions are not safe for concurrent use; the owning recognizer
// serializes all access, including timer callbacks.
type Session struct {
	StartTime  int64
	LastUpdate int64
	Touches    map[int64]*TouchPoint

	state State

	// Geometry between the two lowest-id contacts, captured the moment the
	// session first holds two or more. Pinch scale and rotation are
	// measured against these.
	initialSeparation float64
	initialAngle      float64
	multiTouch        bool

	longPress *time.Timer
	grace     *time.Timer
}

// NewSession creates a session in the Tracking state, anchored at the
// given start timestamp.
func NewSession(ts int64) *Session {
	return &Session{
		StartTime:  ts,
		LastUpdate: ts,
		Touches:    make(map[int64]*TouchPoint),
		state:      StateTracking,
	}
}

// State returns the session's lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Resolve moves the session into the Resolving state.
func (s *Session) Resolve() {
	s.state = StateResolving
}

// Update upserts the given points into the session and advances
// LastUpdate. The first time the session holds two or more contacts, the
// separation and angle between the two lowest-id contacts are captured as
// the baseline for pinch and rotation measurements.
func (s *Session) Update(points []TouchPoint, ts int64) {
	for i := range points {
		p := points[i]
		s.Touches[p.ID] = &p
	}
	s.LastUpdate = ts

	if !s.multiTouch && len(s.Touches) >= 2 {
		s.initialSeparation = s.Separation()
		s.initialAngle = s.Angle()
		s.multiTouch = true
	}
}

// Remove drops a contact from the session.
func (s *Session) Remove(id int64) {
	delete(s.Touches, id)
}

// PointerCount returns the number of contacts currently held.
func (s *Session) PointerCount() int {
	return len(s.Touches)
}

// MultiTouch reports whether the session ever held two or more contacts.
func (s *Session) MultiTouch() bool {
	return s.multiTouch
}

// Snapshot returns a copy of the current points ordered by contact id.
func (s *Session) Snapshot() []TouchPoint {
	points := make([]TouchPoint, 0, len(s.Touches))
	for _, p := range s.Touches {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].ID < points[j].ID })
	return points
}

// Primary returns the lowest-id contact, or nil when the session is empty.
func (s *Session) Primary() *TouchPoint {
	var primary *TouchPoint
	for _, p := range s.Touches {
		if primary == nil || p.ID < primary.ID {
			primary = p
		}
	}
	return primary
}

// Centroid returns the mean position of the current contacts.
func (s *Session) Centroid() (float64, float64) {
	if len(s.Touches) == 0 {
		return 0, 0
	}
	var cx, cy float64
	for _, p := range s.Touches {
		cx += p.X
		cy += p.Y
	}
	n := float64(len(s.Touches))
	return cx / n, cy / n
}

// MaxDistance returns the largest travel of any current contact from its
// start position.
func (s *Session) MaxDistance() float64 {
	var max float64
	for _, p := range s.Touches {
		if d := p.Distance(); d > max {
			max = d
		}
	}
	return max
}

// MeanPressure returns the average pressure across the current contacts.
func (s *Session) MeanPressure() float64 {
	if len(s.Touches) == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.Touches {
		sum += p.Pressure
	}
	return sum / float64(len(s.Touches))
}

// Separation returns the distance between the two lowest-id contacts, or
// zero when fewer than two are held.
func (s *Session) Separation() float64 {
	a, b := s.pinchPair()
	if a == nil || b == nil {
		return 0
	}
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Angle returns the angle in radians of the vector from the lowest-id
// contact to the second-lowest, or zero when fewer than two are held.
func (s *Session) Angle() float64 {
	a, b := s.pinchPair()
	if a == nil || b == nil {
		return 0
	}
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// InitialSeparation returns the separation captured when the session first
// became multi-touch.
func (s *Session) InitialSeparation() float64 {
	return s.initialSeparation
}

// InitialAngle returns the angle captured when the session first became
// multi-touch.
func (s *Session) InitialAngle() float64 {
	return s.initialAngle
}

// pinchPair returns the two lowest-id contacts in id order.
func (s *Session) pinchPair() (*TouchPoint, *TouchPoint) {
	var first, second *TouchPoint
	for _, p := range s.Touches {
		switch {
		case first == nil || p.ID < first.ID:
			second = first
			first = p
		case second == nil || p.ID < second.ID:
			second = p
		}
	}
	return first, second
}

// ArmLongPress schedules fn after d, replacing any earlier long-press
// timer.
func (s *Session) ArmLongPress(d time.Duration, fn func()) {
	s.CancelLongPress()
	s.longPress = time.AfterFunc(d, fn)
}

// CancelLongPress stops the pending long-press timer, if any.
func (s *Session) CancelLongPress() {
	if s.longPress != nil {
		s.longPress.Stop()
		s.longPress = nil
	}
}

// ArmGrace schedules fn after d, replacing any earlier grace timer.
func (s *Session) ArmGrace(d time.Duration, fn func()) {
	if s.grace != nil {
		s.grace.Stop()
	}
	s.grace = time.AfterFunc(d, fn)
}

// Teardown stops all pending timers and marks the session idle.
func (s *Session) Teardown() {
	s.CancelLongPress()
	if s.grace != nil {
		s.grace.Stop()
		s.grace = nil
	}
	s.state = StateIdle
}
