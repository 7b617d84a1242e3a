package gesture

import (
	"math"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/touch"
)

// Handlers bundles the callback surface of a Recognizer. Any field may be
// nil; nil callbacks are skipped. Callbacks are invoked outside the
// recognizer's internal lock, so they may safely call back into it.
type Handlers struct {
	// OnGestureStart fires when the first contact of a session lands.
	OnGestureStart func(Event)
	// OnGestureEnd fires when a session resolves. The event carries the
	// terminal classification, or an empty Type when none applied.
	OnGestureEnd func(Event)
	OnTap        func(Event)
	OnDoubleTap  func(Event)
	OnLongPress  func(Event)
	OnSwipe      func(Direction, Event)
	// OnPan fires for every move sample of a single-contact session.
	OnPan func(Event)
	// OnPinch and OnRotate fire on multi-contact move samples that cross
	// their thresholds, pinch taking precedence at any given instant.
	OnPinch  func(float64, Event)
	OnRotate func(float64, Event)
	// OnForceTouch fires at most once per session, the first time the
	// mean pressure exceeds the threshold.
	OnForceTouch func(float64, Event)
}

// Recognizer turns a stream of contact samples into classified gesture
// events. Hosts feed it through TouchStart, TouchMove, TouchEnd, and
// TouchCancel with millisecond timestamps of their choosing; wall time is
// used only to drive the long-press, double-tap, and grace timers.
//
// Each Recognizer owns its session, velocity window, and history;
// instances share nothing and are safe for concurrent use.
type Recognizer struct {
	opts     Options
	handlers Handlers

	mu      sync.Mutex
	tracker *touch.Tracker
	session *touch.Session

	// gen counts sessions so that timer callbacks scheduled for a
	// finalized session recognize themselves as stale.
	gen uint64

	longPressed  bool
	forceFired   bool
	lastScale    float64
	lastRotation float64

	// A resolved tap is held here through the double-tap window before it
	// is emitted. The slot outlives the session that produced it.
	pendingTap   *Event
	pendingTimer *time.Timer

	history []Event
}

// New creates a Recognizer with the given options and callbacks.
// Zero-valued option fields take their defaults.
func New(opts Options, handlers Handlers) *Recognizer {
	opts = opts.withDefaults()
	return &Recognizer{
		opts:      opts,
		handlers:  handlers,
		tracker:   touch.NewTracker(opts.VelocityWindow),
		lastScale: 1,
		history:   make([]Event, 0, opts.HistorySize),
	}
}

// Options returns the recognizer's effective configuration with defaults
// applied.
func (r *Recognizer) Options() Options {
	return r.opts
}

// TouchStart feeds contact-down samples. The first contact opens a
// session; contacts landing while a session is active join it. A contact
// arriving during the post-release grace window finalizes the previous
// session first.
func (r *Recognizer) TouchStart(contacts []touch.Contact, ts int64) {
	if len(contacts) == 0 {
		return
	}

	var fires []func()
	r.mu.Lock()

	if r.session != nil && r.session.State() == touch.StateResolving {
		r.finalizeSessionLocked()
	}

	isNew := r.session == nil
	if isNew {
		r.gen++
		r.session = touch.NewSession(ts)
		r.longPressed = false
		r.forceFired = false
		r.lastScale = 1
		r.lastRotation = 0
	}

	points := r.tracker.Process(r.session, contacts, ts)
	r.session.Update(points, ts)
	r.tracker.Record(r.session.Snapshot(), ts)

	if isNew {
		ev := r.buildEventLocked("", ts)
		if h := r.handlers.OnGestureStart; h != nil {
			fires = append(fires, func() { h(ev) })
		}
	}

	if r.session.PointerCount() == 1 && isNew {
		gen := r.gen
		r.session.ArmLongPress(millis(r.opts.LongPressDelay), func() { r.longPressFired(gen) })
	} else if r.session.PointerCount() > 1 {
		// Long-press requires a lone contact.
		r.session.CancelLongPress()
	}

	r.checkForceTouchLocked(ts, &fires)

	r.mu.Unlock()
	for _, f := range fires {
		f()
	}
}

// TouchMove feeds contact-move samples for an active session. Samples
// arriving with no session in the Tracking state are ignored.
func (r *Recognizer) TouchMove(contacts []touch.Contact, ts int64) {
	if len(contacts) == 0 {
		return
	}

	var fires []func()
	r.mu.Lock()

	s := r.session
	if s == nil || s.State() != touch.StateTracking {
		r.mu.Unlock()
		return
	}

	points := r.tracker.Process(s, contacts, ts)
	s.Update(points, ts)
	r.tracker.Record(s.Snapshot(), ts)

	if s.MaxDistance() > r.opts.TapThreshold || s.PointerCount() > 1 {
		s.CancelLongPress()
	}

	if s.PointerCount() == 1 {
		ev := r.buildEventLocked(TypePan, ts)
		if h := r.handlers.OnPan; h != nil {
			fires = append(fires, func() { h(ev) })
		}
	} else if s.MultiTouch() {
		ev := r.buildEventLocked("", ts)
		if math.Abs(ev.Scale-1) >= r.opts.PinchSensitivity {
			ev.Type = TypePinch
			if h := r.handlers.OnPinch; h != nil {
				scale := ev.Scale
				fires = append(fires, func() { h(scale, ev) })
			}
		} else if math.Abs(ev.Rotation) >= r.opts.RotateSensitivity {
			ev.Type = TypeRotate
			if h := r.handlers.OnRotate; h != nil {
				rotation := ev.Rotation
				fires = append(fires, func() { h(rotation, ev) })
			}
		}
	}

	r.checkForceTouchLocked(ts, &fires)

	r.mu.Unlock()
	for _, f := range fires {
		f()
	}
}

// TouchEnd feeds the final samples of lifted contacts. When contacts
// remain down the session keeps tracking; when the last contact lifts the
// interaction resolves and its terminal classification is dispatched.
func (r *Recognizer) TouchEnd(contacts []touch.Contact, ts int64) {
	if len(contacts) == 0 {
		return
	}

	var fires []func()
	r.mu.Lock()

	s := r.session
	if s == nil || s.State() != touch.StateTracking {
		r.mu.Unlock()
		return
	}

	lifted := 0
	for _, c := range contacts {
		if _, ok := s.Touches[c.ID]; ok {
			lifted++
		}
	}
	if lifted == 0 {
		// Release for contacts this session never saw.
		r.mu.Unlock()
		return
	}

	// Fold the final release positions in, but keep them out of the
	// velocity window.
	points := r.tracker.Process(s, contacts, ts)
	s.Update(points, ts)

	if lifted < s.PointerCount() {
		for _, c := range contacts {
			s.Remove(c.ID)
		}
		s.CancelLongPress()
		r.mu.Unlock()
		return
	}

	r.resolveLocked(ts, &fires)

	r.mu.Unlock()
	for _, f := range fires {
		f()
	}
}

// TouchCancel aborts the active session without classification. No
// callbacks fire, including start/end notifications, and the velocity
// window is cleared. A tap already queued from an earlier interaction is
// unaffected.
func (r *Recognizer) TouchCancel(ts int64) {
	r.mu.Lock()
	if r.session != nil {
		r.finalizeSessionLocked()
	}
	r.mu.Unlock()
}

// Reset aborts any active session and any queued tap without firing
// callbacks. History is preserved.
func (r *Recognizer) Reset() {
	r.mu.Lock()
	if r.session != nil {
		r.finalizeSessionLocked()
	}
	r.clearPendingLocked()
	r.mu.Unlock()
}

// History returns a copy of the retained events, oldest first.
func (r *Recognizer) History() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.history))
	copy(out, r.history)
	return out
}

// ClearHistory drops all retained events.
func (r *Recognizer) ClearHistory() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = r.history[:0]
}

// resolveLocked classifies the fully-released session and schedules the
// grace timer that will discard it.
func (r *Recognizer) resolveLocked(ts int64, fires *[]func()) {
	s := r.session
	s.CancelLongPress()
	s.Resolve()

	end := r.buildEventLocked("", ts)
	typ := classifyRelease(r.opts, end, r.pendingTap, s.MultiTouch(), r.longPressed)

	switch typ {
	case TypeDoubleTap:
		r.clearPendingLocked()
		end.Type = TypeDoubleTap
		r.appendHistoryLocked(end)
		if h := r.handlers.OnDoubleTap; h != nil {
			ev := end
			*fires = append(*fires, func() { h(ev) })
		}

	case TypeTap:
		end.Type = TypeTap
		// A queued tap that did not pair up resolves alone, immediately.
		r.flushPendingLocked(fires)
		ev := end
		r.pendingTap = &ev
		r.pendingTimer = time.AfterFunc(millis(r.opts.DoubleTapDelay), r.pendingTapFired)

	case TypeSwipe:
		end.Type = TypeSwipe
		if len(end.Points) > 0 {
			end.Direction = swipeDirection(end.Points[0].DeltaX, end.Points[0].DeltaY)
		}
		r.appendHistoryLocked(end)
		if h := r.handlers.OnSwipe; h != nil {
			ev := end
			*fires = append(*fires, func() { h(ev.Direction, ev) })
		}

	case TypePinch, TypeRotate:
		// Live callbacks already fired during the move phase; the
		// terminal event is recorded and reported through OnGestureEnd.
		end.Type = typ
		r.appendHistoryLocked(end)
	}

	if h := r.handlers.OnGestureEnd; h != nil {
		ev := end
		*fires = append(*fires, func() { h(ev) })
	}

	gen := r.gen
	s.ArmGrace(millis(r.opts.GraceDelay), func() { r.graceFired(gen) })
}

// longPressFired runs on the long-press timer. It re-checks eligibility
// under the lock: the session may have moved, grown a second contact, or
// resolved since the timer was armed.
func (r *Recognizer) longPressFired(gen uint64) {
	r.mu.Lock()
	s := r.session
	if r.gen != gen || s == nil || s.State() != touch.StateTracking {
		r.mu.Unlock()
		return
	}
	if s.PointerCount() != 1 || s.MaxDistance() > r.opts.TapThreshold {
		r.mu.Unlock()
		return
	}

	r.longPressed = true
	// Timestamps are synthesized from the session anchor so events stay
	// deterministic regardless of timer scheduling jitter.
	ev := r.buildEventLocked(TypeLongPress, s.StartTime+r.opts.LongPressDelay)
	r.appendHistoryLocked(ev)
	h := r.handlers.OnLongPress
	r.mu.Unlock()

	if h != nil {
		h(ev)
	}
}

// pendingTapFired runs on the double-tap timer: no second tap arrived in
// time, so the queued tap is emitted as a plain tap.
func (r *Recognizer) pendingTapFired() {
	r.mu.Lock()
	ev := r.pendingTap
	r.pendingTap = nil
	r.pendingTimer = nil
	var h func(Event)
	if ev != nil {
		r.appendHistoryLocked(*ev)
		h = r.handlers.OnTap
	}
	r.mu.Unlock()

	if ev != nil && h != nil {
		h(*ev)
	}
}

// graceFired runs on the grace timer and discards the resolved session.
func (r *Recognizer) graceFired(gen uint64) {
	r.mu.Lock()
	if r.gen == gen && r.session != nil {
		r.finalizeSessionLocked()
	}
	r.mu.Unlock()
}

func (r *Recognizer) finalizeSessionLocked() {
	r.gen++
	r.session.Teardown()
	r.session = nil
	r.tracker.Reset()
	r.longPressed = false
	r.forceFired = false
	r.lastScale = 1
	r.lastRotation = 0
}

func (r *Recognizer) flushPendingLocked(fires *[]func()) {
	if r.pendingTap == nil {
		return
	}
	ev := *r.pendingTap
	r.clearPendingLocked()
	r.appendHistoryLocked(ev)
	if h := r.handlers.OnTap; h != nil {
		*fires = append(*fires, func() { h(ev) })
	}
}

func (r *Recognizer) clearPendingLocked() {
	if r.pendingTimer != nil {
		r.pendingTimer.Stop()
		r.pendingTimer = nil
	}
	r.pendingTap = nil
}

func (r *Recognizer) checkForceTouchLocked(ts int64, fires *[]func()) {
	if r.forceFired {
		return
	}
	if r.session.MeanPressure() <= r.opts.ForceTouchPressure {
		return
	}

	r.forceFired = true
	ev := r.buildEventLocked(TypeForceTouch, ts)
	r.appendHistoryLocked(ev)
	if h := r.handlers.OnForceTouch; h != nil {
		*fires = append(*fires, func() { h(ev.Pressure, ev) })
	}
}

// buildEventLocked snapshots the session into an Event at the given
// timestamp.
func (r *Recognizer) buildEventLocked(typ Type, ts int64) Event {
	s := r.session
	points := s.Snapshot()
	cx, cy := s.Centroid()
	vel := r.tracker.Velocity()

	ev := Event{
		Type:      typ,
		StartTime: s.StartTime,
		EndTime:   ts,
		Duration:  ts - s.StartTime,
		Points:    points,
		Center:    Point{X: cx, Y: cy},
		Velocity:  Velocity{X: vel.X, Y: vel.Y, Magnitude: vel.Magnitude()},
		Direction: DirectionNone,
		Scale:     1,
		Pressure:  s.MeanPressure(),
	}

	if len(points) > 0 {
		primary := points[0]
		ev.Distance = primary.Distance()
		ev.Angle = movementAngle(primary.DeltaX, primary.DeltaY)
	}

	if s.MultiTouch() {
		if s.PointerCount() >= 2 {
			if init := s.InitialSeparation(); init > 0 {
				r.lastScale = s.Separation() / init
			}
			r.lastRotation = normalizeDegrees((s.Angle() - s.InitialAngle()) * 180 / math.Pi)
		}
		// After a partial release the live pair is gone; the last
		// measured values carry through to resolution.
		ev.Scale = r.lastScale
		ev.Rotation = r.lastRotation
	}

	ev.Confidence = confidence(ev.Velocity.Magnitude, ev.Duration, ev.Distance)
	return ev
}

func (r *Recognizer) appendHistoryLocked(ev Event) {
	if len(r.history) >= r.opts.HistorySize {
		r.history = r.history[1:]
	}
	r.history = append(r.history, ev)
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
