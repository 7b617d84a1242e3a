package touch

// DefaultVelocityWindow is the number of centroid samples retained for the
// velocity estimate.
const DefaultVelocityWindow = 10

// centroidSample is one observation of the centroid of the active contacts.
type centroidSample struct {
	x  float64
	y  float64
	ts int64
}

// Tracker converts raw contact samples into TouchPoint records and keeps a
// smoothed velocity estimate over a rolling window of centroid samples.
// Averaging across the window suppresses the jitter that per-sample
// differencing would amplify.
type Tracker struct {
	window     []centroidSample
	windowSize int
}

// NewTracker creates a Tracker with the given window size. Sizes below two
// fall back to DefaultVelocityWindow.
func NewTracker(windowSize int) *Tracker {
	if windowSize < 2 {
		windowSize = DefaultVelocityWindow
	}
	return &Tracker{
		window:     make([]centroidSample, 0, windowSize),
		windowSize: windowSize,
	}
}

// Process builds TouchPoint records for a batch of raw contacts. Contacts
// already present in the session keep their original start position, so
// deltas accumulate across the whole interaction; unseen contacts start at
// their current position with zero delta. Every record carries the
// tracker's current velocity estimate. Process never modifies the session.
func (t *Tracker) Process(s *Session, contacts []Contact, ts int64) []TouchPoint {
	if len(contacts) == 0 {
		return nil
	}

	vel := t.Velocity()
	points := make([]TouchPoint, 0, len(contacts))

	for _, c := range contacts {
		p := TouchPoint{
			ID:        c.ID,
			X:         c.X,
			Y:         c.Y,
			StartX:    c.X,
			StartY:    c.Y,
			Pressure:  c.Pressure,
			Radius:    c.Radius,
			Timestamp: ts,
			Velocity:  vel,
		}

		if s != nil {
			if prev, ok := s.Touches[c.ID]; ok {
				p.StartX = prev.StartX
				p.StartY = prev.StartY
				p.DeltaX = c.X - prev.StartX
				p.DeltaY = c.Y - prev.StartY
			}
		}

		points = append(points, p)
	}

	return points
}

// Record pushes the centroid of the given points into the velocity window.
// Callers record contact-start and contact-move samples only; release
// samples stay out so the estimate reflects movement leading up to the
// release rather than the release itself.
func (t *Tracker) Record(points []TouchPoint, ts int64) {
	if len(points) == 0 {
		return
	}

	var cx, cy float64
	for _, p := range points {
		cx += p.X
		cy += p.Y
	}
	n := float64(len(points))

	if len(t.window) >= t.windowSize {
		copy(t.window, t.window[1:])
		t.window = t.window[:len(t.window)-1]
	}
	t.window = append(t.window, centroidSample{x: cx / n, y: cy / n, ts: ts})
}

// Velocity returns the average movement rate across the window in px/ms,
// computed from the first and last retained samples. Fewer than two
// samples, or a non-positive elapsed time, yields zero velocity.
func (t *Tracker) Velocity() Velocity {
	if len(t.window) < 2 {
		return Velocity{}
	}

	first := t.window[0]
	last := t.window[len(t.window)-1]

	elapsed := float64(last.ts - first.ts)
	if elapsed <= 0 {
		return Velocity{}
	}

	return Velocity{
		X: (last.x - first.x) / elapsed,
		Y: (last.y - first.y) / elapsed,
	}
}

// Reset clears the velocity window.
func (t *Tracker) Reset() {
	t.window = t.window[:0]
}
