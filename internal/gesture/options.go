package gesture

// Options configures every classifier threshold. Zero-valued fields are
// replaced with their defaults, so callers set only what they need to
// change. Distances are in pixels, velocities in px/ms, delays in
// milliseconds.
type Options struct {
	// TapThreshold is the maximum travel for taps and long-presses.
	TapThreshold float64
	// DoubleTapDelay is both the window in which a second tap upgrades the
	// first to a double-tap and the hold applied to a lone tap before it
	// is emitted.
	DoubleTapDelay int64
	// LongPressDelay is the hold duration before a long-press fires.
	LongPressDelay int64
	// SwipeMinDistance is the minimum travel for a swipe.
	SwipeMinDistance float64
	// SwipeMinVelocity is the minimum release velocity for a swipe.
	SwipeMinVelocity float64
	// TapMaxVelocity is the velocity above which a release cannot be a tap.
	TapMaxVelocity float64
	// PinchSensitivity is the minimum |scale-1| before a pinch fires.
	PinchSensitivity float64
	// RotateSensitivity is the minimum rotation in degrees before a
	// rotate fires.
	RotateSensitivity float64
	// ForceTouchPressure is the mean pressure above which a force-touch
	// fires.
	ForceTouchPressure float64
	// VelocityWindow is the number of centroid samples in the velocity
	// estimate.
	VelocityWindow int
	// GraceDelay is how long the final snapshot is held after release
	// before the session is discarded.
	GraceDelay int64
	// HistorySize caps the in-memory event history.
	HistorySize int
}

// DefaultOptions returns the fully-populated default configuration.
func DefaultOptions() Options {
	return Options{
		TapThreshold:       10,
		DoubleTapDelay:     300,
		LongPressDelay:     500,
		SwipeMinDistance:   30,
		SwipeMinVelocity:   0.3,
		TapMaxVelocity:     1.0,
		PinchSensitivity:   0.01,
		RotateSensitivity:  5,
		ForceTouchPressure: 0.5,
		VelocityWindow:     10,
		GraceDelay:         10,
		HistorySize:        50,
	}
}

// withDefaults fills zero-valued fields with their defaults.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TapThreshold <= 0 {
		o.TapThreshold = d.TapThreshold
	}
	if o.DoubleTapDelay <= 0 {
		o.DoubleTapDelay = d.DoubleTapDelay
	}
	if o.LongPressDelay <= 0 {
		o.LongPressDelay = d.LongPressDelay
	}
	if o.SwipeMinDistance <= 0 {
		o.SwipeMinDistance = d.SwipeMinDistance
	}
	if o.SwipeMinVelocity <= 0 {
		o.SwipeMinVelocity = d.SwipeMinVelocity
	}
	if o.TapMaxVelocity <= 0 {
		o.TapMaxVelocity = d.TapMaxVelocity
	}
	if o.PinchSensitivity <= 0 {
		o.PinchSensitivity = d.PinchSensitivity
	}
	if o.RotateSensitivity <= 0 {
		o.RotateSensitivity = d.RotateSensitivity
	}
	if o.ForceTouchPressure <= 0 {
		o.ForceTouchPressure = d.ForceTouchPressure
	}
	if o.VelocityWindow <= 0 {
		o.VelocityWindow = d.VelocityWindow
	}
	if o.GraceDelay <= 0 {
		o.GraceDelay = d.GraceDelay
	}
	if o.HistorySize <= 0 {
		o.HistorySize = d.HistorySize
	}
	return o
}
