// Package replay plays recorded touch traces through a gesture
// recognizer, for debugging classifiers against captured input.
package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/touch"
)

// TraceEvent is one recorded input event.
type TraceEvent struct {
	Type     string          `json:"type"`
	TS       int64           `json:"ts"`
	Contacts []touch.Contact `json:"contacts,omitempty"`
}

// Trace is a named sequence of recorded input events.
type Trace struct {
	Name   string       `json:"name"`
	Events []TraceEvent `json:"events"`
}

// ParseTrace decodes a recorded trace from JSON.
func ParseTrace(data []byte) (*Trace, error) {
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse trace: %w", err)
	}
	if len(t.Events) == 0 {
		return nil, errors.New("trace has no events")
	}
	return &t, nil
}

// LoadTrace reads and parses a trace file.
func LoadTrace(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace %s: %w", path, err)
	}
	return ParseTrace(data)
}

// Player feeds recorded traces into a gesture recognizer.
type Player struct {
	engine *gesture.Recognizer

	// Paced sleeps out the recorded gap between events instead of
	// feeding them back to back. Classification timers run on the wall
	// clock, so paced replay reproduces tap and long-press timing.
	Paced bool
}

// NewPlayer creates a Player over the given recognizer.
func NewPlayer(engine *gesture.Recognizer) *Player {
	return &Player{engine: engine}
}

// Play feeds every event of the trace into the recognizer in order. It
// returns an error on the first event with an unknown type.
func (p *Player) Play(trace *Trace) error {
	var prev int64
	for i, ev := range trace.Events {
		if p.Paced && i > 0 && ev.TS > prev {
			time.Sleep(time.Duration(ev.TS-prev) * time.Millisecond)
		}
		prev = ev.TS

		switch ev.Type {
		case "start":
			p.engine.TouchStart(ev.Contacts, ev.TS)
		case "move":
			p.engine.TouchMove(ev.Contacts, ev.TS)
		case "end":
			p.engine.TouchEnd(ev.Contacts, ev.TS)
		case "cancel":
			p.engine.TouchCancel(ev.TS)
		default:
			return fmt.Errorf("trace %s: unknown event type %q at index %d", trace.Name, ev.Type, i)
		}
	}
	return nil
}
