// Package shape matches completed freehand strokes against a library of
// named template patterns using dynamic time warping over normalized,
// resampled paths.
package shape

import (
	"math"
	"sort"
	"sync"
)

// PathPoint is one stroke sample in screen coordinates with a millisecond
// timestamp.
type PathPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	T int64   `json:"t"`
}

// Pattern is a named template stroke. Confidence weights the pattern's
// match scores and defaults to 1 when unset.
type Pattern struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Points     []PathPoint `json:"points"`
	Confidence float64     `json:"confidence"`
}

// Transformation reports how a raw stroke is placed relative to its
// normalized form.
type Transformation struct {
	Scale      float64 `json:"scale"`
	Rotation   float64 `json:"rotation"`
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
}

// Match scores one template against a candidate stroke.
type Match struct {
	PatternID      string         `json:"pattern_id"`
	Confidence     float64        `json:"confidence"`
	Similarity     float64        `json:"similarity"`
	Transformation Transformation `json:"transformation"`
}

// Result is the outcome of recognizing one stroke: the winning pattern
// plus every template that cleared the similarity threshold, best first.
type Result struct {
	Pattern    *Pattern `json:"pattern"`
	Confidence float64  `json:"confidence"`
	Score      float64  `json:"score"`
	Matches    []Match  `json:"matches"`
}

// Options configures the recognition pipeline. Zero-valued fields are
// replaced with their defaults.
type Options struct {
	// MinPointDistance is the movement in px below which a sample is
	// discarded as noise.
	MinPointDistance float64
	// SmoothingFactor is the weight an interior point keeps of itself
	// during smoothing; the remainder is split between its neighbors.
	SmoothingFactor float64
	// NormalizationSize is the side length of the box strokes are scaled
	// into before comparison.
	NormalizationSize float64
	// ResampleCount is the fixed number of points strokes are reduced to.
	ResampleCount int
	// SimilarityThreshold is the minimum similarity for a match.
	SimilarityThreshold float64
	// MinPoints is the minimum number of filtered points a stroke needs
	// to be recognizable.
	MinPoints int
	// HistorySize caps the retained recognition results.
	HistorySize int
}

// DefaultOptions returns the fully-populated default configuration.
func DefaultOptions() Options {
	return Options{
		MinPointDistance:    1,
		SmoothingFactor:     0.8,
		NormalizationSize:   100,
		ResampleCount:       32,
		SimilarityThreshold: 0.7,
		MinPoints:           3,
		HistorySize:         50,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinPointDistance <= 0 {
		o.MinPointDistance = d.MinPointDistance
	}
	if o.SmoothingFactor <= 0 {
		o.SmoothingFactor = d.SmoothingFactor
	}
	if o.NormalizationSize <= 0 {
		o.NormalizationSize = d.NormalizationSize
	}
	if o.ResampleCount <= 0 {
		o.ResampleCount = d.ResampleCount
	}
	if o.SimilarityThreshold <= 0 {
		o.SimilarityThreshold = d.SimilarityThreshold
	}
	if o.MinPoints <= 0 {
		o.MinPoints = d.MinPoints
	}
	if o.HistorySize <= 0 {
		o.HistorySize = d.HistorySize
	}
	return o
}

// Recognizer matches completed strokes against its template library. A
// stroke is captured through Start, AddPoint, and Stop, independent of the
// touch lifecycle, or recognized directly from a point slice with
// Recognize. Safe for concurrent use.
type Recognizer struct {
	opts Options

	// OnRecognized, if set before strokes are fed, fires for every
	// successful Stop recognition.
	OnRecognized func(*Result)

	mu        sync.Mutex
	patterns  []*Pattern
	stroke    []PathPoint
	capturing bool
	last      *Result
	history   []*Result
}

// NewRecognizer creates a Recognizer seeded with the built-in pattern
// library.
func NewRecognizer(opts Options) *Recognizer {
	return &Recognizer{
		opts:     opts.withDefaults(),
		patterns: BuiltinPatterns(),
	}
}

// Options returns the recognizer's effective configuration.
func (r *Recognizer) Options() Options {
	return r.opts
}

// Start begins capturing a stroke at the given position, discarding any
// capture already in progress.
func (r *Recognizer) Start(x, y float64, ts int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capturing = true
	r.stroke = r.stroke[:0]
	r.stroke = append(r.stroke, PathPoint{X: x, Y: y, T: ts})
}

// AddPoint extends the stroke being captured. Points arriving outside a
// capture are ignored.
func (r *Recognizer) AddPoint(x, y float64, ts int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.capturing {
		return
	}
	r.stroke = append(r.stroke, PathPoint{X: x, Y: y, T: ts})
}

// Stop ends the capture and recognizes the stroke. It returns nil, and
// fires no callback, when no capture was active or the stroke did not
// match any template.
func (r *Recognizer) Stop() *Result {
	r.mu.Lock()
	if !r.capturing {
		r.mu.Unlock()
		return nil
	}
	r.capturing = false
	stroke := make([]PathPoint, len(r.stroke))
	copy(stroke, r.stroke)
	r.mu.Unlock()

	res := r.Recognize(stroke)

	r.mu.Lock()
	r.last = res
	if res != nil {
		if len(r.history) >= r.opts.HistorySize {
			r.history = r.history[1:]
		}
		r.history = append(r.history, res)
	}
	cb := r.OnRecognized
	r.mu.Unlock()

	if res != nil && cb != nil {
		cb(res)
	}
	return res
}

// Recognize matches a stroke against the current templates without
// touching capture state or history. It returns nil when the stroke is
// too short or nothing clears the similarity threshold.
func (r *Recognizer) Recognize(points []PathPoint) *Result {
	filtered := filterPoints(points, r.opts.MinPointDistance)
	if len(filtered) < r.opts.MinPoints {
		return nil
	}

	candidate := r.prepare(filtered)
	transform := extractTransformation(filtered)
	patterns := r.Patterns()

	// The worst case pairs every resampled point at the full box
	// diagonal; similarity rescales the DTW distance against the box
	// side so identical strokes score 1 and the floor stays at 0.
	denom := r.opts.NormalizationSize * float64(r.opts.ResampleCount)

	var matches []Match
	for _, p := range patterns {
		if len(p.Points) == 0 {
			continue
		}
		tpl := r.prepare(p.Points)
		d := DTWDistance(candidate, tpl)
		if math.IsInf(d, 1) {
			continue
		}

		sim := 1 - d/denom
		if sim < 0 {
			sim = 0
		}
		if sim < r.opts.SimilarityThreshold {
			continue
		}

		weight := p.Confidence
		if weight <= 0 {
			weight = 1
		}
		matches = append(matches, Match{
			PatternID:      p.ID,
			Similarity:     sim,
			Confidence:     clampUnit(sim * weight),
			Transformation: transform,
		})
	}

	if len(matches) == 0 {
		return nil
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	best := matches[0]
	var pattern *Pattern
	for _, p := range patterns {
		if p.ID == best.PatternID {
			pattern = p
			break
		}
	}

	return &Result{
		Pattern:    pattern,
		Confidence: best.Confidence,
		Score:      best.Similarity,
		Matches:    matches,
	}
}

// prepare runs the smoothing, normalization, and resampling stages shared
// by candidates and templates.
func (r *Recognizer) prepare(points []PathPoint) []PathPoint {
	smoothed := smoothPoints(points, r.opts.SmoothingFactor)
	normalized := normalizePoints(smoothed, r.opts.NormalizationSize)
	return resamplePoints(normalized, r.opts.ResampleCount)
}

// AddPattern installs a template, replacing any existing one with the
// same id.
func (r *Recognizer) AddPattern(p *Pattern) {
	if p == nil || p.ID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.patterns {
		if existing.ID == p.ID {
			r.patterns[i] = p
			return
		}
	}
	r.patterns = append(r.patterns, p)
}

// RemovePattern drops the template with the given id, if present.
func (r *Recognizer) RemovePattern(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.patterns {
		if p.ID == id {
			r.patterns = append(r.patterns[:i], r.patterns[i+1:]...)
			return
		}
	}
}

// SetPatterns replaces the entire template library.
func (r *Recognizer) SetPatterns(patterns []*Pattern) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns = make([]*Pattern, len(patterns))
	copy(r.patterns, patterns)
}

// Patterns returns a copy of the template list.
func (r *Recognizer) Patterns() []*Pattern {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Pattern, len(r.patterns))
	copy(out, r.patterns)
	return out
}

// LastResult returns the most recent Stop outcome, which may be nil.
func (r *Recognizer) LastResult() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// History returns a copy of the retained recognition results, oldest
// first.
func (r *Recognizer) History() []*Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Result, len(r.history))
	copy(out, r.history)
	return out
}

// ClearHistory drops all retained results.
func (r *Recognizer) ClearHistory() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = r.history[:0]
	r.last = nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
