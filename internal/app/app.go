// Package app wires the gesture engine, shape recognizer, pattern store,
// and action plugins into one running daemon core.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/shape"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds configuration options for the application core.
type Config struct {
	Store         *store.Store
	EngineOptions gesture.Options
	ShapeOptions  shape.Options
	PluginDir     string
	PluginTimeout time.Duration

	// Publish, if set, receives every recognized event for broadcast.
	Publish func(kind string, payload interface{})
}

// App routes recognized gestures and patterns to bound plugin actions
// and to the broadcast hub.
type App struct {
	config     Config
	engine     *gesture.Recognizer
	shapes     *shape.Recognizer
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor

	mu      sync.RWMutex
	enabled bool
}

// New creates an App with the given configuration. Recognition starts
// disabled until SetEnabled(true).
func New(config Config) *App {
	a := &App{
		config:     config,
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(config.PluginTimeout),
	}

	a.engine = gesture.New(config.EngineOptions, gesture.Handlers{
		OnGestureStart: func(ev gesture.Event) { a.publish("gesture-start", ev) },
		OnGestureEnd:   func(ev gesture.Event) { a.publish("gesture-end", ev) },
		OnTap:          func(ev gesture.Event) { a.onGesture(string(gesture.TypeTap), ev) },
		OnDoubleTap:    func(ev gesture.Event) { a.onGesture(string(gesture.TypeDoubleTap), ev) },
		OnLongPress:    func(ev gesture.Event) { a.onGesture(string(gesture.TypeLongPress), ev) },
		OnSwipe: func(dir gesture.Direction, ev gesture.Event) {
			a.onGesture(string(gesture.TypeSwipe)+"-"+string(dir), ev)
		},
		OnPan:        func(ev gesture.Event) { a.onGesture(string(gesture.TypePan), ev) },
		OnPinch:      func(scale float64, ev gesture.Event) { a.onGesture(string(gesture.TypePinch), ev) },
		OnRotate:     func(deg float64, ev gesture.Event) { a.onGesture(string(gesture.TypeRotate), ev) },
		OnForceTouch: func(pressure float64, ev gesture.Event) { a.onGesture(string(gesture.TypeForceTouch), ev) },
	})

	a.shapes = shape.NewRecognizer(config.ShapeOptions)
	a.shapes.OnRecognized = a.onPattern

	return a
}

// SetEnabled enables or disables action dispatch and broadcast.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled reports whether recognition output is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// LoadPatterns rebuilds the shape recognizer's template library from the
// built-in set plus every stored pattern that has a trained template.
// Stored patterns shadow built-ins with the same id.
func (a *App) LoadPatterns() error {
	templates := shape.BuiltinPatterns()

	if a.config.Store != nil {
		patterns, err := a.config.Store.Patterns().List()
		if err != nil {
			return err
		}

		loaded := 0
		for _, p := range patterns {
			points, err := a.config.Store.Patterns().GetPoints(p.ID)
			if err != nil {
				log.Printf("failed to load points for pattern %s: %v", p.Name, err)
				continue
			}
			if len(points) == 0 {
				continue
			}

			tpl := &shape.Pattern{
				ID:         p.ID,
				Name:       p.Name,
				Confidence: p.Confidence,
				Points:     storePointsToShape(points),
			}
			templates = upsertPattern(templates, tpl)
			loaded++
		}
		log.Printf("Loaded %d trained patterns from database", loaded)
	}

	a.shapes.SetPatterns(templates)
	return nil
}

// upsertPattern replaces the template with a matching id or appends.
func upsertPattern(templates []*shape.Pattern, p *shape.Pattern) []*shape.Pattern {
	for i, existing := range templates {
		if existing.ID == p.ID {
			templates[i] = p
			return templates
		}
	}
	return append(templates, p)
}

// storePointsToShape converts stored template points to stroke points.
func storePointsToShape(points []store.PathPoint) []shape.PathPoint {
	out := make([]shape.PathPoint, len(points))
	for i, p := range points {
		out[i] = shape.PathPoint{X: p.X, Y: p.Y, T: p.TMs}
	}
	return out
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start loads patterns and plugins and enables recognition output.
func (a *App) Start() error {
	if err := a.DiscoverPlugins(); err != nil {
		return err
	}
	if err := a.LoadPatterns(); err != nil {
		return err
	}

	a.SetEnabled(true)
	log.Printf("Recognition started with %d plugins and %d patterns",
		len(a.pluginMgr.List()), len(a.shapes.Patterns()))
	return nil
}

// Stop disables recognition output and drops any in-flight session.
func (a *App) Stop() {
	a.SetEnabled(false)
	a.engine.Reset()
	log.Println("Recognition stopped")
}

// Engine returns the touch gesture recognizer.
func (a *App) Engine() *gesture.Recognizer {
	return a.engine
}

// Shapes returns the freehand shape recognizer.
func (a *App) Shapes() *shape.Recognizer {
	return a.shapes
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// publish forwards an event to the broadcast hub, if one is wired in.
func (a *App) publish(kind string, payload interface{}) {
	if !a.IsEnabled() {
		return
	}
	if a.config.Publish != nil {
		a.config.Publish(kind, payload)
	}
}
