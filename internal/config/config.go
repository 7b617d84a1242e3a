// Package config handles configuration loading and validation for the
// mudra daemon.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/shape"
)

// Config holds the complete daemon configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Engine  EngineConfig  `toml:"engine"`
	Shape   ShapeConfig   `toml:"shape"`
	Plugins PluginsConfig `toml:"plugins"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	// Addr is the listen address for the HTTP server.
	Addr string `toml:"addr"`

	// StaticDir is served at the root path when set.
	StaticDir string `toml:"static_dir"`
}

// StorageConfig holds the persistence configuration.
type StorageConfig struct {
	// Path is the SQLite database file. Empty means the default location
	// under the user's home directory.
	Path string `toml:"path"`
}

// EngineConfig holds the gesture classifier thresholds. Distances are in
// pixels, velocities in px/ms, delays in milliseconds.
type EngineConfig struct {
	TapThreshold       float64 `toml:"tap_threshold"`
	DoubleTapDelayMs   int64   `toml:"double_tap_delay_ms"`
	LongPressDelayMs   int64   `toml:"long_press_delay_ms"`
	SwipeMinDistance   float64 `toml:"swipe_min_distance"`
	SwipeMinVelocity   float64 `toml:"swipe_min_velocity"`
	TapMaxVelocity     float64 `toml:"tap_max_velocity"`
	PinchSensitivity   float64 `toml:"pinch_sensitivity"`
	RotateSensitivity  float64 `toml:"rotate_sensitivity"`
	ForceTouchPressure float64 `toml:"force_touch_pressure"`
	VelocityWindow     int     `toml:"velocity_window"`
	GraceDelayMs       int64   `toml:"grace_delay_ms"`
	HistorySize        int     `toml:"history_size"`
}

// ShapeConfig holds the shape recognizer pipeline settings.
type ShapeConfig struct {
	MinPointDistance    float64 `toml:"min_point_distance"`
	SmoothingFactor     float64 `toml:"smoothing_factor"`
	NormalizationSize   float64 `toml:"normalization_size"`
	ResampleCount       int     `toml:"resample_count"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	MinPoints           int     `toml:"min_points"`
	HistorySize         int     `toml:"history_size"`

	// PatternDir, when set, is watched for *.json template files that are
	// hot-loaded into the recognizer.
	PatternDir string `toml:"pattern_dir"`
}

// PluginsConfig holds plugin discovery and execution settings.
type PluginsConfig struct {
	// Dir is the plugin directory scanned for plugin.json manifests.
	Dir string `toml:"dir"`

	// TimeoutMs bounds a single plugin execution.
	TimeoutMs int `toml:"timeout_ms"`
}

// Default returns the fully-populated default configuration.
func Default() Config {
	g := gesture.DefaultOptions()
	sh := shape.DefaultOptions()

	return Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Engine: EngineConfig{
			TapThreshold:       g.TapThreshold,
			DoubleTapDelayMs:   g.DoubleTapDelay,
			LongPressDelayMs:   g.LongPressDelay,
			SwipeMinDistance:   g.SwipeMinDistance,
			SwipeMinVelocity:   g.SwipeMinVelocity,
			TapMaxVelocity:     g.TapMaxVelocity,
			PinchSensitivity:   g.PinchSensitivity,
			RotateSensitivity:  g.RotateSensitivity,
			ForceTouchPressure: g.ForceTouchPressure,
			VelocityWindow:     g.VelocityWindow,
			GraceDelayMs:       g.GraceDelay,
			HistorySize:        g.HistorySize,
		},
		Shape: ShapeConfig{
			MinPointDistance:    sh.MinPointDistance,
			SmoothingFactor:     sh.SmoothingFactor,
			NormalizationSize:   sh.NormalizationSize,
			ResampleCount:       sh.ResampleCount,
			SimilarityThreshold: sh.SimilarityThreshold,
			MinPoints:           sh.MinPoints,
			HistorySize:         sh.HistorySize,
		},
		Plugins: PluginsConfig{
			Dir:       "plugins",
			TimeoutMs: 5000,
		},
	}
}

// Load reads a TOML configuration file, layering it over the defaults. A
// missing file is not an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects out-of-range values. Zero values are allowed everywhere
// a default exists; the options constructors fill them in.
func (c Config) Validate() error {
	if c.Engine.TapThreshold < 0 {
		return fmt.Errorf("engine.tap_threshold must not be negative, got %v", c.Engine.TapThreshold)
	}
	if c.Engine.DoubleTapDelayMs < 0 {
		return fmt.Errorf("engine.double_tap_delay_ms must not be negative, got %d", c.Engine.DoubleTapDelayMs)
	}
	if c.Engine.LongPressDelayMs < 0 {
		return fmt.Errorf("engine.long_press_delay_ms must not be negative, got %d", c.Engine.LongPressDelayMs)
	}
	if c.Shape.SmoothingFactor < 0 || c.Shape.SmoothingFactor > 1 {
		return fmt.Errorf("shape.smoothing_factor must be in [0,1], got %v", c.Shape.SmoothingFactor)
	}
	if c.Shape.SimilarityThreshold < 0 || c.Shape.SimilarityThreshold > 1 {
		return fmt.Errorf("shape.similarity_threshold must be in [0,1], got %v", c.Shape.SimilarityThreshold)
	}
	if c.Shape.ResampleCount < 0 {
		return fmt.Errorf("shape.resample_count must not be negative, got %d", c.Shape.ResampleCount)
	}
	if c.Plugins.TimeoutMs < 0 {
		return fmt.Errorf("plugins.timeout_ms must not be negative, got %d", c.Plugins.TimeoutMs)
	}
	return nil
}

// GestureOptions maps the engine section onto the classifier options.
func (c EngineConfig) GestureOptions() gesture.Options {
	return gesture.Options{
		TapThreshold:       c.TapThreshold,
		DoubleTapDelay:     c.DoubleTapDelayMs,
		LongPressDelay:     c.LongPressDelayMs,
		SwipeMinDistance:   c.SwipeMinDistance,
		SwipeMinVelocity:   c.SwipeMinVelocity,
		TapMaxVelocity:     c.TapMaxVelocity,
		PinchSensitivity:   c.PinchSensitivity,
		RotateSensitivity:  c.RotateSensitivity,
		ForceTouchPressure: c.ForceTouchPressure,
		VelocityWindow:     c.VelocityWindow,
		GraceDelay:         c.GraceDelayMs,
		HistorySize:        c.HistorySize,
	}
}

// ShapeOptions maps the shape section onto the recognizer options.
func (c ShapeConfig) ShapeOptions() shape.Options {
	return shape.Options{
		MinPointDistance:    c.MinPointDistance,
		SmoothingFactor:     c.SmoothingFactor,
		NormalizationSize:   c.NormalizationSize,
		ResampleCount:       c.ResampleCount,
		SimilarityThreshold: c.SimilarityThreshold,
		MinPoints:           c.MinPoints,
		HistorySize:         c.HistorySize,
	}
}
