package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/replay"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/shape"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	addr := flag.String("addr", "", "listen address, overriding the configured one")
	replayPath := flag.String("replay", "", "play a recorded trace file and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if *replayPath != "" {
		if err := runReplay(cfg, *replayPath); err != nil {
			log.Fatalf("Replay failed: %v", err)
		}
		return
	}

	fmt.Println("Mudra - Gesture Recognition Daemon")

	dbPath := cfg.Storage.Path
	if dbPath == "" {
		dbPath, err = defaultDBPath()
		if err != nil {
			log.Fatalf("Failed to resolve database path: %v", err)
		}
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	hub := server.NewHub()

	core := app.New(app.Config{
		Store:         st,
		EngineOptions: cfg.Engine.GestureOptions(),
		ShapeOptions:  cfg.Shape.ShapeOptions(),
		PluginDir:     cfg.Plugins.Dir,
		PluginTimeout: time.Duration(cfg.Plugins.TimeoutMs) * time.Millisecond,
		Publish:       hub.Publish,
	})
	if err := core.Start(); err != nil {
		log.Fatalf("Failed to start recognition: %v", err)
	}
	defer core.Stop()

	if cfg.Shape.PatternDir != "" {
		watcher := shape.NewWatcher(cfg.Shape.PatternDir, core.Shapes())
		if err := watcher.Start(); err != nil {
			log.Printf("Pattern watcher disabled: %v", err)
		} else {
			defer watcher.Close()
			fmt.Printf("Watching pattern directory: %s\n", cfg.Shape.PatternDir)
		}
	}

	srv := server.New(server.Config{
		StaticDir: cfg.Server.StaticDir,
		Store:     st,
		Engine:    core.Engine(),
		Shapes:    core.Shapes(),
		Refresher: core,
		Hub:       hub,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	settingsAddr := cfg.Server.Addr
	if strings.HasPrefix(settingsAddr, ":") {
		settingsAddr = "localhost" + settingsAddr
	}
	t := tray.New("http://" + settingsAddr)
	t.OnToggle(core.SetEnabled)
	t.OnQuit(func() {
		log.Println("Shutting down")
	})
	t.Follow(hub.Subscribe())

	// Blocks until quit is selected from the menu.
	t.Run()
}

// defaultDBPath returns ~/.mudra/mudra.db, creating the directory.
func defaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dbDir, "mudra.db"), nil
}

// runReplay plays a recorded trace against a recognizer built from the
// configuration and prints every classified event.
func runReplay(cfg config.Config, path string) error {
	trace, err := replay.LoadTrace(path)
	if err != nil {
		return err
	}

	print := func(ev gesture.Event) {
		fmt.Printf("%-12s center=(%.0f,%.0f) duration=%dms distance=%.0fpx\n",
			ev.Type, ev.Center.X, ev.Center.Y, ev.Duration, ev.Distance)
	}

	opts := cfg.Engine.GestureOptions()
	engine := gesture.New(opts, gesture.Handlers{
		OnTap:       print,
		OnDoubleTap: print,
		OnLongPress: print,
		OnSwipe: func(dir gesture.Direction, ev gesture.Event) {
			fmt.Printf("%-12s direction=%s velocity=%.2fpx/ms\n", ev.Type, dir, ev.Velocity.Magnitude)
		},
		OnPan: print,
		OnPinch: func(scale float64, ev gesture.Event) {
			fmt.Printf("%-12s scale=%.2f\n", ev.Type, scale)
		},
		OnRotate: func(deg float64, ev gesture.Event) {
			fmt.Printf("%-12s rotation=%.1f°\n", ev.Type, deg)
		},
		OnForceTouch: func(pressure float64, ev gesture.Event) {
			fmt.Printf("%-12s pressure=%.2f\n", ev.Type, pressure)
		},
	})

	fmt.Printf("Replaying trace %q (%d events)\n", trace.Name, len(trace.Events))

	player := replay.NewPlayer(engine)
	player.Paced = true
	if err := player.Play(trace); err != nil {
		return err
	}

	// Delayed taps and the release grace window still have timers in
	// flight when the last event lands.
	time.Sleep(time.Duration(opts.DoubleTapDelay+opts.GraceDelay+100) * time.Millisecond)

	fmt.Printf("Classified %d events\n", len(engine.History()))
	return nil
}
