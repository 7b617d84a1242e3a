// Package tray puts the daemon in the system tray: a recognition
// toggle, the most recent event, a settings shortcut, and quit.
package tray

import (
	"encoding/json"
	"log"
	"os/exec"
	"runtime"
	"sync"

	"github.com/getlantern/systray"
)

// Tray drives the systray menu. Callbacks run outside the internal
// lock so they may call back into the tray.
type Tray struct {
	mu          sync.RWMutex
	enabled     bool
	lastGesture string
	settingsURL string
	onToggle    func(enabled bool)
	onQuit      func()

	toggleItem *systray.MenuItem
	lastItem   *systray.MenuItem
}

// New creates a tray with recognition shown as enabled. settingsURL is
// opened in the browser from the settings menu entry; empty disables it.
func New(settingsURL string) *Tray {
	return &Tray{
		enabled:     true,
		settingsURL: settingsURL,
	}
}

// OnToggle sets the callback invoked when recognition is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnQuit sets the callback invoked before the tray shuts down.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray loop. It blocks until quit is selected.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Gesture Recognition")

	t.mu.Lock()
	t.toggleItem = systray.AddMenuItem("● Enabled", "Toggle gesture recognition")
	systray.AddSeparator()
	t.lastItem = systray.AddMenuItem("Last: none", "Last recognized event")
	t.lastItem.Disable()
	systray.AddSeparator()
	settingsItem := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()
	quitItem := systray.AddMenuItem("Quit", "Quit Mudra")
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-t.toggleItem.ClickedCh:
				t.toggle()
			case <-settingsItem.ClickedCh:
				t.openSettings()
			case <-quitItem.ClickedCh:
				t.quit()
				return
			}
		}
	}()
}

// Follow consumes hub envelopes from events and mirrors each event's
// type into the last-event menu entry, until the channel closes.
func (t *Tray) Follow(events <-chan []byte) {
	go func() {
		for msg := range events {
			var env struct {
				Data struct {
					Type string `json:"type"`
				} `json:"data"`
			}
			if err := json.Unmarshal(msg, &env); err != nil || env.Data.Type == "" {
				continue
			}
			t.SetLastGesture(env.Data.Type)
		}
	}()
}

// toggle flips the enabled state, updates the menu, and notifies the
// registered callback.
func (t *Tray) toggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.toggleItem != nil {
		if enabled {
			t.toggleItem.SetTitle("● Enabled")
		} else {
			t.toggleItem.SetTitle("○ Disabled")
		}
	}
	callback := t.onToggle
	t.mu.Unlock()

	if callback != nil {
		callback(enabled)
	}
}

// openSettings opens the settings URL with the platform's browser opener.
func (t *Tray) openSettings() {
	t.mu.RLock()
	url := t.settingsURL
	t.mu.RUnlock()
	if url == "" {
		return
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open settings page: %v", err)
	}
}

func (t *Tray) quit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
	systray.Quit()
}

// SetLastGesture records the most recent event and updates its menu entry.
func (t *Tray) SetLastGesture(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastGesture = name
	if t.lastItem == nil {
		return
	}
	if name == "" {
		t.lastItem.SetTitle("Last: none")
	} else {
		t.lastItem.SetTitle("Last: " + name)
	}
}

// LastGesture returns the most recently recorded event type.
func (t *Tray) LastGesture() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastGesture
}

// IsEnabled reports whether the tray shows recognition as enabled.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
