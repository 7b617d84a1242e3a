package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/replay"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/shape"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/testdata"
)

// newTestDaemon stands up the full stack: store, app core, hub, and HTTP
// server, the way cmd/mudra wires them.
func newTestDaemon(t *testing.T) (*httptest.Server, *app.App, *store.Store) {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	hub := server.NewHub()
	core := app.New(app.Config{Store: s, Publish: hub.Publish})
	if err := core.Start(); err != nil {
		t.Fatalf("app.Start() error = %v", err)
	}
	t.Cleanup(core.Stop)

	srv := server.New(server.Config{
		Store:     s,
		Engine:    core.Engine(),
		Shapes:    core.Shapes(),
		Refresher: core,
		Hub:       hub,
	})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return ts, core, s
}

func TestE2E_PatternLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	ts, core, _ := newTestDaemon(t)
	client := ts.Client()

	// 1. Create a pattern over the API.
	resp, err := client.Post(ts.URL+"/api/patterns", "application/json",
		strings.NewReader(`{"name": "vee", "confidence": 0.9}`))
	if err != nil {
		t.Fatalf("create pattern error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create pattern status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var created struct {
		ID string `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	// 2. Record samples and train.
	samples := `{"samples": [
		{"points": [{"x": 0, "y": 0, "t": 0}, {"x": 50, "y": 100, "t": 100}, {"x": 100, "y": 0, "t": 200}]},
		{"points": [{"x": 1, "y": 2, "t": 0}, {"x": 51, "y": 102, "t": 100}, {"x": 101, "y": 2, "t": 200}]}
	]}`
	resp, err = client.Post(ts.URL+"/api/patterns/"+created.ID+"/samples", "application/json",
		strings.NewReader(samples))
	if err != nil {
		t.Fatalf("add samples error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add samples status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	resp.Body.Close()

	resp, err = client.Post(ts.URL+"/api/patterns/"+created.ID+"/train", "application/json", nil)
	if err != nil {
		t.Fatalf("train error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("train status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// 3. Training refreshed the live recognizer.
	var loaded bool
	for _, tpl := range core.Shapes().Patterns() {
		if tpl.ID == created.ID {
			loaded = true
		}
	}
	if !loaded {
		t.Fatal("trained pattern not loaded into the live recognizer")
	}

	// 4. A matching stroke recognizes over the API.
	stroke := `{"points": [
		{"x": 200, "y": 200, "t": 0},
		{"x": 250, "y": 300, "t": 100},
		{"x": 300, "y": 200, "t": 200}
	]}`
	resp, err = client.Post(ts.URL+"/api/recognize", "application/json", strings.NewReader(stroke))
	if err != nil {
		t.Fatalf("recognize error = %v", err)
	}
	var result struct {
		Recognized bool `json:"recognized"`
		Result     struct {
			Pattern struct {
				ID string `json:"id"`
			} `json:"pattern"`
		} `json:"result"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	resp.Body.Close()

	if !result.Recognized {
		t.Fatal("expected stroke to be recognized")
	}
	if result.Result.Pattern.ID != created.ID {
		t.Errorf("recognized pattern = %s, want %s", result.Result.Pattern.ID, created.ID)
	}
}

func TestE2E_TraceReplayFillsHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	ts, core, _ := newTestDaemon(t)
	client := ts.Client()

	trace, err := testdata.LoadTrace("swipe-right")
	if err != nil {
		t.Fatalf("LoadTrace() error = %v", err)
	}

	if err := replay.NewPlayer(core.Engine()).Play(trace); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	resp, err := client.Get(ts.URL + "/api/history")
	if err != nil {
		t.Fatalf("GET /api/history error = %v", err)
	}
	defer resp.Body.Close()

	var history struct {
		Gestures []struct {
			Type      string `json:"type"`
			Direction string `json:"direction"`
		} `json:"gestures"`
	}
	json.NewDecoder(resp.Body).Decode(&history)

	if len(history.Gestures) == 0 {
		t.Fatal("expected gesture history after replay")
	}
	last := history.Gestures[len(history.Gestures)-1]
	if last.Type != "swipe" || last.Direction != "right" {
		t.Errorf("last event = %s/%s, want swipe/right", last.Type, last.Direction)
	}
}

func TestE2E_StrokeFixtureMatchesBuiltin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	points, err := testdata.LoadStroke("checkmark")
	if err != nil {
		t.Fatalf("LoadStroke() error = %v", err)
	}

	r := shape.NewRecognizer(shape.Options{})
	res := r.Recognize(points)
	if res == nil {
		t.Fatal("expected checkmark stroke to be recognized")
	}
	if res.Pattern.ID != shape.PatternCheckmark {
		t.Errorf("pattern = %s, want %s", res.Pattern.ID, shape.PatternCheckmark)
	}
}

func TestE2E_ActionBinding(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	ts, _, _ := newTestDaemon(t)
	client := ts.Client()

	actionReq := map[string]interface{}{
		"trigger_kind":  "gesture",
		"trigger_value": "swipe-left",
		"plugin_name":   "shell",
		"action_name":   "run",
		"config":        map[string]string{"command": "true"},
	}
	body, _ := json.Marshal(actionReq)

	resp, err := client.Post(ts.URL+"/api/actions", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("create action error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create action status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	resp.Body.Close()

	resp, err = client.Get(ts.URL + "/api/actions")
	if err != nil {
		t.Fatalf("list actions error = %v", err)
	}
	defer resp.Body.Close()

	var listResp struct {
		Actions []struct {
			TriggerKind  string `json:"trigger_kind"`
			TriggerValue string `json:"trigger_value"`
			PluginName   string `json:"plugin_name"`
			Enabled      bool   `json:"enabled"`
		} `json:"actions"`
	}
	json.NewDecoder(resp.Body).Decode(&listResp)

	if len(listResp.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(listResp.Actions))
	}
	a := listResp.Actions[0]
	if a.TriggerKind != "gesture" || a.TriggerValue != "swipe-left" {
		t.Errorf("trigger = %s/%s, want gesture/swipe-left", a.TriggerKind, a.TriggerValue)
	}
	if !a.Enabled {
		t.Error("expected action enabled by default")
	}
}
