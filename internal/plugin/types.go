// Package plugin provides discovery and execution of external action
// plugins for the mudra gesture daemon. Plugins are standalone executables
// that receive a JSON request on stdin and answer with a JSON response on
// stdout.
package plugin

import "encoding/json"

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Trigger identifies what fired an action: a classified gesture type
// (kind "gesture", value like "swipe-left") or a recognized shape pattern
// (kind "pattern", value = pattern id).
type Trigger struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Request represents a request sent to a plugin for execution. Event
// carries the classified gesture or recognition result as raw JSON so
// plugins can inspect it without depending on engine types.
type Request struct {
	Action  string          `json:"action"`
	Trigger Trigger         `json:"trigger"`
	Event   json.RawMessage `json:"event,omitempty"`
	Config  json.RawMessage `json:"config"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
