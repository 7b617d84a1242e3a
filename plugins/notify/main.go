// Package main provides a desktop notification plugin. It uses
// notify-send on Linux and osascript on macOS.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string `json:"action"`
	Trigger struct {
		Kind  string `json:"kind"`
		Value string `json:"value"`
	} `json:"trigger"`
	Event  json.RawMessage `json:"event"`
	Config json.RawMessage `json:"config"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// config holds the action binding's settings.
type config struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if req.Action != "send" {
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	var cfg config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to decode config: %v", err))
			return
		}
	}
	if cfg.Title == "" {
		cfg.Title = "Mudra"
	}
	if cfg.Message == "" {
		cfg.Message = fmt.Sprintf("%s: %s", req.Trigger.Kind, req.Trigger.Value)
	}

	if err := notify(cfg.Title, cfg.Message); err != nil {
		writeErrorResponse(fmt.Sprintf("notification failed: %v", err))
		return
	}

	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

// notify shows a desktop notification with the platform's native tool.
func notify(title, message string) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", message, title)
		return run("osascript", "-e", script)
	default:
		return run("notify-send", title, message)
	}
}

func run(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: false,
		Error:   errMsg,
	})
}
