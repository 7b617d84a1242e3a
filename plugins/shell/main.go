// Package main provides a shell plugin that runs a configured command
// when its bound trigger fires.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
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
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// config holds the action binding's settings.
type config struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if req.Action != "run" {
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
	if cfg.Command == "" {
		writeErrorResponse("no command configured")
		return
	}

	cmd := exec.Command(cfg.Command, cfg.Args...)
	// Let the command see what fired it.
	cmd.Env = append(os.Environ(),
		"MUDRA_TRIGGER_KIND="+req.Trigger.Kind,
		"MUDRA_TRIGGER_VALUE="+req.Trigger.Value,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		writeErrorResponse(fmt.Sprintf("command failed: %v: %s", err, string(output)))
		return
	}

	data, _ := json.Marshal(map[string]string{"output": string(output)})
	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Data: data})
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: false,
		Error:   errMsg,
	})
}
