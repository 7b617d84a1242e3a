// Package server provides the HTTP server for the mudra gesture daemon.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/shape"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration. Nil components disable the
// routes that depend on them.
type Config struct {
	StaticDir string
	Store     *store.Store
	Engine    *gesture.Recognizer
	Shapes    *shape.Recognizer
	Refresher api.Refresher
	Hub       *Hub
}

// Server is the HTTP front end of the daemon.
type Server struct {
	config Config
	router *mux.Router
	start  time.Time
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: mux.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/health", s.handleHealth).Methods("GET")

	if s.config.Store != nil {
		patterns := api.NewPatternsHandler(s.config.Store, s.config.Refresher)
		samples := api.NewSamplesHandler(s.config.Store)
		train := api.NewTrainHandler(s.config.Store, s.config.Refresher)
		actions := api.NewActionHandler(s.config.Store)

		s.router.HandleFunc("/api/patterns", patterns.List).Methods("GET")
		s.router.HandleFunc("/api/patterns", patterns.Create).Methods("POST")
		s.router.HandleFunc("/api/patterns/{id}", patterns.Get).Methods("GET")
		s.router.HandleFunc("/api/patterns/{id}", patterns.Update).Methods("PUT")
		s.router.HandleFunc("/api/patterns/{id}", patterns.Delete).Methods("DELETE")

		s.router.HandleFunc("/api/patterns/{id}/samples", samples.List).Methods("GET")
		s.router.HandleFunc("/api/patterns/{id}/samples", samples.Create).Methods("POST")
		s.router.HandleFunc("/api/patterns/{id}/samples", samples.Delete).Methods("DELETE")

		s.router.HandleFunc("/api/patterns/{id}/train", train.Train).Methods("POST")

		s.router.HandleFunc("/api/actions", actions.List).Methods("GET")
		s.router.HandleFunc("/api/actions", actions.Create).Methods("POST")
		s.router.HandleFunc("/api/actions/{id}", actions.Get).Methods("GET")
		s.router.HandleFunc("/api/actions/{id}", actions.Update).Methods("PUT")
		s.router.HandleFunc("/api/actions/{id}", actions.Delete).Methods("DELETE")
	}

	if s.config.Shapes != nil {
		recognize := api.NewRecognizeHandler(s.config.Shapes)
		s.router.HandleFunc("/api/recognize", recognize.Recognize).Methods("POST")
	}

	if s.config.Engine != nil || s.config.Shapes != nil {
		s.router.HandleFunc("/api/history", s.handleHistory).Methods("GET")
	}

	if s.config.Hub != nil {
		events := NewEventsHandler(s.config.Hub, s.config.Engine, s.config.Shapes)
		s.router.Handle("/api/events", events)

		stream := NewStreamHandler(s.config.Hub)
		s.router.Handle("/api/stream", stream).Methods("GET")
	}

	if s.config.StaticDir != "" {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// handleHistory handles GET /api/history, returning the recent gesture
// events and shape recognition results, oldest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	gestures := []gesture.Event{}
	if s.config.Engine != nil {
		gestures = s.config.Engine.History()
	}
	patterns := []*shape.Result{}
	if s.config.Shapes != nil {
		patterns = s.config.Shapes.History()
	}

	response := map[string]interface{}{
		"gestures": gestures,
		"patterns": patterns,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
