// Package api provides the HTTP API handlers for the mudra daemon.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ayusman/mudra/internal/shape"
	"github.com/ayusman/mudra/internal/store"
)

// Refresher reloads the live shape recognizer from the store after a
// pattern mutation. Handlers tolerate a nil Refresher.
type Refresher interface {
	LoadPatterns() error
}

// PatternsHandler handles HTTP requests for pattern resources.
type PatternsHandler struct {
	store     *store.Store
	refresher Refresher
}

// NewPatternsHandler creates a PatternsHandler over the given store.
func NewPatternsHandler(s *store.Store, refresher Refresher) *PatternsHandler {
	return &PatternsHandler{store: s, refresher: refresher}
}

// Request and response types

type createPatternRequest struct {
	Name       string            `json:"name"`
	Confidence float64           `json:"confidence"`
	Points     []shape.PathPoint `json:"points"`
}

type updatePatternRequest struct {
	Name       string            `json:"name"`
	Confidence float64           `json:"confidence"`
	Points     []shape.PathPoint `json:"points"`
}

type patternResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Confidence float64           `json:"confidence"`
	Samples    int               `json:"samples"`
	Points     []shape.PathPoint `json:"points,omitempty"`
	CreatedAt  string            `json:"created_at"`
	UpdatedAt  string            `json:"updated_at"`
}

type listPatternsResponse struct {
	Patterns []patternResponse `json:"patterns"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toPatternResponse converts a store.Pattern to a patternResponse.
func toPatternResponse(p *store.Pattern, points []shape.PathPoint) patternResponse {
	return patternResponse{
		ID:         p.ID,
		Name:       p.Name,
		Confidence: p.Confidence,
		Samples:    p.Samples,
		Points:     points,
		CreatedAt:  p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:  p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// storePointsToShape converts stored template points to stroke points.
func storePointsToShape(points []store.PathPoint) []shape.PathPoint {
	out := make([]shape.PathPoint, len(points))
	for i, p := range points {
		out[i] = shape.PathPoint{X: p.X, Y: p.Y, T: p.TMs}
	}
	return out
}

// shapePointsToStore converts stroke points to stored template points.
func shapePointsToStore(points []shape.PathPoint) []store.PathPoint {
	out := make([]store.PathPoint, len(points))
	for i, p := range points {
		out[i] = store.PathPoint{Sequence: i, X: p.X, Y: p.Y, TMs: p.T}
	}
	return out
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// refresh reloads the live recognizer, if one is wired in.
func (h *PatternsHandler) refresh() {
	if h.refresher != nil {
		h.refresher.LoadPatterns()
	}
}

// List handles GET /api/patterns.
func (h *PatternsHandler) List(w http.ResponseWriter, r *http.Request) {
	patterns, err := h.store.Patterns().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list patterns")
		return
	}

	response := listPatternsResponse{
		Patterns: make([]patternResponse, 0, len(patterns)),
	}
	for _, p := range patterns {
		response.Patterns = append(response.Patterns, toPatternResponse(p, nil))
	}

	writeJSON(w, http.StatusOK, response)
}

// Get handles GET /api/patterns/{id}, returning the pattern with its
// template points.
func (h *PatternsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	p, err := h.store.Patterns().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Pattern not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get pattern")
		return
	}

	points, err := h.store.Patterns().GetPoints(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get pattern points")
		return
	}

	writeJSON(w, http.StatusOK, toPatternResponse(p, storePointsToShape(points)))
}

// Create handles POST /api/patterns.
func (h *PatternsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.Confidence < 0 || req.Confidence > 1 {
		writeError(w, http.StatusBadRequest, "Confidence must be in [0,1]")
		return
	}

	p := &store.Pattern{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Confidence: req.Confidence,
	}

	if err := h.store.Patterns().Create(p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create pattern")
		return
	}

	if len(req.Points) > 0 {
		if err := h.store.Patterns().SetPoints(p.ID, shapePointsToStore(req.Points)); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to store pattern points")
			return
		}
	}

	h.refresh()
	writeJSON(w, http.StatusCreated, toPatternResponse(p, req.Points))
}

// Update handles PUT /api/patterns/{id}.
func (h *PatternsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	p, err := h.store.Patterns().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Pattern not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get pattern")
		return
	}

	var req updatePatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Confidence != 0 {
		if req.Confidence < 0 || req.Confidence > 1 {
			writeError(w, http.StatusBadRequest, "Confidence must be in [0,1]")
			return
		}
		p.Confidence = req.Confidence
	}

	if err := h.store.Patterns().Update(p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update pattern")
		return
	}

	if len(req.Points) > 0 {
		if err := h.store.Patterns().SetPoints(id, shapePointsToStore(req.Points)); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to store pattern points")
			return
		}
	}

	h.refresh()
	writeJSON(w, http.StatusOK, toPatternResponse(p, req.Points))
}

// Delete handles DELETE /api/patterns/{id}. Template points and samples
// cascade in the store.
func (h *PatternsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.Patterns().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Pattern not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete pattern")
		return
	}

	h.refresh()
	w.WriteHeader(http.StatusNoContent)
}
