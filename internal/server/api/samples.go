package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayusman/mudra/internal/store"
)

// SamplesHandler handles HTTP requests for training sample resources.
type SamplesHandler struct {
	store *store.Store
}

// NewSamplesHandler creates a SamplesHandler over the given store.
func NewSamplesHandler(s *store.Store) *SamplesHandler {
	return &SamplesHandler{store: s}
}

type createSamplesRequest struct {
	Samples []json.RawMessage `json:"samples"`
}

type sampleResponse struct {
	ID          int64           `json:"id"`
	PatternID   string          `json:"pattern_id"`
	SampleIndex int             `json:"sample_index"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   string          `json:"created_at"`
}

type listSamplesResponse struct {
	Samples []sampleResponse `json:"samples"`
}

// List handles GET /api/patterns/{id}/samples.
func (h *SamplesHandler) List(w http.ResponseWriter, r *http.Request) {
	patternID := mux.Vars(r)["id"]

	samples, err := h.store.Samples().GetByPatternID(patternID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list samples")
		return
	}

	response := listSamplesResponse{
		Samples: make([]sampleResponse, 0, len(samples)),
	}
	for _, s := range samples {
		response.Samples = append(response.Samples, sampleResponse{
			ID:          s.ID,
			PatternID:   s.PatternID,
			SampleIndex: s.SampleIndex,
			Data:        s.Data,
			CreatedAt:   s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// Create handles POST /api/patterns/{id}/samples, appending recorded
// strokes to the pattern's training set.
func (h *SamplesHandler) Create(w http.ResponseWriter, r *http.Request) {
	patternID := mux.Vars(r)["id"]

	if _, err := h.store.Patterns().GetByID(patternID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Pattern not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to verify pattern")
		return
	}

	var req createSamplesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Samples) == 0 {
		writeError(w, http.StatusBadRequest, "At least one sample is required")
		return
	}

	if err := h.store.Samples().Create(patternID, req.Samples); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save samples")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// Delete handles DELETE /api/patterns/{id}/samples, clearing the
// pattern's training set without touching its trained template.
func (h *SamplesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	patternID := mux.Vars(r)["id"]

	if _, err := h.store.Patterns().GetByID(patternID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Pattern not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to verify pattern")
		return
	}

	if err := h.store.Samples().DeleteByPatternID(patternID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete samples")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
