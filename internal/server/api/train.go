package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayusman/mudra/internal/shape"
	"github.com/ayusman/mudra/internal/store"
)

// TrainHandler builds pattern templates from stored training samples.
type TrainHandler struct {
	store     *store.Store
	trainer   *shape.Trainer
	refresher Refresher
}

// NewTrainHandler creates a TrainHandler over the given store.
func NewTrainHandler(s *store.Store, refresher Refresher) *TrainHandler {
	return &TrainHandler{
		store:     s,
		trainer:   shape.NewTrainer(),
		refresher: refresher,
	}
}

type trainResponse struct {
	PatternID string            `json:"pattern_id"`
	Samples   int               `json:"samples"`
	Points    []shape.PathPoint `json:"points"`
}

// Train handles POST /api/patterns/{id}/train. It averages the pattern's
// recorded samples into a template path and stores it as the pattern's
// new template.
func (h *TrainHandler) Train(w http.ResponseWriter, r *http.Request) {
	patternID := mux.Vars(r)["id"]

	if _, err := h.store.Patterns().GetByID(patternID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Pattern not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get pattern")
		return
	}

	records, err := h.store.Samples().GetByPatternID(patternID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load samples")
		return
	}
	if len(records) == 0 {
		writeError(w, http.StatusBadRequest, "Pattern has no samples to train from")
		return
	}

	samples := make([]shape.StrokeSample, 0, len(records))
	for _, rec := range records {
		s, err := shape.ParseSample(rec.Data)
		if err != nil {
			log.Printf("skipping unparseable sample %d for pattern %s: %v", rec.ID, patternID, err)
			continue
		}
		samples = append(samples, *s)
	}
	if len(samples) == 0 {
		writeError(w, http.StatusBadRequest, "No usable samples for pattern")
		return
	}

	points, err := h.trainer.Train(samples)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Training failed: "+err.Error())
		return
	}

	if err := h.store.Patterns().SetPoints(patternID, shapePointsToStore(points)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store trained template")
		return
	}

	if h.refresher != nil {
		h.refresher.LoadPatterns()
	}

	writeJSON(w, http.StatusOK, trainResponse{
		PatternID: patternID,
		Samples:   len(samples),
		Points:    points,
	})
}
