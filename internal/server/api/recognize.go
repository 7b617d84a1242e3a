package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/shape"
)

// RecognizeHandler runs ad-hoc stroke recognition against the live
// template library.
type RecognizeHandler struct {
	shapes *shape.Recognizer
}

// NewRecognizeHandler creates a RecognizeHandler over the given
// recognizer.
func NewRecognizeHandler(shapes *shape.Recognizer) *RecognizeHandler {
	return &RecognizeHandler{shapes: shapes}
}

type recognizeRequest struct {
	Points []shape.PathPoint `json:"points"`
}

type recognizeResponse struct {
	Recognized bool          `json:"recognized"`
	Result     *shape.Result `json:"result,omitempty"`
}

// Recognize handles POST /api/recognize. The submitted stroke is matched
// without touching capture state or history.
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	var req recognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Points) < 2 {
		writeError(w, http.StatusBadRequest, "At least two points are required")
		return
	}

	result := h.shapes.Recognize(req.Points)
	writeJSON(w, http.StatusOK, recognizeResponse{
		Recognized: result != nil,
		Result:     result,
	})
}
