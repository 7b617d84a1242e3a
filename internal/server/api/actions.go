package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ayusman/mudra/internal/store"
)

// ActionHandler handles HTTP requests for action binding resources.
type ActionHandler struct {
	store *store.Store
}

// NewActionHandler creates an ActionHandler over the given store.
func NewActionHandler(s *store.Store) *ActionHandler {
	return &ActionHandler{store: s}
}

// Request and response types

type createActionRequest struct {
	TriggerKind  string          `json:"trigger_kind"`
	TriggerValue string          `json:"trigger_value"`
	PluginName   string          `json:"plugin_name"`
	ActionName   string          `json:"action_name"`
	Config       json.RawMessage `json:"config"`
}

type updateActionRequest struct {
	TriggerKind  string          `json:"trigger_kind"`
	TriggerValue string          `json:"trigger_value"`
	PluginName   string          `json:"plugin_name"`
	ActionName   string          `json:"action_name"`
	Config       json.RawMessage `json:"config"`
	Enabled      *bool           `json:"enabled"`
}

type actionResponse struct {
	ID           string          `json:"id"`
	TriggerKind  string          `json:"trigger_kind"`
	TriggerValue string          `json:"trigger_value"`
	PluginName   string          `json:"plugin_name"`
	ActionName   string          `json:"action_name"`
	Config       json.RawMessage `json:"config"`
	Enabled      bool            `json:"enabled"`
	CreatedAt    string          `json:"created_at"`
}

type listActionsResponse struct {
	Actions []actionResponse `json:"actions"`
}

// toActionResponse converts a store.Action to an actionResponse.
func toActionResponse(a *store.Action) actionResponse {
	config := a.Config
	if config == nil {
		config = json.RawMessage("{}")
	}
	return actionResponse{
		ID:           a.ID,
		TriggerKind:  a.TriggerKind,
		TriggerValue: a.TriggerValue,
		PluginName:   a.PluginName,
		ActionName:   a.ActionName,
		Config:       config,
		Enabled:      a.Enabled,
		CreatedAt:    a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// validateTrigger checks that a trigger kind/value pair is well formed.
// Pattern triggers must reference an existing pattern.
func (h *ActionHandler) validateTrigger(kind, value string) (status int, message string) {
	if kind != store.TriggerGesture && kind != store.TriggerPattern {
		return http.StatusBadRequest, "trigger_kind must be \"gesture\" or \"pattern\""
	}
	if value == "" {
		return http.StatusBadRequest, "trigger_value is required"
	}

	if kind == store.TriggerPattern {
		if _, err := h.store.Patterns().GetByID(value); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return http.StatusBadRequest, "Pattern not found"
			}
			return http.StatusInternalServerError, "Failed to verify pattern"
		}
	}
	return 0, ""
}

// List handles GET /api/actions.
func (h *ActionHandler) List(w http.ResponseWriter, r *http.Request) {
	actions, err := h.store.Actions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list actions")
		return
	}

	response := listActionsResponse{
		Actions: make([]actionResponse, 0, len(actions)),
	}
	for _, a := range actions {
		response.Actions = append(response.Actions, toActionResponse(a))
	}

	writeJSON(w, http.StatusOK, response)
}

// Get handles GET /api/actions/{id}.
func (h *ActionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	action, err := h.store.Actions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get action")
		return
	}

	writeJSON(w, http.StatusOK, toActionResponse(action))
}

// Create handles POST /api/actions.
func (h *ActionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.PluginName == "" {
		writeError(w, http.StatusBadRequest, "plugin_name is required")
		return
	}
	if req.ActionName == "" {
		writeError(w, http.StatusBadRequest, "action_name is required")
		return
	}
	if status, msg := h.validateTrigger(req.TriggerKind, req.TriggerValue); status != 0 {
		writeError(w, status, msg)
		return
	}

	existing, err := h.store.Actions().GetByTrigger(req.TriggerKind, req.TriggerValue)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check existing action")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "Action already bound to this trigger")
		return
	}

	config := req.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	action := &store.Action{
		ID:           uuid.New().String(),
		TriggerKind:  req.TriggerKind,
		TriggerValue: req.TriggerValue,
		PluginName:   req.PluginName,
		ActionName:   req.ActionName,
		Config:       config,
		Enabled:      true,
	}

	if err := h.store.Actions().Create(action); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create action")
		return
	}

	writeJSON(w, http.StatusCreated, toActionResponse(action))
}

// Update handles PUT /api/actions/{id}.
func (h *ActionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	action, err := h.store.Actions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get action")
		return
	}

	var req updateActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.TriggerKind != "" || req.TriggerValue != "" {
		kind := req.TriggerKind
		if kind == "" {
			kind = action.TriggerKind
		}
		value := req.TriggerValue
		if value == "" {
			value = action.TriggerValue
		}
		if status, msg := h.validateTrigger(kind, value); status != 0 {
			writeError(w, status, msg)
			return
		}
		action.TriggerKind = kind
		action.TriggerValue = value
	}
	if req.PluginName != "" {
		action.PluginName = req.PluginName
	}
	if req.ActionName != "" {
		action.ActionName = req.ActionName
	}
	if req.Config != nil {
		action.Config = req.Config
	}
	if req.Enabled != nil {
		action.Enabled = *req.Enabled
	}

	if err := h.store.Actions().Update(action); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update action")
		return
	}

	writeJSON(w, http.StatusOK, toActionResponse(action))
}

// Delete handles DELETE /api/actions/{id}.
func (h *ActionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.Actions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete action")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
