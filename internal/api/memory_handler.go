package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wordpath/wordpath-api/internal/api/shared"
	"github.com/wordpath/wordpath-api/internal/domain"
	"github.com/wordpath/wordpath-api/internal/service/memory"
)

// UpdateMemoryRequest is the request body for partial memory updates. The
// fields mirror the record's merge rules: recent lists are prepended and
// capped, preferred words are merged key-by-key, and the program context is
// merged field-by-field.
type UpdateMemoryRequest struct {
	RecentGoals      []string               `json:"recentGoals"`
	RecentUtterances []string               `json:"recentUtterances"`
	PreferredWords   map[string]int         `json:"preferredWords"   validate:"omitempty,dive,gte=0"`
	ProgramContext   *ProgramContextPayload `json:"programContext"`
}

// ProgramContextPayload is the program context portion of an update.
type ProgramContextPayload struct {
	RawText        string   `json:"rawText"`
	ExtractedGoals []string `json:"extractedGoals"`
	TargetWords    []string `json:"targetWords"`
}

// RecordWordsRequest is the request body for recording spoken words. An
// empty list is valid and leaves the record unchanged apart from updatedAt.
type RecordWordsRequest struct {
	Words []string `json:"words"`
}

// RecordUtteranceRequest is the request body for recording a spoken
// utterance.
type RecordUtteranceRequest struct {
	Utterance string `json:"utterance" validate:"required"`
}

// MemoryHandler handles session memory HTTP requests.
type MemoryHandler struct {
	memory    *memory.Service
	validator *validator.Validate
}

// NewMemoryHandler creates a MemoryHandler.
func NewMemoryHandler(memoryService *memory.Service) *MemoryHandler {
	return &MemoryHandler{
		memory:    memoryService,
		validator: validator.New(),
	}
}

// GetMemory handles GET /api/memory/{sessionID}. It never fails for an
// unseen session; a fresh empty record is synthesized instead.
func (h *MemoryHandler) GetMemory(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	record, err := h.memory.Get(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid session ID", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, record)
}

// UpdateMemory handles PATCH /api/memory/{sessionID}, applying the per-field
// merge rules. Malformed payloads are rejected before they reach the store.
func (h *MemoryHandler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateMemoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	record, err := h.memory.ApplyUpdate(r.Context(), sessionID, toMemoryUpdate(req))
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Failed to update memory", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, record)
}

// RecordWords handles POST /api/memory/{sessionID}/words.
func (h *MemoryHandler) RecordWords(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req RecordWordsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	record, err := h.memory.RecordWords(r.Context(), sessionID, req.Words)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Failed to record words", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, record)
}

// RecordUtterance handles POST /api/memory/{sessionID}/utterances.
func (h *MemoryHandler) RecordUtterance(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req RecordUtteranceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	record, err := h.memory.RecordUtterance(r.Context(), sessionID, req.Utterance)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Failed to record utterance", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, record)
}

// GetForecast handles GET /api/memory/{sessionID}/forecast, a read-only
// projection of the current record.
func (h *MemoryHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	forecast, err := h.memory.Forecast(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid session ID", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, forecast)
}

// sessionIDParam extracts the session ID path parameter, writing a 400
// response and returning false when it is missing.
func sessionIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Session ID is required")
		return "", false
	}
	return sessionID, true
}

// toMemoryUpdate converts the request DTO into the domain update type.
func toMemoryUpdate(req UpdateMemoryRequest) domain.MemoryUpdate {
	update := domain.MemoryUpdate{
		RecentGoals:      req.RecentGoals,
		RecentUtterances: req.RecentUtterances,
		PreferredWords:   req.PreferredWords,
	}
	if req.ProgramContext != nil {
		update.ProgramContext = &domain.ProgramContext{
			RawText:        req.ProgramContext.RawText,
			ExtractedGoals: req.ProgramContext.ExtractedGoals,
			TargetWords:    req.ProgramContext.TargetWords,
		}
	}
	return update
}
