package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/wordpath/wordpath-api/internal/api/shared"
	"github.com/wordpath/wordpath-api/internal/domain"
	"github.com/wordpath/wordpath-api/internal/program"
	"github.com/wordpath/wordpath-api/internal/service/memory"
)

// AnalyzeProgramRequest is the request body for program document analysis.
type AnalyzeProgramRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

// AnalyzeProgramResponse carries the extraction result and the merged
// program context now stored on the session.
type AnalyzeProgramResponse struct {
	Analysis       program.Analysis       `json:"analysis"`
	ProgramContext *domain.ProgramContext `json:"programContext"`
}

// ProgramHandler analyzes uploaded program documents and merges the
// extracted goals and target words into session memory.
type ProgramHandler struct {
	memory    *memory.Service
	validator *validator.Validate
}

// NewProgramHandler creates a ProgramHandler.
func NewProgramHandler(memoryService *memory.Service) *ProgramHandler {
	return &ProgramHandler{
		memory:    memoryService,
		validator: validator.New(),
	}
}

// AnalyzeProgram handles POST /api/memory/{sessionID}/program. The extracted
// goals also land on the recent-goals list through the standard merge rules.
func (h *ProgramHandler) AnalyzeProgram(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req AnalyzeProgramRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	analysis := program.Analyze(req.Text)

	update := domain.MemoryUpdate{
		RecentGoals: analysis.ExtractedGoals,
		ProgramContext: &domain.ProgramContext{
			RawText:        req.Text,
			ExtractedGoals: analysis.ExtractedGoals,
			TargetWords:    analysis.TargetWords,
		},
	}

	record, err := h.memory.ApplyUpdate(r.Context(), sessionID, update)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Failed to store program context", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AnalyzeProgramResponse{
		Analysis:       analysis,
		ProgramContext: record.ProgramContext,
	})
}
