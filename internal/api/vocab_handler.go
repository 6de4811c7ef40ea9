package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/wordpath/wordpath-api/internal/api/shared"
	"github.com/wordpath/wordpath-api/internal/service/memory"
	"github.com/wordpath/wordpath-api/internal/vocab"
)

// RelatedWordLookup fetches words semantically related to a topic. Lookups
// are best-effort; failures degrade to core-vocabulary-only suggestions.
type RelatedWordLookup interface {
	RelatedWords(ctx context.Context, topic, trigger string) ([]string, error)
}

// CandidatesResponse is the response body for vocabulary suggestions.
type CandidatesResponse struct {
	Slot       string   `json:"slot"`
	Label      string   `json:"label"`
	Candidates []string `json:"candidates"`
}

// VocabHandler serves slot vocabulary suggestions, ordered by the session's
// word preferences and optionally expanded with related-word lookups.
type VocabHandler struct {
	memory *memory.Service
	lookup RelatedWordLookup
}

// NewVocabHandler creates a VocabHandler. lookup may be nil, in which case
// topic expansion is disabled.
func NewVocabHandler(memoryService *memory.Service, lookup RelatedWordLookup) *VocabHandler {
	return &VocabHandler{
		memory: memoryService,
		lookup: lookup,
	}
}

// GetCandidates handles GET /api/vocab/{slot}. Query parameters:
//
//   - session: orders candidates by that session's preferred words.
//   - topic: appends related words fetched from the word-association
//     service, deduplicated against the core candidates.
func (h *VocabHandler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	slot, err := vocab.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown slot")
		return
	}

	var preferred map[string]int
	if sessionID := r.URL.Query().Get("session"); sessionID != "" {
		record, err := h.memory.Get(r.Context(), sessionID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid session ID", err)
			return
		}
		preferred = record.PreferredWords
	}

	candidates := vocab.Suggest(slot, preferred)

	if topic := r.URL.Query().Get("topic"); topic != "" && h.lookup != nil {
		candidates = h.expandWithRelated(r.Context(), candidates, topic)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CandidatesResponse{
		Slot:       string(slot),
		Label:      vocab.StepLabels[slot],
		Candidates: candidates,
	})
}

// expandWithRelated appends related-word candidates not already present.
// Lookup failure keeps the core candidates and logs at debug level.
func (h *VocabHandler) expandWithRelated(
	ctx context.Context,
	candidates []string,
	topic string,
) []string {
	related, err := h.lookup.RelatedWords(ctx, topic, "")
	if err != nil {
		slog.Debug("related word lookup failed",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
		return candidates
	}

	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		seen[strings.ToLower(c)] = true
	}
	for _, word := range related {
		if key := strings.ToLower(word); !seen[key] {
			seen[key] = true
			candidates = append(candidates, word)
		}
	}

	return candidates
}
