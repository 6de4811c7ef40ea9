package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordpath/wordpath-api/internal/api/middleware"
	"github.com/wordpath/wordpath-api/internal/domain"
	"github.com/wordpath/wordpath-api/internal/service/memory"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// stubLookup is a canned RelatedWordLookup for vocab handler tests.
type stubLookup struct {
	words []string
	err   error
}

func (s *stubLookup) RelatedWords(_ context.Context, _, _ string) ([]string, error) {
	return s.words, s.err
}

// newTestRouter wires the handlers onto the production route layout with a
// cache-only memory service.
func newTestRouter(t *testing.T, lookup RelatedWordLookup) (chi.Router, *memory.Service) {
	t.Helper()

	svc := memory.NewService(
		nil,
		memory.NewSessionCache(),
		slog.Default(),
		memory.WithClock(func() time.Time { return testNow }),
	)

	memoryHandler := NewMemoryHandler(svc)
	programHandler := NewProgramHandler(svc)
	vocabHandler := NewVocabHandler(svc, lookup)

	r := chi.NewRouter()
	r.Use(middleware.Trace)
	r.Route("/api", func(r chi.Router) {
		r.Route("/memory/{sessionID}", func(r chi.Router) {
			r.Get("/", memoryHandler.GetMemory)
			r.Patch("/", memoryHandler.UpdateMemory)
			r.Post("/words", memoryHandler.RecordWords)
			r.Post("/utterances", memoryHandler.RecordUtterance)
			r.Get("/forecast", memoryHandler.GetForecast)
			r.Post("/program", programHandler.AnalyzeProgram)
		})
		r.Get("/vocab/{slot}", vocabHandler.GetCandidates)
	})

	return r, svc
}

func doRequest(t *testing.T, router chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeRecord(t *testing.T, rec *httptest.ResponseRecorder) domain.SessionMemory {
	t.Helper()

	var record domain.SessionMemory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	return record
}

func TestGetMemoryEndpoint(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/memory/session-1/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	record := decodeRecord(t, rec)
	assert.Equal(t, "session-1", record.SessionID)
	assert.Empty(t, record.WordStats)
	assert.Equal(t, domain.DefaultUserProfile(), record.UserProfile)
}

func TestRecordWordsEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("counts submitted words", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/memory/s1/words",
			`{"words":["Ball","want","ball"]}`)
		require.Equal(t, http.StatusOK, rec.Code)

		record := decodeRecord(t, rec)
		assert.Equal(t, 2, record.WordStats["ball"].Count)
		assert.Equal(t, 1, record.WordStats["want"].Count)
		assert.NotEmpty(t, record.MasteryForecast)
	})

	t.Run("empty list is accepted", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/memory/s1/words", `{"words":[]}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/memory/s1/words", `{"words":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/memory/s1/words",
			`{"words":["ball"],"extra":true}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRecordUtteranceEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("records utterance and pairs", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/memory/s1/utterances",
			`{"utterance":"I want ball"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		record := decodeRecord(t, rec)
		assert.Equal(t, []string{"I want ball"}, record.RecentUtterances)
		assert.Equal(t, 1, record.CombinationStats["i+want"].Count)
		assert.Equal(t, 1, record.CombinationStats["want+ball"].Count)
	})

	t.Run("missing utterance fails validation", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/memory/s1/utterances", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateMemoryEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("merges preferred words and goals", func(t *testing.T) {
		t.Parallel()

		router, svc := newTestRouter(t, nil)

		_, err := svc.RecordWords(context.Background(), "s1", []string{"ball"})
		require.NoError(t, err)

		rec := doRequest(t, router, http.MethodPatch, "/api/memory/s1/",
			`{"preferredWords":{"ball":7,"go":2},"recentGoals":["ask for help"]}`)
		require.Equal(t, http.StatusOK, rec.Code)

		record := decodeRecord(t, rec)
		assert.Equal(t, 7, record.PreferredWords["ball"])
		assert.Equal(t, 2, record.PreferredWords["go"])
		assert.Equal(t, []string{"ask for help"}, record.RecentGoals)
		// Word stats are untouched by a partial update.
		assert.Equal(t, 1, record.WordStats["ball"].Count)
	})

	t.Run("negative preference score fails validation", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, nil)

		rec := doRequest(t, router, http.MethodPatch, "/api/memory/s1/",
			`{"preferredWords":{"ball":-1}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetForecastEndpoint(t *testing.T) {
	t.Parallel()

	router, svc := newTestRouter(t, nil)

	_, err := svc.RecordWords(context.Background(), "s1", []string{"ball"})
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodGet, "/api/memory/s1/forecast", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var forecast []domain.MasteryForecast
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &forecast))
	require.Len(t, forecast, 1)
	assert.Equal(t, "ball", forecast[0].Word)
	assert.Equal(t, domain.MasteryEmerging, forecast[0].Level)
}

func TestGetCandidatesEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("unknown slot is rejected", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, nil)

		rec := doRequest(t, router, http.MethodGet, "/api/vocab/VERB", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns core vocabulary for slot", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, nil)

		rec := doRequest(t, router, http.MethodGet, "/api/vocab/action", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp CandidatesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ACTION", resp.Slot)
		assert.Equal(t, "Action", resp.Label)
		assert.Contains(t, resp.Candidates, "want")
	})

	t.Run("orders by session preferences", func(t *testing.T) {
		t.Parallel()

		router, svc := newTestRouter(t, nil)

		_, err := svc.RecordWords(context.Background(), "s1", []string{"water", "water", "ball"})
		require.NoError(t, err)

		rec := doRequest(t, router, http.MethodGet, "/api/vocab/object?session=s1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp CandidatesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "water", resp.Candidates[0])
		assert.Equal(t, "ball", resp.Candidates[1])
	})

	t.Run("appends deduplicated related words for topic", func(t *testing.T) {
		t.Parallel()

		lookup := &stubLookup{words: []string{"toy", "bounce", "round"}}
		router, _ := newTestRouter(t, lookup)

		rec := doRequest(t, router, http.MethodGet, "/api/vocab/object?topic=ball", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp CandidatesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		// "toy" already exists in the core set; only the new words append.
		assert.Equal(t, 1, countOf(resp.Candidates, "toy"))
		assert.Contains(t, resp.Candidates, "bounce")
		assert.Contains(t, resp.Candidates, "round")
	})

	t.Run("lookup failure degrades to core candidates", func(t *testing.T) {
		t.Parallel()

		lookup := &stubLookup{err: errors.New("upstream down")}
		router, _ := newTestRouter(t, lookup)

		rec := doRequest(t, router, http.MethodGet, "/api/vocab/object?topic=ball", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp CandidatesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Candidates, 6)
	})
}

func TestAnalyzeProgramEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("stores extracted context on the session", func(t *testing.T) {
		t.Parallel()

		router, svc := newTestRouter(t, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/memory/s1/program",
			`{"text":"The student will request help. Target words: want, help, more."}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp AnalyzeProgramResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []string{"The student will request help"}, resp.Analysis.ExtractedGoals)
		assert.Equal(t, []string{"want", "help", "more"}, resp.Analysis.TargetWords)

		record, err := svc.Get(context.Background(), "s1")
		require.NoError(t, err)
		require.NotNil(t, record.ProgramContext)
		assert.Equal(t, []string{"want", "help", "more"}, record.ProgramContext.TargetWords)
		assert.Equal(t, []string{"The student will request help"}, record.RecentGoals)
	})

	t.Run("empty text fails validation", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/memory/s1/program", `{"text":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// countOf counts occurrences of word in list.
func countOf(list []string, word string) int {
	n := 0
	for _, w := range list {
		if w == word {
			n++
		}
	}
	return n
}
