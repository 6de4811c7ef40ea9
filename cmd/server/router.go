package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wordpath/wordpath-api/internal/api"
	apiMiddleware "github.com/wordpath/wordpath-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace)

	memoryHandler := api.NewMemoryHandler(app.memoryService)
	programHandler := api.NewProgramHandler(app.memoryService)

	// A nil lookup disables topic expansion; the handler falls back to core
	// vocabulary only.
	var lookup api.RelatedWordLookup
	if app.wordLookup != nil {
		lookup = app.wordLookup
	}
	vocabHandler := api.NewVocabHandler(app.memoryService, lookup)

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

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
