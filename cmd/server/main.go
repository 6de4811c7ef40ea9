// Package main implements the entry point for the WordPath API server,
// which tracks per-session word usage for the sentence-building assistant
// and serves mastery forecasts and personalized vocabulary suggestions.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/wordpath/wordpath-api/internal/config"
	"github.com/wordpath/wordpath-api/internal/platform/datamuse"
	"github.com/wordpath/wordpath-api/internal/platform/logger"
	"github.com/wordpath/wordpath-api/internal/platform/postgres"
	"github.com/wordpath/wordpath-api/internal/service/memory"
	"github.com/wordpath/wordpath-api/internal/store"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 10 * time.Second

// application holds the wired dependencies of the running server.
type application struct {
	config        *config.Config
	logger        *slog.Logger
	db            *sql.DB
	memoryService *memory.Service
	wordLookup    *datamuse.Client
}

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.close()

	if err := app.run(); err != nil {
		app.logger.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// initializeApp loads configuration and wires the application components.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("database_configured", cfg.Database.URL != ""))

	app := &application{
		config: cfg,
		logger: appLogger,
	}

	// The durable store is optional: when the database is absent or its
	// configuration is unusable, the engine runs cache-only and session
	// history simply does not survive a restart.
	var durable store.SessionMemoryStore
	if db := setupDatabase(cfg, appLogger); db != nil {
		app.db = db
		durable = postgres.NewSessionMemoryStore(db, appLogger)
	}

	app.memoryService = memory.NewService(durable, memory.NewSessionCache(), appLogger)

	if cfg.Datamuse.Enabled {
		app.wordLookup = datamuse.NewClient(cfg.Datamuse.BaseURL, appLogger)
	}

	return app, nil
}

// run starts the HTTP server and blocks until shutdown.
func (app *application) run() error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		app.logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(ctx)
}

// close releases held resources.
func (app *application) close() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn("failed to close database", slog.String("error", err.Error()))
		}
	}
}
