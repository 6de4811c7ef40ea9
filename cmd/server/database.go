package main

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/wordpath/wordpath-api/internal/config"
	"github.com/wordpath/wordpath-api/internal/platform/postgres"
)

// setupDatabase opens the durable store connection when one is configured.
// Absent or malformed configuration returns nil and is logged once: the
// engine then runs cache-only for the process lifetime. A database that is
// configured but currently unreachable still yields a connection; the
// store degrades per call until the database comes back.
func setupDatabase(cfg *config.Config, logger *slog.Logger) *sql.DB {
	url := cfg.Database.URL
	if url == "" || !strings.HasPrefix(url, "postgres") {
		logger.Warn("database URL not configured or invalid, durable persistence disabled")
		return nil
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		logger.Warn("failed to open database connection, durable persistence disabled",
			slog.String("error", err.Error()))
		return nil
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		logger.Warn("database unreachable at startup, continuing in degraded mode",
			slog.String("error", err.Error()))
		return db
	}

	if err := postgres.RunMigrations(db); err != nil {
		logger.Warn("failed to apply migrations, continuing in degraded mode",
			slog.String("error", err.Error()))
		return db
	}

	logger.Info("database connection established")
	return db
}
