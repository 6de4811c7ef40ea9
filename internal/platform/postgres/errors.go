package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sony/gobreaker"
	"github.com/wordpath/wordpath-api/internal/store"
)

// PostgreSQL error code classes for connectivity problems.
const (
	// connectionExceptionClass covers the 08xxx family (connection failures).
	connectionExceptionClass = "08"

	// insufficientResourcesClass covers the 53xxx family (too many
	// connections, out of memory).
	insufficientResourcesClass = "53"
)

// mapError maps a database error onto the store error taxonomy. Absence
// becomes store.ErrMemoryNotFound; connectivity problems and timeouts become
// store.ErrStoreUnavailable so the caller can degrade to cache-only mode.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrMemoryNotFound
	}

	if isConnectivityError(err) {
		return fmt.Errorf("%w: %s: %v", store.ErrStoreUnavailable, op, err)
	}

	return fmt.Errorf("session memory %s failed: %w", op, err)
}

// mapBreakerError translates circuit breaker rejections into the
// store-unavailable class; all other errors pass through unchanged.
func mapBreakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: circuit open", store.ErrStoreUnavailable)
	}
	return err
}

// isConnectivityError reports whether the error indicates the database is
// unreachable rather than a problem with the statement itself.
func isConnectivityError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case connectionExceptionClass, insufficientResourcesClass:
			return true
		}
	}

	return pgconn.Timeout(err)
}
