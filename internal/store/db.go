package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the database access layer. It is satisfied by both *sql.DB
// and *sql.Tx, so store implementations work against either a connection
// pool or a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
