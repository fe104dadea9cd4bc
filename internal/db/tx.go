package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Queryer is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories run their SQL through it so the same queries work both on the
// pool and inside a transaction.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction, committing on nil and rolling back on
// error or panic. Multi-statement write sequences must go through here;
// partially applied sequences leave membership and leadership rows inconsistent.
func WithTx(ctx context.Context, pool *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
