package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/caseflow/internal/ports/secondary"
)

// dbtx is the subset of *sql.DB and *sql.Tx the repositories use.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type txKey struct{}

// conn returns the transaction carried on the context, falling back to
// the plain database handle when there is none.
func conn(ctx context.Context, db *sql.DB) dbtx {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// TxRunner implements secondary.TxRunner with SQLite. The open
// transaction travels on the context so repositories sharing the same
// handle join it transparently.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner creates a new SQLite transaction runner.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// InTx runs fn inside one transaction. A nested call joins the
// transaction already on the context instead of opening a second one.
func (r *TxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	return tx.Commit()
}

// Ensure TxRunner implements the interface
var _ secondary.TxRunner = (*TxRunner)(nil)
