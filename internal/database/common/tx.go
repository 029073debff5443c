package common

import (
	"context"
	"database/sql"
)

// Tx is an open transaction on an adapter.
type Tx interface {
	Exec(ctx context.Context, query string, args ...any) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// SQLTx adapts a database/sql transaction to the adapter Tx interface.
type SQLTx struct {
	Tx *sql.Tx
}

func (t *SQLTx) Exec(ctx context.Context, query string, args ...any) error {
	_, err := t.Tx.ExecContext(ctx, query, args...)
	return err
}

func (t *SQLTx) Commit(context.Context) error {
	return t.Tx.Commit()
}

func (t *SQLTx) Rollback(context.Context) error {
	return t.Tx.Rollback()
}
