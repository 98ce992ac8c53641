package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// WithTx runs fn inside a transaction bound to ctx. The transaction is rolled
// back when fn returns an error, panics, or ctx is cancelled before commit, so
// no partial write ever becomes visible.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return Classify("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = ctx.Err(); err != nil {
		return Classify("commit", err)
	}

	if err = tx.Commit(); err != nil {
		return Classify("commit", fmt.Errorf("commit failed: %w", err))
	}
	return nil
}
