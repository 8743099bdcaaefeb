package postgres

import (
	"context"
	"errors"

	"storefront-backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

// Beginner starts transactions; *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TransactionManager implements domain.TransactionManager using pgx
type TransactionManager struct {
	db Beginner
}

func NewTransactionManager(db Beginner) domain.TransactionManager {
	return &TransactionManager{db: db}
}

// Do runs fn in a transaction carried by the context. Calls nested inside an open
// transaction join it.
func (tm *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := tm.db.Begin(ctx)
	if err != nil {
		return err
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)

	if err := fn(txCtx); err != nil {
		// rollback on a fresh context so a cancelled request still releases the connection
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

type txKey struct{}

// querier returns the transaction in ctx, or db.
func querier(ctx context.Context, db DBTX) DBTX {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db
}
