package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type txKey struct{}

// TxBeginner starts transactions. *pgxpool.Pool, *pgx.Conn and pgx.Tx satisfy it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ TxBeginner = (*pgxpool.Pool)(nil)

// WithTx stores tx in ctx so stores called with the returned context join it.
// A nil tx leaves ctx unchanged.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction stored by WithTx, if any.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok && tx != nil
}

// InTx runs fn in a transaction. When ctx already carries one, fn runs in a
// savepoint of it and the outer transaction is left for its owner to commit.
// Otherwise a new transaction is begun on db. The context passed to fn
// carries the transaction fn receives.
func InTx(ctx context.Context, db TxBeginner, fn func(ctx context.Context, tx pgx.Tx) error) error {
	run := func(tx pgx.Tx) error {
		return fn(WithTx(ctx, tx), tx)
	}
	if outer, ok := TxFromContext(ctx); ok {
		return pgx.BeginFunc(ctx, outer, run)
	}
	return pgx.BeginFunc(ctx, db, run)
}
