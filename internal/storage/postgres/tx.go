package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type txKey struct{}

func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	return withTxSetup(ctx, pool, "", fn)
}

// withLockBoundedTx runs fn in a transaction whose row-lock waits are capped,
// so a reservation blocked behind a structural zone edit (or another
// reservation on overlapping seats) fails with a retryable error instead of
// waiting indefinitely.
func withLockBoundedTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	return withTxSetup(ctx, pool, `SET LOCAL lock_timeout = '3s'`, fn)
}

func withTxSetup(ctx context.Context, pool *pgxpool.Pool, setup string, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	if setup != "" {
		if _, err := tx.Exec(ctx, setup); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrCode(err) == "23505"
}

func isForeignKeyViolation(err error) bool {
	return pgErrCode(err) == "23503"
}

func isInvalidUUID(err error) bool {
	return pgErrCode(err) == "22P02"
}

func isLockNotAvailable(err error) bool {
	return pgErrCode(err) == "55P03"
}
