package testutil

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/studyplan/internal/db"
)

// FailNthWrite wraps inner so that the n-th write (counting from 1) inside a
// transaction returns err, which makes inner roll the transaction back.
func FailNthWrite(inner db.UnitOfWork, n int, err error) db.UnitOfWork {
	return &failNthWrite{inner: inner, n: n, err: err}
}

type failNthWrite struct {
	inner db.UnitOfWork
	n     int
	err   error
}

func (u *failNthWrite) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &countingTx{DBTX: tx, failAt: u.n, err: u.err})
	})
}

type countingTx struct {
	db.DBTX
	writes int
	failAt int
	err    error
}

func (c *countingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.writes++
	if c.writes == c.failAt {
		return nil, c.err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
