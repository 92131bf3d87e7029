package repositories

import (
	"context"

	"github.com/jackc/pgx/v4"
)

/*
EntityWithVersion:

* GetID for addressing rows
* the two version accessors for the optimistic-lock protocol
*/
type EntityWithVersion interface {
	GetID() string
	GetRowVersion() int64
	SetRowVersion(int64)
}

/*
BaseVersionedRepo holds the DB connection, a SELECT-by-ID statement,
and a scanner for a single entity type T. Concrete repositories embed it
for GetByID and build their UpdateIfVersion on top of it.
*/
type BaseVersionedRepo[T EntityWithVersion] struct {
	db         DB
	selectByID string
	scan       func(row pgx.Row) (T, error)
}

// NewBaseRepo is called by concrete repositories.
func NewBaseRepo[T EntityWithVersion](
	db DB,
	selectByID string,
	scan func(pgx.Row) (T, error),
) *BaseVersionedRepo[T] {
	return &BaseVersionedRepo[T]{db: db, selectByID: selectByID, scan: scan}
}

func (b *BaseVersionedRepo[T]) GetByID(ctx context.Context, id string) (T, error) {
	row := b.db.QueryRow(ctx, b.selectByID, id)
	return b.scan(row)
}
