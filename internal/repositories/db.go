package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// DB is the subset of pgxpool.Pool the repositories use. Keeping it an
// interface lets tests substitute a single connection or a tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Command tags for the conditional update. The Postgres repositories scan
// the row back through RETURNING, so they synthesize the tag themselves;
// the memory repositories report the same values.
const (
	tagUpdateWon  = "UPDATE 1"
	tagUpdateLost = "UPDATE 0"
)

// isUniqueViolation checks for a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
