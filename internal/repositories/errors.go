package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/ncruces/go-sqlite3"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")
)

// SQLExecutor is satisfied by *sqlx.DB and *sqlx.Tx, so repository writes can join a
// transaction or run directly on the pool.
type SQLExecutor = sqlx.ExtContext

// isUniqueViolation recognizes unique constraint failures from both supported drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode() == sqlite3.CONSTRAINT_UNIQUE ||
			sqliteErr.ExtendedCode() == sqlite3.CONSTRAINT_PRIMARYKEY
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// insertReturningID runs an INSERT ... RETURNING id statement written with ? placeholders.
func insertReturningID(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) (int64, error) {
	var id int64
	err := executor.QueryRowxContext(ctx, executor.Rebind(query), args...).Scan(&id)
	return id, err
}
