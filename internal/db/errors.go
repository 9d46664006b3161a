package db

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// HasCode reports whether err carries the given Postgres SQLSTATE.
func HasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// IsForeignKeyViolation reports a 23503 error.
func IsForeignKeyViolation(err error) bool {
	return HasCode(err, pgerrcode.ForeignKeyViolation)
}

// IsTransient reports errors that are worth retrying: lost serialization,
// deadlocks, lock timeouts and connection level timeouts.
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected,
			pgerrcode.LockNotAvailable, pgerrcode.QueryCanceled:
			return true
		}
		return false
	}
	return pgconn.Timeout(err)
}
