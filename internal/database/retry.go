package database

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"bookkeeper/internal/logger"
)

const (
	maxTxAttempts = 3
	baseBackoff   = 50 * time.Millisecond
)

// Postgres SQLSTATE codes worth retrying.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// RunInTx runs fn inside a database transaction, retrying the whole unit with
// exponential backoff when the store reports a transient conflict. Errors
// returned by fn that are not transient are passed through untouched.
func RunInTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = db.Transaction(fn)
		if err == nil || !IsTransient(err) {
			return err
		}
		if attempt < maxTxAttempts {
			wait := baseBackoff << (attempt - 1)
			logger.For("database").Warnw("retrying transaction after transient error",
				"attempt", attempt,
				"backoff_ms", wait.Milliseconds(),
				"error", err,
			)
			time.Sleep(wait)
		}
	}
	return err
}

// IsTransient reports whether err is a lock or serialization conflict that a
// retry of the same transaction may resolve.
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}
	return false
}
