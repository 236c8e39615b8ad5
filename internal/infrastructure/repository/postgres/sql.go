package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isWriteConflict reports whether the database aborted the statement
// because a concurrent transaction touched the same rows.
func isWriteConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	code := string(pqErr.Code)

	return code == pqSerializationFailure || code == pqDeadlockDetected
}
