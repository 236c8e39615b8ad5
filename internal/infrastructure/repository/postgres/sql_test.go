package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	t.Run("matches sql.ErrNoRows", func(t *testing.T) {
		if !isNotFound(sql.ErrNoRows) {
			t.Fatalf("expected true for sql.ErrNoRows")
		}
	})

	t.Run("matches wrapped sql.ErrNoRows", func(t *testing.T) {
		if !isNotFound(fmt.Errorf("get member: %w", sql.ErrNoRows)) {
			t.Fatalf("expected true for wrapped sql.ErrNoRows")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isNotFound(fmt.Errorf("pq: relation members does not exist")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsWriteConflict(t *testing.T) {
	t.Run("matches serialization failure", func(t *testing.T) {
		err := &pq.Error{Code: pq.ErrorCode("40001"), Message: "could not serialize access"}
		if !isWriteConflict(err) {
			t.Fatalf("expected true for 40001")
		}
	})

	t.Run("matches deadlock", func(t *testing.T) {
		err := fmt.Errorf("update member: %w", &pq.Error{Code: pq.ErrorCode("40P01")})
		if !isWriteConflict(err) {
			t.Fatalf("expected true for wrapped 40P01")
		}
	})

	t.Run("ignores other pq errors", func(t *testing.T) {
		err := &pq.Error{Code: pq.ErrorCode("23505"), Message: "duplicate key"}
		if isWriteConflict(err) {
			t.Fatalf("expected false for unique violation")
		}
	})

	t.Run("ignores non-pq errors", func(t *testing.T) {
		if isWriteConflict(sql.ErrConnDone) {
			t.Fatalf("expected false for non-pq error")
		}
	})
}
