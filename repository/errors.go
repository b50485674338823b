package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Typed, recoverable failures of the media core. Callers branch on
// these with errors.Is; only ErrConcurrentModification is worth an
// automatic retry.
var (
	ErrNotFound               = errors.New("record not found")
	ErrInvalidParent          = errors.New("parent media does not exist or is deleted")
	ErrCycleDetected          = errors.New("cannot move media under its own subtree")
	ErrDuplicateAttachment    = errors.New("media already attached to this owner and group")
	ErrMediaNotFound          = errors.New("media does not exist or is deleted")
	ErrConcurrentModification = errors.New("concurrent tree modification, retry")
)

// translateError maps store-level failures to the typed errors above.
// SQLSTATE 40001 (serialization_failure) and 40P01 (deadlock_detected)
// mean a competing tree mutation won; the caller may retry. Unique-key
// violations pass through as gorm.ErrDuplicatedKey: what a duplicate
// means depends on the table, so each call site maps it itself.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return ErrConcurrentModification
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
