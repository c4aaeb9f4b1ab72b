package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"nsportal/internal/domain"
)

// Conflict reasons reported by ConstraintError.
const (
	ReasonDuplicate        = "duplicate"
	ReasonMissingReference = "missing_reference"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return false
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if error is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 = foreign_key_violation
		return pgErr.Code == "23503"
	}
	return false
}

// ConstraintError maps unique and foreign key violations on a write to a
// domain.ConflictError naming the resource. Other errors pass through.
func ConstraintError(err error, resourceType, resourceID string) error {
	switch {
	case err == nil:
		return nil
	case IsPgDuplicateError(err):
		return &domain.ConflictError{
			Message:      fmt.Sprintf("%s %s already exists", resourceType, resourceID),
			ResourceType: resourceType,
			ResourceID:   resourceID,
			Reason:       ReasonDuplicate,
		}
	case IsPgForeignKeyError(err):
		return &domain.ConflictError{
			Message:      fmt.Sprintf("%s %s references a missing record", resourceType, resourceID),
			ResourceType: resourceType,
			ResourceID:   resourceID,
			Reason:       ReasonMissingReference,
		}
	default:
		return err
	}
}
