package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the services react to.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeExclusionViolation  = "23P01"
)

var (
	// ErrDuplicateKey a unique constraint rejected the write.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrExclusionViolation an exclusion constraint (overlapping range) rejected the write.
	ErrExclusionViolation = errors.New("exclusion constraint violated")
	// ErrForeignKey the write referenced a missing row.
	ErrForeignKey = errors.New("foreign key violated")
)

// Classify maps a driver error to one of the sentinels above.
// Errors that are not constraint violations are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return ErrDuplicateKey
	case codeExclusionViolation:
		return ErrExclusionViolation
	case codeForeignKeyViolation:
		return ErrForeignKey
	}
	return err
}

// IsDuplicateKey reports whether err is a unique violation.
func IsDuplicateKey(err error) bool {
	return errors.Is(Classify(err), ErrDuplicateKey)
}

// IsExclusionViolation reports whether err is an exclusion constraint violation.
func IsExclusionViolation(err error) bool {
	return errors.Is(Classify(err), ErrExclusionViolation)
}
