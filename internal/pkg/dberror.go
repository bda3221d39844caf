package pkg

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/certvault/giftcert/internal/domain"
)

// Postgres SQLSTATE codes the repositories classify.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgNumericOutOfRange    = "22003"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// MapDBError converts GORM and driver errors to domain errors.
// subject names the resource in not-found and already-exists messages.
func MapDBError(err error, subject string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewAppError(domain.CodeNotFound, subject+" not found", err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeAlreadyExists, subject+" already exists", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.NewAppError(domain.CodeAlreadyExists, subject+" already exists", err)
		case pgForeignKeyViolation:
			return domain.NewAppError(domain.CodeConflict, subject+" is referenced by other records", err)
		case pgCheckViolation, pgNumericOutOfRange:
			return domain.NewAppError(domain.CodeValidation, subject+" has a value out of range", err)
		case pgSerializationFailure, pgDeadlockDetected:
			return domain.NewAppError(domain.CodeConflict, "concurrent update, retry the request", err)
		}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || isForeignKeyError(err) {
		return domain.NewAppError(domain.CodeConflict, subject+" is referenced by other records", err)
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) || isCheckError(err) {
		return domain.NewAppError(domain.CodeValidation, subject+" has a value out of range", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. Not all GORM dialectors translate driver-level errors to
// gorm.ErrDuplicatedKey (e.g. the pure-Go SQLite driver).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

func isForeignKeyError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

func isCheckError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "check constraint failed")
}
