package apperror

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// FromDB maps a persistence error onto the taxonomy. Errors that already
// belong to the taxonomy pass through untouched; nil stays nil.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("Record not found!").Wrap(err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict("Duplicate value!").Wrap(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return BadRequest("Related record does not exist or is still referenced").Wrap(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return Conflict("Duplicate value!").Wrap(err)
		case pgForeignKeyViolation:
			return BadRequest("Related record does not exist or is still referenced").Wrap(err)
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return Conflict("Duplicate value!").Wrap(err)
		case pgForeignKeyViolation:
			return BadRequest("Related record does not exist or is still referenced").Wrap(err)
		}
	}

	// sqlite reports constraint failures only through the message text
	if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
		return Conflict("Duplicate value!").Wrap(err)
	}

	return Internal("Something went wrong!", err)
}

// IsDuplicate reports whether err is (or maps to) a unique violation.
func IsDuplicate(err error) bool {
	return IsKind(FromDB(err), KindConflict)
}
