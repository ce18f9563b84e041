package dbhelper

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
	pqCheckViolation      = "23514"
	pqNumericOutOfRange   = "22003"
)

// ErrVersionConflict is returned when an optimistic write loses a race.
var ErrVersionConflict = errors.New("row was modified concurrently")

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

func IsForeignKeyViolation(err error) bool {
	return pqCode(err) == pqForeignKeyViolation
}

func IsUniqueViolation(err error) bool {
	return pqCode(err) == pqUniqueViolation
}

func IsCheckViolation(err error) bool {
	return pqCode(err) == pqCheckViolation
}

// IsOutOfRange reports a value too large for its column, such as an overflowing sum.
func IsOutOfRange(err error) bool {
	return pqCode(err) == pqNumericOutOfRange
}

func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// affectedOrNotFound turns a zero-row write into sql.ErrNoRows.
func affectedOrNotFound(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
