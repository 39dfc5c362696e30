package postgres

import (
	"errors"
	"fmt"

	"github.com/asakaida/kiban/internal/entities"
	"github.com/lib/pq"
)

// PostgreSQL SQLSTATE codes we classify
const (
	codeDuplicateTable    = "42P07"
	codeDuplicateColumn   = "42701"
	codeUndefinedTable    = "42P01"
	codeUndefinedColumn   = "42703"
	codeNotNullViolation  = "23502"
	codeUniqueViolation   = "23505"
	codeInvalidText       = "22P02"
	codeInvalidDatetime   = "22007"
	codeDatetimeOverflow  = "22008"
	codeNumericOutOfRange = "22003"
)

// translateError tags a driver error with the matching entities sentinel.
// The original *pq.Error stays reachable with errors.As.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	var kind error
	switch pqErr.Code {
	case codeDuplicateTable:
		kind = entities.ErrEntityAlreadyExists
	case codeUniqueViolation:
		if pqErr.Table == managedEntitiesTable {
			kind = entities.ErrEntityAlreadyExists
		}
	case codeDuplicateColumn:
		kind = entities.ErrAttributeAlreadyExists
	case codeUndefinedTable:
		kind = entities.ErrEntityNotFound
	case codeUndefinedColumn:
		kind = entities.ErrAttributeNotFound
	case codeNotNullViolation:
		kind = entities.ErrRequiredFieldMissing
	case codeInvalidText, codeInvalidDatetime, codeDatetimeOverflow, codeNumericOutOfRange:
		kind = entities.ErrInvalidPayload
	}

	if kind == nil {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
