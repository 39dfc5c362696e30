package entities

import (
	"fmt"
	"regexp"
	"strconv"
)

// MaxIdentifierLength is PostgreSQL's NAMEDATALEN-1
const MaxIdentifierLength = 63

// ReservedEntityName cannot be used as an entity because it is the prefix of
// the structural routes (/api/entities/...).
const ReservedEntityName = "entities"

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	entryIDPattern    = regexp.MustCompile(`^[0-9]+$`)
)

// ValidateIdentifier checks that name is safe to use as a table or column name
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidIdentifier)
	}
	if len(name) > MaxIdentifierLength {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidIdentifier, name, MaxIdentifierLength)
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q must start with a letter or underscore and contain only letters, digits and underscores", ErrInvalidIdentifier, name)
	}
	return nil
}

// ValidateEntityName checks an entity name
func ValidateEntityName(name string) error {
	if err := ValidateIdentifier(name); err != nil {
		return err
	}
	if name == ReservedEntityName {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidIdentifier, name)
	}
	return nil
}

// ValidateAttributeName checks a declared attribute name; "id" is reserved
func ValidateAttributeName(name string) error {
	if err := ValidateIdentifier(name); err != nil {
		return err
	}
	if name == PrimaryKeyColumn {
		return fmt.Errorf("%w: %q is reserved for the primary key", ErrInvalidAttribute, name)
	}
	return nil
}

// ParseEntryID parses a row id taken from a URL path
func ParseEntryID(raw string) (int64, error) {
	if !entryIDPattern.MatchString(raw) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}
