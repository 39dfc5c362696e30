package entities

import (
	"fmt"
	"sort"
)

// Logical types accepted from callers
const (
	TypeText   = "text"
	TypeBigint = "bigint"
	TypeDate   = "date"
	TypeSerial = "serial"
	TypeInt    = "int"
)

// typeMapping maps logical attribute types to PostgreSQL column types.
// Lookup is exact and case-sensitive.
var typeMapping = map[string]string{
	TypeText:   "VARCHAR",
	TypeBigint: "BIGINT",
	TypeDate:   "DATE",
	TypeSerial: "SERIAL",
	TypeInt:    "INT",
}

// MapType returns the native column type for a logical type
func MapType(logicalType string) (string, error) {
	native, ok := typeMapping[logicalType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, logicalType)
	}
	return native, nil
}

// LogicalTypes returns the supported logical type names, sorted
func LogicalTypes() []string {
	types := make([]string, 0, len(typeMapping))
	for t := range typeMapping {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
