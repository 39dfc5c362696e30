package entities

import (
	"fmt"
	"sort"
)

// Entry is a row of an entity keyed by column name
type Entry map[string]interface{}

// AttributeInfo is the {name, type} pair returned alongside entries
type AttributeInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// EntryList is the result of reading every row of an entity
type EntryList struct {
	Entries    []Entry         `json:"entries"`
	Attributes []AttributeInfo `json:"attributes"`
}

// IsEmptyValue reports whether v counts as missing for a required field:
// absent, JSON null, or the empty string.
func IsEmptyValue(v interface{}, present bool) bool {
	if !present || v == nil {
		return true
	}
	if s, ok := v.(string); ok && s == "" {
		return true
	}
	return false
}

// WritableFields returns the payload keys that may be written, sorted, with
// "id" removed. Every key must be a valid identifier.
func WritableFields(data map[string]interface{}) ([]string, error) {
	fields := make([]string, 0, len(data))
	for k := range data {
		if k == PrimaryKeyColumn {
			continue
		}
		if err := ValidateIdentifier(k); err != nil {
			return nil, fmt.Errorf("invalid field name: %w", err)
		}
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields, nil
}
