package entities

import "fmt"

// PrimaryKeyColumn is the identity column every entity is created with.
// It is owned by the store and never declared, altered or dropped by callers.
const PrimaryKeyColumn = "id"

// Entity represents a user-declared relation.
// The name doubles as the physical table name.
// Example: entity "person" with attributes name:text (required), born:date
type Entity struct {
	Name       string       // Entity (table) name
	Attributes []*Attribute // Declared attributes, in declaration order
}

// GetAttribute returns the attribute definition by name
func (e *Entity) GetAttribute(name string) *Attribute {
	for _, a := range e.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Validate checks the entity name and every declared attribute.
// It does not check type mappability; see MapType.
func (e *Entity) Validate() error {
	if err := ValidateEntityName(e.Name); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(e.Attributes))
	for i, attr := range e.Attributes {
		if attr == nil {
			return fmt.Errorf("%w: attribute at index %d is empty", ErrInvalidAttribute, i)
		}
		if err := attr.Validate(); err != nil {
			return err
		}
		if _, dup := seen[attr.Name]; dup {
			return fmt.Errorf("%w: attribute %q is declared more than once", ErrInvalidAttribute, attr.Name)
		}
		seen[attr.Name] = struct{}{}
	}
	return nil
}
