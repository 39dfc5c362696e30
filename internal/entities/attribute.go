package entities

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Attribute represents a user-declared column of an entity
// Example: {"name": "born", "type": "date", "isRequired": "YES"}
type Attribute struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`                 // Logical type (text, bigint, date, serial, int)
	IsRequired Required `json:"isRequired,omitempty"` // NOT NULL at creation time
}

// String returns a string representation of the attribute
// Format: name:type or name:type! when required
func (a *Attribute) String() string {
	if a.IsRequired {
		return fmt.Sprintf("%s:%s!", a.Name, a.Type)
	}
	return fmt.Sprintf("%s:%s", a.Name, a.Type)
}

// Validate checks that the attribute has a usable, non-reserved name and a type.
func (a *Attribute) Validate() error {
	if err := ValidateAttributeName(a.Name); err != nil {
		return err
	}
	if a.Type == "" {
		return fmt.Errorf("%w: attribute %q has no type", ErrInvalidAttribute, a.Name)
	}
	return nil
}

// Required is the isRequired flag. It decodes from JSON booleans as well as
// the "YES"/"NO" and "true"/"false" strings older clients send.
type Required bool

// UnmarshalJSON implements json.Unmarshaler
func (r *Required) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*r = Required(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("isRequired must be a boolean or \"YES\"/\"NO\": %s", string(data))
	}

	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "YES", "TRUE":
		*r = true
	case "NO", "FALSE", "":
		*r = false
	default:
		return fmt.Errorf("isRequired must be a boolean or \"YES\"/\"NO\": %q", s)
	}
	return nil
}

// AttributeChange describes an update-attribute request: a rename, a retype,
// or both at once.
type AttributeChange struct {
	OldName    string
	NewName    string
	NewType    string // Logical type requested by the caller
	NativeType string // Mapped NewType; empty when the type is unchanged
}

// Renames reports whether the change renames the column
func (c *AttributeChange) Renames() bool {
	return c.OldName != c.NewName
}

// Retypes reports whether the change alters the column type
func (c *AttributeChange) Retypes() bool {
	return c.NativeType != ""
}

// IsNoop reports whether there is nothing to apply
func (c *AttributeChange) IsNoop() bool {
	return !c.Renames() && !c.Retypes()
}
