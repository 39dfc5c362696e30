package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownType            = errors.New("invalid type")
	ErrEntityAlreadyExists    = errors.New("entity already exists")
	ErrEntityNotFound         = errors.New("entity not found")
	ErrAttributeAlreadyExists = errors.New("attribute already exists")
	ErrAttributeNotFound      = errors.New("attribute not found")
	ErrRequiredFieldMissing   = errors.New("required field missing")
	ErrInvalidIdentifier      = errors.New("invalid identifier")
	ErrInvalidAttribute       = errors.New("invalid attribute")
	ErrInvalidID              = errors.New("invalid id")
	ErrInvalidPayload         = errors.New("invalid payload")
)

// Kind classifies an error for the transport boundary
type Kind string

const (
	KindUnknownType            Kind = "unknown_type"
	KindEntityAlreadyExists    Kind = "entity_already_exists"
	KindEntityNotFound         Kind = "entity_not_found"
	KindAttributeAlreadyExists Kind = "attribute_already_exists"
	KindAttributeNotFound      Kind = "attribute_not_found"
	KindRequiredFieldMissing   Kind = "required_field_missing"
	KindInvalidIdentifier      Kind = "invalid_identifier"
	KindInvalidAttribute       Kind = "invalid_attribute"
	KindInvalidID              Kind = "invalid_id"
	KindInvalidPayload         Kind = "invalid_payload"
	KindStore                  Kind = "store_error"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrUnknownType, KindUnknownType},
	{ErrEntityAlreadyExists, KindEntityAlreadyExists},
	{ErrEntityNotFound, KindEntityNotFound},
	{ErrAttributeAlreadyExists, KindAttributeAlreadyExists},
	{ErrAttributeNotFound, KindAttributeNotFound},
	{ErrRequiredFieldMissing, KindRequiredFieldMissing},
	{ErrInvalidIdentifier, KindInvalidIdentifier},
	{ErrInvalidAttribute, KindInvalidAttribute},
	{ErrInvalidID, KindInvalidID},
	{ErrInvalidPayload, KindInvalidPayload},
}

// KindOf returns the kind of err. Errors that carry none of the sentinels
// above are store errors.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindStore
}

// RequiredFieldError lists the NOT NULL fields a payload left empty
type RequiredFieldError struct {
	Fields []string
}

func (e *RequiredFieldError) Error() string {
	quoted := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		quoted[i] = fmt.Sprintf("%q", f)
	}
	if len(quoted) == 1 {
		return fmt.Sprintf("field %s is required and cannot be null or empty", quoted[0])
	}
	return fmt.Sprintf("fields %s are required and cannot be null or empty", strings.Join(quoted, ", "))
}

func (e *RequiredFieldError) Unwrap() error {
	return ErrRequiredFieldMissing
}
