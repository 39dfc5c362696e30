package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/asakaida/kiban/internal/entities"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// CreateEntityRequest is the body of POST /api/entities
type CreateEntityRequest struct {
	EntityName string                `json:"entityName" validate:"required,ident"`
	Attributes []*entities.Attribute `json:"attributes" validate:"dive,required"`
}

// AddAttributeRequest is the body of POST /api/entities/add-attribute
type AddAttributeRequest struct {
	EntityName string              `json:"entityName" validate:"required,ident"`
	Attribute  *entities.Attribute `json:"attribute" validate:"required"`
}

// DeleteAttributeRequest is the body of POST /api/entities/delete-attribute
type DeleteAttributeRequest struct {
	EntityName    string `json:"entityName" validate:"required,ident"`
	AttributeName string `json:"attributeName" validate:"required,ident"`
}

// UpdateAttributeRequest is the body of POST /api/entities/update-attribute
type UpdateAttributeRequest struct {
	EntityName   string              `json:"entityName" validate:"required,ident"`
	OldAttribute *entities.Attribute `json:"oldAttribute" validate:"required"`
	NewAttribute *entities.Attribute `json:"newAttribute" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names in messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("ident", func(fl validator.FieldLevel) bool {
		return entities.ValidateIdentifier(fl.Field().String()) == nil
	})
	return v
}

// validateRequest runs struct validation and converts failures to tagged errors
func validateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", entities.ErrInvalidPayload, err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "ident":
		return fmt.Errorf("%w: %s %q must start with a letter or underscore and contain only letters, digits and underscores",
			entities.ErrInvalidIdentifier, fe.Field(), fe.Value())
	case "required":
		return fmt.Errorf("%w: %s is required", entities.ErrInvalidPayload, fe.Field())
	default:
		return fmt.Errorf("%w: %s failed %q validation", entities.ErrInvalidPayload, fe.Field(), fe.Tag())
	}
}

// decodeJSON reads a JSON body into dst. Numbers are kept as json.Number so
// bigint values survive untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", entities.ErrInvalidPayload)
		}
		return fmt.Errorf("%w: %v", entities.ErrInvalidPayload, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: request body must contain a single JSON value", entities.ErrInvalidPayload)
	}
	return nil
}
