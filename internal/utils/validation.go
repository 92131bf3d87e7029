package utils

import (
	"fmt"
	"strings"
)

// Field error codes shared by all resource kinds.
const (
	FieldCodeRequired      = "required"
	FieldCodeInvalidFormat = "invalid_format"
	FieldCodeOutOfRange    = "out_of_range"
)

// FieldError describes the failure of one field of an entity.
type FieldError struct {
	Field   string            `json:"field"`
	Code    string            `json:"code"`
	Message string            `json:"message,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
}

func (e FieldError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Code)
}

// NewFieldError builds a FieldError without params.
func NewFieldError(field, code, message string) FieldError {
	return FieldError{Field: field, Code: code, Message: message}
}

// ValidationErrors collects field errors of one entity. It works for any
// entity kind since fields are addressed by name.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed with %d error(s)", len(v.Errors))
}

func (v *ValidationErrors) Add(err FieldError) {
	v.Errors = append(v.Errors, err)
}

func (v *ValidationErrors) IsEmpty() bool {
	return len(v.Errors) == 0
}

// ForField returns the first error recorded for the named field, or nil.
func (v *ValidationErrors) ForField(field string) *FieldError {
	for i := range v.Errors {
		if v.Errors[i].Field == field {
			return &v.Errors[i]
		}
	}
	return nil
}

// OrNil folds an empty collection into a nil error so callers can return it
// directly from Validate methods.
func (v *ValidationErrors) OrNil() error {
	if v.IsEmpty() {
		return nil
	}
	return v
}

// EscapeLike escapes LIKE wildcards in a user-supplied filter string so a
// contains-search treats them literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
