package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON name, so errors read
// "field name is required" rather than "field Name is required".
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validator returns the shared validator instance.
func Validator() *validator.Validate { return validate }

// FieldError describes one failing field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError is returned by storage when a batch contains an invalid
// record. Nothing from the batch has been persisted.
type ValidationError struct {
	Index  int
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s %s", f.Field, f.Error))
	}
	return fmt.Sprintf("invalid student at index %d: %s", e.Index, strings.Join(msgs, ", "))
}

// FieldErrors converts validator output into FieldError values.
func FieldErrors(errs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		var msg string
		switch e.ActualTag() {
		case "required":
			msg = "is required"
		default:
			msg = "is invalid"
		}
		out = append(out, FieldError{Field: e.Field(), Error: msg})
	}
	return out
}

// ValidateStudents checks every record of a batch and stops at the first
// invalid one.
func ValidateStudents(students []NewStudent) error {
	for i := range students {
		err := validate.Struct(students[i])
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("ValidateStudents: %w", err)
		}
		return &ValidationError{Index: i, Fields: FieldErrors(verrs)}
	}
	return nil
}
