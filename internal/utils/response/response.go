// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/roster-api/internal/types"
)

// Response is the standard envelope returned for error cases.
//
// Success responses may return any JSON shape (a list, a status...).
// Error responses always look like:
//
//	{ "status": "error", "error": "field name is required", "errors": [{"field": "name", "error": "is required"}] }
type Response struct {
	Status string             `json:"status"`
	Error  string             `json:"error"`
	Errors []types.FieldError `json:"errors,omitempty"`
}

// Status string constants.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusCreated = "created"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into our standard Response shape.
// Use this for unexpected errors (DB failures, decode errors, etc.)
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError converts validator output into one readable sentence
// plus the per-field details:
//
//	{ "status": "error", "error": "field name is required", "errors": [...] }
func ValidationError(errs validator.ValidationErrors) Response {
	return FieldsError(types.FieldErrors(errs))
}

// FieldsError is ValidationError for already converted field errors, such
// as those carried by *types.ValidationError.
func FieldsError(fields []types.FieldError) Response {
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fmt.Sprintf("field %s %s", f.Field, f.Error))
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(msgs, ", "),
		Errors: fields,
	}
}
