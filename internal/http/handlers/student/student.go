// Package student contains the HTTP handlers for the /students resource.
//
// HANDLER PATTERN USED HERE: THE CLOSURE / FACTORY PATTERN
// ────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a database.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (storage)
//  2. Returns a function with the exact signature the router needs
//
//	router.HandleFunc("POST /students", student.New(storage))
//	//                                          ^^^^^^^^^^^^
//	//                     New(storage) is called ONCE at startup.
//	//                     It returns a handler func which is called
//	//                     on EVERY incoming request.
package student

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/aanand-mishra/roster-api/internal/storage"
	"github.com/aanand-mishra/roster-api/internal/types"
	"github.com/aanand-mishra/roster-api/internal/utils/response"
)

// New handles POST /students
// Creates one student from the JSON request body.
//
// Request body (JSON):
//
//	{ "name": "Ada", "major": "Math", "gpa": 3.9 }
//
// major may be omitted (stored as null); gpa defaults to 0.0.
//
// Success response (201 Created):
//
//	{ "status": "created" }
//
// Error responses:
//
//	400 Bad Request  empty body, malformed JSON, or missing name
//	500 Internal     database error
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := zerolog.Ctx(r.Context())
		log.Info().Msg("creating a student")

		// ── Step 1: Decode JSON body ──────────────────────────────────
		var student types.NewStudent
		err := json.NewDecoder(r.Body).Decode(&student)

		if errors.Is(err, io.EOF) {
			// io.EOF means the body was completely empty.
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}

		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// ── Step 2: Validate ──────────────────────────────────────────
		if err := types.Validator().Struct(student); err != nil {
			var validateErrs validator.ValidationErrors
			if errors.As(err, &validateErrs) {
				response.WriteJSON(w, http.StatusBadRequest,
					response.ValidationError(validateErrs))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if student.GPA == nil {
			zero := 0.0
			student.GPA = &zero
		}

		// ── Step 3: Persist ───────────────────────────────────────────
		err = storage.AddStudents(r.Context(), []types.NewStudent{student})

		var verr *types.ValidationError
		if errors.As(err, &verr) {
			response.WriteJSON(w, http.StatusBadRequest, response.FieldsError(verr.Fields))
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("error creating student")
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		log.Info().Str("name", student.Name).Msg("student created")
		response.WriteJSON(w, http.StatusCreated, map[string]string{"status": response.StatusCreated})
	}
}

// GetList handles GET /students?gpa_min=3.0
// Returns students with gpa >= gpa_min (default 0.0), highest gpa first.
//
// Success response (200 OK):
//
//	[
//	  { "id": 1, "name": "Alice", "major": "CS", "gpa": 3.8 },
//	  { "id": 4, "name": "Dan",   "major": null, "gpa": 3.6 }
//	]
//
// Returns an empty array [] (not null) when nothing matches, and 400 when
// gpa_min is not a number.
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := zerolog.Ctx(r.Context())

		gpaMin, err := ParseGPAMin(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		log.Info().Float64("gpa_min", gpaMin).Msg("listing students")

		students, err := storage.StudentsWithMinGPA(r.Context(), gpaMin)
		if err != nil {
			log.Error().Err(err).Msg("error listing students")
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ParseGPAMin reads the gpa_min query parameter. Absent means 0.0; NaN and
// infinities are rejected along with anything that is not a number.
func ParseGPAMin(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("gpa_min")
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid gpa_min %q: must be a number", raw)
	}
	return v, nil
}
