// Package rawquery serves GET /raw-query, which runs the minimum-gpa
// filter through either the parameterized or the concatenated SQL path.
package rawquery

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/aanand-mishra/roster-api/internal/http/handlers/student"
	"github.com/aanand-mishra/roster-api/internal/types"
	"github.com/aanand-mishra/roster-api/internal/utils/response"
)

// Querier runs the filter with the threshold bound (Safe) or pasted into
// the SQL text (Unsafe).
type Querier interface {
	Safe(ctx context.Context, gpaMin string) ([]types.Row, error)
	Unsafe(ctx context.Context, gpaMin string) ([]types.Row, error)
}

// Get handles GET /raw-query?gpa_min=3.0&unsafe=1
//
// gpa_min is a float (default 0.0) and unsafe an integer (default 0); any
// non-zero unsafe selects the concatenated query. Both are parsed before
// anything reaches SQL, and the threshold is re-formatted from the parsed
// number, so this endpoint never forwards raw client text into a query.
//
// Success response (200 OK): a JSON array of row objects.
// Database errors come back as 500 with the driver's message.
func Get(q Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := zerolog.Ctx(r.Context())

		gpaMin, err := student.ParseGPAMin(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		unsafe, err := parseUnsafe(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		threshold := strconv.FormatFloat(gpaMin, 'f', -1, 64)

		run := q.Safe
		if unsafe {
			run = q.Unsafe
			log.Warn().Str("gpa_min", threshold).Msg("running concatenated query")
		}

		rows, err := run(r.Context(), threshold)
		if err != nil {
			log.Error().Err(err).Bool("unsafe", unsafe).Msg("raw query failed")
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, rows)
	}
}

func parseUnsafe(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("unsafe")
	if raw == "" {
		return false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return false, fmt.Errorf("invalid unsafe %q: must be an integer", raw)
	}
	return v != 0, nil
}
