// Package router assembles the HTTP API.
//
// Route table:
//
//	GET    /             welcome document listing the endpoints
//	POST   /students     create one student
//	GET    /students     students with gpa >= gpa_min
//	GET    /raw-query    the same filter through raw SQL, safe or unsafe
package router

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aanand-mishra/roster-api/internal/http/handlers/home"
	"github.com/aanand-mishra/roster-api/internal/http/handlers/rawquery"
	"github.com/aanand-mishra/roster-api/internal/http/handlers/student"
	"github.com/aanand-mishra/roster-api/internal/http/middleware"
	"github.com/aanand-mishra/roster-api/internal/storage"
)

// Deps are the collaborators the handlers close over.
type Deps struct {
	Storage storage.Storage
	Querier rawquery.Querier
	Logger  zerolog.Logger
}

// New returns the API handler with request ids and access logging applied.
func New(deps Deps) http.Handler {
	mux := http.NewServeMux()

	// "/{$}" matches only the root, not every unmatched path.
	mux.HandleFunc("GET /{$}", home.Index())
	mux.HandleFunc("POST /students", student.New(deps.Storage))
	mux.HandleFunc("GET /students", student.GetList(deps.Storage))
	mux.HandleFunc("GET /raw-query", rawquery.Get(deps.Querier))

	return middleware.RequestID(middleware.Logger(deps.Logger)(mux))
}
