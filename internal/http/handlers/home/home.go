// Package home serves the API's landing document.
package home

import (
	"net/http"

	"github.com/aanand-mishra/roster-api/internal/utils/response"
)

// Welcome is the body of GET /.
type Welcome struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

// Endpoints lists every route the API serves.
var Endpoints = []string{
	"/students (GET, POST)",
	"/raw-query?gpa_min=<float>&unsafe=<0|1> (GET)",
}

// Index handles GET /
func Index() http.HandlerFunc {
	body := Welcome{Message: "Student roster SQL safety demo", Endpoints: Endpoints}
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, body)
	}
}
