package web

// errors.go maps operation errors onto HTTP responses. Technical detail
// goes to the server log with the request id; clients get a short JSON
// body with the message alone.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matehops/mateh/internal/logging"
	"github.com/matehops/mateh/internal/sync"
)

// errJobInFlight rejects a job trigger while another job is running.
var errJobInFlight = errors.New("another job is already running")

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError logs err with request context and writes the mapped
// status with a JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
	)

	writeError(w, status, err.Error())
}

// statusFor maps operation errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sync.ErrUnknownJob):
		return http.StatusNotFound
	case errors.Is(err, sync.ErrContactNotFound):
		return http.StatusNotFound
	case errors.Is(err, sync.ErrInvalidContactID):
		return http.StatusBadRequest
	case errors.Is(err, errJobInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// writeJSON encodes v as JSON with a 200 status.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are out; all that is left is the log.
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
