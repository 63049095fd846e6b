package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dd0wney/cluso-habitat/pkg/algorithms"
	"github.com/dd0wney/cluso-habitat/pkg/building"
	"github.com/dd0wney/cluso-habitat/pkg/logging"
	"github.com/dd0wney/cluso-habitat/pkg/validation"
)

// errBadRequest marks client errors that have no domain sentinel.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case building.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, validation.ErrInvalidNumericInput),
		errors.Is(err, validation.ErrInvalidIdentifier),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, algorithms.ErrPaletteExhausted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// respondErr writes err with the status statusFor picks. Internal errors
// are logged and replaced by a generic message.
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			logging.Operation(operation), logging.Path(r.URL.Path), logging.Error(err))
		s.respondError(w, status, operation+" failed")
		return
	}
	s.respondError(w, status, err.Error())
}

// decodeJSON decodes an optional JSON body. An empty body leaves v as is.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return badRequest("invalid request body: %v", err)
	}
	return nil
}
