package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vbonduro/atozbnb/internal/domain"
)

const maxJSONBody = 1 << 20

// errorBody is the JSON shape of every API error response.
type errorBody struct {
	Message string             `json:"message"`
	Errors  domain.FieldErrors `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, fields domain.FieldErrors) {
	writeJSON(w, status, errorBody{Message: message, Errors: fields})
}

// decodeJSON reads a JSON request body into v. It writes a 400 response and
// returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "Request body is required", nil)
		} else {
			writeError(w, http.StatusBadRequest, "Malformed JSON body", nil)
		}
		return false
	}
	return true
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// writeServiceError maps a service error to an API response. what names the
// resource in not-found messages.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, what string) {
	var fields domain.FieldErrors
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, what+" couldn't be found", nil)
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden", nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
	case errors.As(err, &fields):
		writeError(w, http.StatusBadRequest, "Bad Request", fields)
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
