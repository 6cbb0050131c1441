package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/desertthunder/festmatch/internal/shared"
)

// writeJSON encodes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the service's standard error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps the shared sentinel errors onto HTTP statuses,
// keeping the error's own message as the body.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, domainStatus(err), err.Error())
}

func domainStatus(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrDuplicate), errors.Is(err, shared.ErrSuggestionClosed):
		return http.StatusConflict
	case errors.Is(err, shared.ErrServiceUnavailable), errors.Is(err, shared.ErrAPIRequest):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads the request body into v, limiting its size.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(v)
}

func decodeBody(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}
