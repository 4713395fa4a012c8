package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
)

// maxBodyBytes caps request bodies; every request here is a few fields.
const maxBodyBytes = 64 << 10

// decodeBody decodes a size-limited JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status mapDomainError picks.
// Validation errors carry the rejected field so clients can show the
// message next to the input.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := mapDomainError(err)

	if verr, ok := domain.IsValidationError(err); ok {
		writeJSON(w, status, dto.ErrorResponse{
			Error:   message,
			Field:   verr.Field,
			Message: verr.Reason.Error(),
		})
		return
	}

	writeError(w, status, message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	if _, ok := domain.IsValidationError(err); ok {
		return http.StatusUnprocessableEntity
	}

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrCostNotNumber),
		errors.Is(err, domain.ErrCostNotPositive),
		errors.Is(err, domain.ErrCostOutOfRange):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// queryValue returns the query parameter and whether it was supplied.
func queryValue(r *http.Request, key string) *string {
	values, ok := r.URL.Query()[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
