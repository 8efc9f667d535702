package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/erazemk/vozicek/internal/readiness"
	"github.com/erazemk/vozicek/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		// Headers are already sent; a failed write means the client went away.
		_ = json.NewEncoder(w).Encode(data)
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(target)
}

// storeError maps domain and store errors to a response. Anything unknown is
// logged and reported as a 500 with the fallback message.
func storeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, readiness.ErrDepletedStock):
		jsonError(w, http.StatusConflict, "item is already out of stock")
	case errors.Is(err, readiness.ErrInvalidQuantity):
		jsonError(w, http.StatusBadRequest, "quantity must be between 1 and the current stock")
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrDuplicate):
		jsonError(w, http.StatusConflict, "name already in use")
	case errors.Is(err, store.ErrInvalidStatus):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(fallback)
		jsonError(w, http.StatusInternalServerError, fallback)
	}
}
