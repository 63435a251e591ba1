package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
)

var errBadInput = errors.New("bad input")

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON logs encode failures through the request logger, the status is already sent by then
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// storeFailure logs the cause and hides it from the client
func (h *handlers) storeFailure(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("store operation failed")
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func amountParam(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("amount")
	if raw == "" {
		return 0, errBadInput
	}

	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, errBadInput
	}

	return amount, nil
}
