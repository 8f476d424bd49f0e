// Package handlers provides HTTP handlers for the search API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/AioliaTech/api-ia/internal/domain"
	"github.com/AioliaTech/api-ia/internal/observability"
)

const (
	msgInventoryUnavailable = "O inventário de veículos não está carregado ou está vazio."
	msgQueryMissing         = "Query não informada"
)

func writeJSON(logger *observability.Logger, w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]string{
		"error":   message,
		"message": message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeDomainError maps domain error types to HTTP statuses.
func writeDomainError(logger *observability.Logger, w http.ResponseWriter, err error) {
	switch {
	case domain.IsUnavailable(err):
		writeError(w, http.StatusServiceUnavailable, msgInventoryUnavailable, err.Error())
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, msgQueryMissing, err.Error())
	default:
		logger.Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}
