package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andriyko/contactbook-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeServiceError maps service sentinels to stable HTTP statuses with short
// messages; anything unexpected is an opaque 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrConflict):
		http.Error(w, "Resource already exists", http.StatusConflict)
	case errors.Is(err, services.ErrUnauthorized):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
