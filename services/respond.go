package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/upcv/backend/models"
)

type errorResponse struct {
	Error  string              `json:"error"`
	Fields []models.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeStoreError maps record store errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	var (
		validationErr  *models.ValidationError
		notFoundErr    *models.NotFoundError
		referentialErr *models.ReferentialIntegrityError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Validation failed", Fields: validationErr.Fields})
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.As(err, &referentialErr):
		writeError(w, http.StatusConflict, "Owning user does not exist")
	default:
		slog.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
