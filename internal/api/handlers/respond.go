package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/TriggerMinds/Archive-OSINT/internal/ai"
	"github.com/TriggerMinds/Archive-OSINT/internal/archive"
	"github.com/TriggerMinds/Archive-OSINT/internal/storage/postgres"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps collaborator failures onto HTTP statuses: upstream
// services (search, AI) are gateways, the database is ours.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var searchErr *archive.SearchRequestError
	var aiErr *ai.ServiceError
	var persistErr *postgres.PersistenceError
	switch {
	case errors.As(err, &searchErr), errors.As(err, &aiErr):
		status = http.StatusBadGateway
	case errors.As(err, &persistErr):
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func writeNotFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": msg})
}
