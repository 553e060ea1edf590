package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TriggerMinds/Archive-OSINT/internal/ai"
	"github.com/TriggerMinds/Archive-OSINT/internal/api/handlers"
	"github.com/TriggerMinds/Archive-OSINT/internal/api/middleware"
	"github.com/TriggerMinds/Archive-OSINT/internal/archive"
	"github.com/TriggerMinds/Archive-OSINT/internal/storage/postgres"
)

func NewRouter(search *archive.Client, store *postgres.Store, assistant *ai.Client, apiKey string) http.Handler {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	// Protected routes
	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(apiKey))

	searchHandler := handlers.NewSearchHandler(search, store)
	protected.HandleFunc("/search", searchHandler.Search).Methods(http.MethodPost)
	protected.HandleFunc("/items/{identifier}/download", searchHandler.Download).Methods(http.MethodGet)

	projectHandler := handlers.NewProjectHandler(store, assistant)
	projects := protected.PathPrefix("/projects").Subrouter()
	projects.HandleFunc("", projectHandler.List).Methods(http.MethodGet)
	projects.HandleFunc("", projectHandler.Create).Methods(http.MethodPost)
	projects.HandleFunc("/{id}", projectHandler.Get).Methods(http.MethodGet)
	projects.HandleFunc("/{id}/items", projectHandler.ListItems).Methods(http.MethodGet)
	projects.HandleFunc("/{id}/items/search", projectHandler.SimilarItems).Methods(http.MethodPost)
	projects.HandleFunc("/{id}/items/{itemId}", projectHandler.SaveItem).Methods(http.MethodPut)
	projects.HandleFunc("/{id}/items/{itemId}", projectHandler.RemoveItem).Methods(http.MethodDelete)

	aiHandler := handlers.NewAIHandler(assistant)
	protected.HandleFunc("/ai/suggest", aiHandler.Suggest).Methods(http.MethodPost)
	protected.HandleFunc("/ai/enrich", aiHandler.Enrich).Methods(http.MethodPost)

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
