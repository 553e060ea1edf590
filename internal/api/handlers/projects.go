package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/TriggerMinds/Archive-OSINT/internal/archive"
	"github.com/TriggerMinds/Archive-OSINT/internal/storage/postgres"
)

// ProjectStore is the persistence surface of the project handler.
type ProjectStore interface {
	ListProjects(ctx context.Context) ([]postgres.Project, error)
	CreateProject(ctx context.Context, name, description string) (*postgres.Project, error)
	GetProject(ctx context.Context, id string) (*postgres.Project, error)
	SaveItem(ctx context.Context, projectID string, item archive.SearchResultItem, embedding []float32) error
	RemoveItem(ctx context.Context, projectID, itemID string) error
	ListSavedItems(ctx context.Context, projectID string) ([]postgres.SavedItem, error)
	SimilarItems(ctx context.Context, projectID string, embedding []float32, limit int) ([]postgres.SimilarItem, error)
}

// Embedder computes the vector stored alongside a saved item.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type ProjectHandler struct {
	store    ProjectStore
	embedder Embedder
}

func NewProjectHandler(store ProjectStore, embedder Embedder) *ProjectHandler {
	return &ProjectHandler{store: store, embedder: embedder}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if projects == nil {
		projects = []postgres.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeBadRequest(w, "project name is required")
		return
	}

	project, err := h.store.CreateProject(r.Context(), strings.TrimSpace(req.Name), req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.store.GetProject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if project == nil {
		writeNotFound(w, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// SaveItem upserts a search result under a project with the caller's
// annotations and tags. The embedding is best-effort: a failed AI call is
// logged and the item is saved without a vector, so annotating never
// depends on the LLM service being up.
func (h *ProjectHandler) SaveItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	projectID, itemID := vars["id"], vars["itemId"]

	var item archive.SearchResultItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if item.ID == "" {
		item.ID = itemID
	}
	if item.ID != itemID {
		writeBadRequest(w, "item id in body does not match path")
		return
	}
	if item.Metadata.Identifier == "" {
		item.Metadata.Identifier = item.ID
	}

	project, err := h.store.GetProject(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	if project == nil {
		writeNotFound(w, "project not found")
		return
	}

	var embedding []float32
	if h.embedder != nil {
		embedding, err = h.embedder.Embed(r.Context(), embeddingText(item))
		if err != nil {
			log.Printf("embedding item %s: %v", item.ID, err)
			embedding = nil
		}
	}

	if err := h.store.SaveItem(r.Context(), projectID, item, embedding); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved", "id": item.ID})
}

func (h *ProjectHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.store.RemoveItem(r.Context(), vars["id"], vars["itemId"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed", "id": vars["itemId"]})
}

func (h *ProjectHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListSavedItems(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []postgres.SavedItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

type similarSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// SimilarItems ranks a project's saved items against a free-text query
// using embeddings. Unlike SaveItem, a failed embedding call fails the
// request: there is nothing to rank without a vector.
func (h *ProjectHandler) SimilarItems(w http.ResponseWriter, r *http.Request) {
	var req similarSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeBadRequest(w, "query is required")
		return
	}

	embedding, err := h.embedder.Embed(r.Context(), req.Query)
	if err != nil {
		writeError(w, err)
		return
	}

	results, err := h.store.SimilarItems(r.Context(), mux.Vars(r)["id"], embedding, req.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []postgres.SimilarItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func embeddingText(item archive.SearchResultItem) string {
	parts := []string{item.Title, item.Metadata.Description, item.Annotations}
	parts = append(parts, item.Tags...)
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
