package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/TriggerMinds/Archive-OSINT/internal/archive"
	"github.com/TriggerMinds/Archive-OSINT/internal/storage/postgres"
)

// Searcher is the slice of the archive client the search handler needs.
type Searcher interface {
	Search(ctx context.Context, query string) ([]archive.SearchResultItem, error)
	ItemFiles(ctx context.Context, identifier string) []archive.FileMetadata
	DownloadURL(identifier, name string) string
}

// SavedStateReader resolves the persisted saved-item state of a project.
type SavedStateReader interface {
	SavedItems(ctx context.Context, projectID string) map[string]postgres.SavedItemState
}

type SearchHandler struct {
	search Searcher
	store  SavedStateReader
}

func NewSearchHandler(search Searcher, store SavedStateReader) *SearchHandler {
	return &SearchHandler{search: search, store: store}
}

type searchRequest struct {
	MainQuery string               `json:"mainQuery"`
	Fields    []archive.QueryField `json:"fields"`
	DateRange struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	} `json:"dateRange"`
	ProjectID string `json:"projectId"`
}

type searchResponse struct {
	Query   string                     `json:"query"`
	Results []archive.SearchResultItem `json:"results"`
}

// Search builds the archive query from the structured request, runs it,
// and when a project is given merges that project's saved state into the
// results by item id.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	dateRange, err := parseDateRange(req.DateRange.StartDate, req.DateRange.EndDate)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	// Clients may send fields without ids; assign them here so each
	// request owns its own sequence.
	nextID := archive.NewFieldIDGenerator()
	for i := range req.Fields {
		if req.Fields[i].ID == "" {
			req.Fields[i].ID = nextID()
		}
	}

	query := archive.BuildQuery(req.MainQuery, req.Fields, dateRange)

	results, err := h.search.Search(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.ProjectID != "" {
		saved := h.store.SavedItems(r.Context(), req.ProjectID)
		for i := range results {
			if state, ok := saved[results[i].ID]; ok {
				results[i].IsSaved = true
				results[i].Annotations = state.Annotations
				results[i].Tags = state.Tags
			}
		}
	}

	writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: results})
}

type downloadResponse struct {
	DownloadURL string `json:"downloadUrl"`
	Name        string `json:"name"`
	Format      string `json:"format,omitempty"`
	Size        string `json:"size,omitempty"`
}

// Download resolves the best downloadable video file for an item. A
// missing or unusable file listing is "nothing to download", not a failure.
func (h *SearchHandler) Download(w http.ResponseWriter, r *http.Request) {
	identifier := mux.Vars(r)["identifier"]

	files := h.search.ItemFiles(r.Context(), identifier)
	best := archive.BestVideoFile(files)
	if best == nil {
		writeNotFound(w, "no downloadable video file found")
		return
	}

	writeJSON(w, http.StatusOK, downloadResponse{
		DownloadURL: h.search.DownloadURL(identifier, best.Name),
		Name:        best.Name,
		Format:      best.Format,
		Size:        best.Size,
	})
}

func parseDateRange(start, end string) (archive.QueryDateRange, error) {
	var dr archive.QueryDateRange
	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return dr, err
		}
		dr.StartDate = &t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return dr, err
		}
		dr.EndDate = &t
	}
	return dr, nil
}
