package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/TriggerMinds/Archive-OSINT/internal/ai"
)

// QueryAssistant is the LLM surface exposed over HTTP.
type QueryAssistant interface {
	SuggestQueries(ctx context.Context, originalQuery string) ([]string, error)
	EnrichMetadata(ctx context.Context, title, description, subjects string) (*ai.Enrichment, error)
}

type AIHandler struct {
	assistant QueryAssistant
}

func NewAIHandler(assistant QueryAssistant) *AIHandler {
	return &AIHandler{assistant: assistant}
}

type suggestRequest struct {
	OriginalQuery string `json:"originalQuery"`
}

type suggestResponse struct {
	AlternativeQueries []string `json:"alternativeQueries"`
}

// Suggest returns alternative query strings for the given query. An empty
// list is a valid response; the client renders it as "no suggestions".
func (h *AIHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.OriginalQuery) == "" {
		writeBadRequest(w, "originalQuery is required")
		return
	}

	queries, err := h.assistant.SuggestQueries(r.Context(), req.OriginalQuery)
	if err != nil {
		writeError(w, err)
		return
	}
	if queries == nil {
		queries = []string{}
	}
	writeJSON(w, http.StatusOK, suggestResponse{AlternativeQueries: queries})
}

type enrichRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Subjects    string `json:"subjects"`
}

// Enrich extracts entities, themes and sentiment from item metadata.
func (h *AIHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	enrichment, err := h.assistant.EnrichMetadata(r.Context(), req.Title, req.Description, req.Subjects)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, enrichment)
}
