package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TriggerMinds/Archive-OSINT/internal/ai"
)

type fakeAssistant struct {
	suggestions []string
	enrichment  *ai.Enrichment
	err         error
}

func (f *fakeAssistant) SuggestQueries(ctx context.Context, originalQuery string) ([]string, error) {
	return f.suggestions, f.err
}

func (f *fakeAssistant) EnrichMetadata(ctx context.Context, title, description, subjects string) (*ai.Enrichment, error) {
	return f.enrichment, f.err
}

func TestSuggest(t *testing.T) {
	h := NewAIHandler(&fakeAssistant{suggestions: []string{"apollo AND creator:NASA"}})

	req := httptest.NewRequest(http.MethodPost, "/ai/suggest", strings.NewReader(`{"originalQuery":"apollo"}`))
	rec := httptest.NewRecorder()
	h.Suggest(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AlternativeQueries []string `json:"alternativeQueries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{"apollo AND creator:NASA"}, resp.AlternativeQueries)
}

func TestSuggestEmptyListIsValid(t *testing.T) {
	h := NewAIHandler(&fakeAssistant{suggestions: nil})

	req := httptest.NewRequest(http.MethodPost, "/ai/suggest", strings.NewReader(`{"originalQuery":"apollo"}`))
	rec := httptest.NewRecorder()
	h.Suggest(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"alternativeQueries":[]`)
}

func TestSuggestRequiresQuery(t *testing.T) {
	h := NewAIHandler(&fakeAssistant{})

	req := httptest.NewRequest(http.MethodPost, "/ai/suggest", strings.NewReader(`{"originalQuery":" "}`))
	rec := httptest.NewRecorder()
	h.Suggest(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestServiceFailure(t *testing.T) {
	h := NewAIHandler(&fakeAssistant{err: &ai.ServiceError{Op: "suggest queries", Err: errors.New("overloaded")}})

	req := httptest.NewRequest(http.MethodPost, "/ai/suggest", strings.NewReader(`{"originalQuery":"apollo"}`))
	rec := httptest.NewRecorder()
	h.Suggest(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestEnrich(t *testing.T) {
	h := NewAIHandler(&fakeAssistant{enrichment: &ai.Enrichment{
		Entities:  []string{"NASA"},
		Themes:    []string{"space exploration"},
		Sentiment: "positive",
	}})

	body := `{"title":"Apollo 11","description":"landing","subjects":"moon, nasa"}`
	req := httptest.NewRequest(http.MethodPost, "/ai/enrich", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Enrich(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ai.Enrichment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "positive", resp.Sentiment)
	require.Equal(t, []string{"NASA"}, resp.Entities)
}
