package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const suggestPrompt = `You are an expert in crafting search queries for the Internet Archive, specifically for uncovering hard-to-find or obscure video footage. Given an initial search query, suggest alternative search queries that might yield better results.

Original Query: %s

Consider these strategies:
- Boolean logic (AND, OR, NOT) to refine the search.
- Wildcards (*) to account for variations in keywords.
- Exact phrase matching with quotes.
- Field-specific targeting (creator, title, subject).
- Date ranges to filter by timeframe.

Provide at least 3 alternative queries combining these strategies.

Respond with ONLY a JSON array of strings, for example:
["alternative query 1", "alternative query 2", "alternative query 3"]`

const enrichPrompt = `Analyze the following video metadata to identify key entities, dominant themes, and overall sentiment.

Title: %s
Description: %s
Subjects: %s

Extract key entities (people, organizations, locations), dominant themes, and overall sentiment (positive, negative or neutral).

Respond with ONLY a JSON object of this shape:
{"entities": ["..."], "themes": ["..."], "sentiment": "..."}`

// Enrichment is the structured output of metadata enrichment.
type Enrichment struct {
	Entities  []string `json:"entities"`
	Themes    []string `json:"themes"`
	Sentiment string   `json:"sentiment"`
}

// SuggestQueries asks the LLM for alternative query strings for the given
// query. An empty list is a valid outcome; malformed output is not.
func (c *Client) SuggestQueries(ctx context.Context, originalQuery string) ([]string, error) {
	response, err := c.complete(ctx, fmt.Sprintf(suggestPrompt, originalQuery))
	if err != nil {
		return nil, &ServiceError{Op: "suggest queries", Err: err}
	}

	var queries []string
	if err := json.Unmarshal([]byte(extractJSON(response, '[', ']')), &queries); err != nil {
		return nil, &ServiceError{Op: "suggest queries", Err: fmt.Errorf("malformed response: %w", err)}
	}

	suggestions := make([]string, 0, len(queries))
	for _, q := range queries {
		if q = strings.TrimSpace(q); q != "" {
			suggestions = append(suggestions, q)
		}
	}
	return suggestions, nil
}

// EnrichMetadata extracts entities, themes and sentiment from an item's
// title, description and comma-joined subjects.
func (c *Client) EnrichMetadata(ctx context.Context, title, description, subjects string) (*Enrichment, error) {
	response, err := c.complete(ctx, fmt.Sprintf(enrichPrompt, title, description, subjects))
	if err != nil {
		return nil, &ServiceError{Op: "enrich metadata", Err: err}
	}

	var enrichment Enrichment
	if err := json.Unmarshal([]byte(extractJSON(response, '{', '}')), &enrichment); err != nil {
		return nil, &ServiceError{Op: "enrich metadata", Err: fmt.Errorf("malformed response: %w", err)}
	}
	if enrichment.Sentiment == "" {
		return nil, &ServiceError{Op: "enrich metadata", Err: fmt.Errorf("response missing sentiment")}
	}
	if enrichment.Entities == nil {
		enrichment.Entities = []string{}
	}
	if enrichment.Themes == nil {
		enrichment.Themes = []string{}
	}
	return &enrichment, nil
}

// extractJSON cuts the first JSON value delimited by left and right out of
// a model response, tolerating code fences and prose around it. Returns
// the input unchanged when the delimiters are absent so json.Unmarshal
// produces the real error.
func extractJSON(s string, left, right byte) string {
	start := strings.IndexByte(s, left)
	end := strings.LastIndexByte(s, right)
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
