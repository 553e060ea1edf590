package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the public Internet Archive endpoint.
const DefaultBaseURL = "https://archive.org"

const snippetMaxLen = 150

// defaultFields is the projection requested from the search API.
var defaultFields = []string{
	"identifier", "title", "description", "date", "publicdate",
	"creator", "subject", "collection", "mediatype", "year",
}

// SearchRequestError reports a transport failure or non-2xx response from
// the search API.
type SearchRequestError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *SearchRequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("archive search: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("archive search: %s", e.Message)
}

func (e *SearchRequestError) Unwrap() error { return e.Err }

// Client talks to the archive's advanced-search and metadata APIs.
type Client struct {
	baseURL string
	rows    int
	http    *http.Client
}

// NewClient returns a Client against the given base URL. An empty baseURL
// selects the public archive; rows <= 0 selects the default page size.
func NewClient(baseURL string, rows int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if rows <= 0 {
		rows = 50
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		rows:    rows,
		http:    &http.Client{},
	}
}

type searchResponse struct {
	Response struct {
		Docs []map[string]any `json:"docs"`
	} `json:"response"`
}

// Search runs one query against the advanced-search endpoint and returns
// the normalized results. The query may be either a bare query string or a
// "q=..." fragment as produced by older callers; both are accepted. Each
// call re-fetches, nothing is cached.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResultItem, error) {
	if strings.HasPrefix(query, "q=") {
		if vals, err := url.ParseQuery(query); err == nil {
			query = vals.Get("q")
		}
	}
	query = ensureMediaTypeFilter(strings.TrimSpace(query))

	params := url.Values{}
	params.Set("q", query)
	for _, f := range defaultFields {
		params.Add("fl[]", f)
	}
	params.Set("rows", strconv.Itoa(c.rows))
	params.Set("output", "json")

	reqURL := c.baseURL + "/advancedsearch.php?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &SearchRequestError{Message: err.Error(), Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &SearchRequestError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &SearchRequestError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		// Unexpected shape degrades to no results rather than an error.
		return []SearchResultItem{}, nil
	}

	results := make([]SearchResultItem, 0, len(body.Response.Docs))
	for _, doc := range body.Response.Docs {
		results = append(results, c.normalizeDoc(doc))
	}
	return results, nil
}

// normalizeDoc coalesces the API's scalar-or-array fields into one
// SearchResultItem.
func (c *Client) normalizeDoc(doc map[string]any) SearchResultItem {
	identifier := firstString(doc["identifier"])
	title := firstString(doc["title"])
	if title == "" {
		title = "Untitled"
	}
	description := joinStrings(doc["description"], "\n\n")

	datePublished := firstString(doc["publicdate"])
	if datePublished == "" {
		datePublished = firstString(doc["date"])
	}
	if datePublished == "" {
		datePublished = firstString(doc["year"])
	}

	meta := VideoMetadata{
		Identifier:    identifier,
		Title:         title,
		Description:   description,
		Subjects:      stringSlice(doc["subject"]),
		DatePublished: datePublished,
		Creator:       joinStrings(doc["creator"], ", "),
		Collection:    stringSlice(doc["collection"]),
	}

	return SearchResultItem{
		ID:                 identifier,
		Title:              title,
		DescriptionSnippet: snippet(description, snippetMaxLen),
		ThumbnailURL:       c.baseURL + "/services/img/" + identifier,
		VideoURL:           c.baseURL + "/details/" + identifier,
		Metadata:           meta,
		IsSaved:            false,
		Annotations:        "",
		Tags:               []string{},
	}
}

// firstString returns v as a string, taking the first element when v is an
// array. Non-string values are stringified with %v so numeric years survive.
func firstString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		if len(t) == 0 {
			return ""
		}
		return firstString(t[0])
	default:
		return fmt.Sprintf("%v", t)
	}
}

// joinStrings returns v joined with sep when v is an array of strings.
func joinStrings(v any, sep string) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s := firstString(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, sep)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// stringSlice normalizes a scalar-or-array field into a string slice.
func stringSlice(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func snippet(text string, maxLen int) string {
	if text == "" {
		return "No description available."
	}
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}
