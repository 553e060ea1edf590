package archive

import (
	"fmt"
	"time"
)

// VideoMetadata holds the normalized metadata of a single archive item.
// Identifier is the archive's unique key for the item.
type VideoMetadata struct {
	Identifier    string   `json:"identifier"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Subjects      []string `json:"subjects"`
	DatePublished string   `json:"datePublished,omitempty"`
	Creator       string   `json:"creator,omitempty"`
	Collection    []string `json:"collection,omitempty"`
}

// SearchResultItem is one row of a search response, enriched in memory
// with the caller's saved-item state. ID always equals Metadata.Identifier.
type SearchResultItem struct {
	ID                 string        `json:"id"`
	Title              string        `json:"title"`
	DescriptionSnippet string        `json:"descriptionSnippet"`
	ThumbnailURL       string        `json:"thumbnailUrl,omitempty"`
	VideoURL           string        `json:"videoUrl,omitempty"`
	Metadata           VideoMetadata `json:"metadata"`
	IsSaved            bool          `json:"isSaved"`
	Annotations        string        `json:"annotations"`
	Tags               []string      `json:"tags"`
}

// QueryField is one clause of a structured query. Operator expresses the
// boolean relation to the preceding clause; empty means default AND, except
// a leading NOT which is emitted as-is.
type QueryField struct {
	ID          string `json:"id"`
	Term        string `json:"term"`
	Operator    string `json:"operator"` // AND, OR, NOT or ""
	TargetField string `json:"targetField"`
	IsPhrase    bool   `json:"isPhrase"`
	UseWildcard bool   `json:"useWildcard"`
}

// QueryDateRange bounds a query by publication date. Either side may be
// nil for an open-ended range.
type QueryDateRange struct {
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// FileMetadata describes one file attached to an archive item. Numeric
// fields arrive as strings from the API and are kept that way.
type FileMetadata struct {
	Name   string `json:"name"`
	Source string `json:"source"` // "original" or "derivative"
	Format string `json:"format,omitempty"`
	Size   string `json:"size,omitempty"`
	Length string `json:"length,omitempty"`
	Height string `json:"height,omitempty"`
	Width  string `json:"width,omitempty"`
}

// NewFieldIDGenerator returns a function producing sequential field IDs.
// The counter lives in the closure so each query-builder session owns its
// own sequence instead of sharing process-wide state.
func NewFieldIDGenerator() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("field-%d", n)
	}
}
