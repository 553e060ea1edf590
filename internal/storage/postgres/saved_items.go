package postgres

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/TriggerMinds/Archive-OSINT/internal/archive"
)

// SavedItem is one persisted search result under a project.
type SavedItem struct {
	ItemID             string                `json:"id"`
	Title              string                `json:"title"`
	DescriptionSnippet string                `json:"descriptionSnippet"`
	ThumbnailURL       string                `json:"thumbnailUrl"`
	VideoURL           string                `json:"videoUrl"`
	Metadata           archive.VideoMetadata `json:"metadata"`
	Annotations        string                `json:"annotations"`
	Tags               []string              `json:"tags"`
	SavedAt            time.Time             `json:"savedAt"`
}

// SimilarItem pairs a saved item with its similarity to a query embedding.
type SimilarItem struct {
	SavedItem
	Similarity float64 `json:"similarity"`
}

// SaveItem upserts a search result under a project and touches the
// project's last_modified, in one transaction. embedding may be nil when
// no vector was computed for the item.
func (s *Store) SaveItem(ctx context.Context, projectID string, item archive.SearchResultItem, embedding []float32) error {
	metaJSON, err := json.Marshal(item.Metadata)
	if err != nil {
		return &PersistenceError{Op: "save item", Err: err}
	}

	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}

	var vec any
	if len(embedding) > 0 {
		vec = pgvector.NewVector(embedding)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "save item", Err: err}
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO saved_items
			(project_id, item_id, title, description_snippet, thumbnail_url, video_url, metadata, annotations, tags, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (project_id, item_id) DO UPDATE SET
			title = EXCLUDED.title,
			description_snippet = EXCLUDED.description_snippet,
			thumbnail_url = EXCLUDED.thumbnail_url,
			video_url = EXCLUDED.video_url,
			metadata = EXCLUDED.metadata,
			annotations = EXCLUDED.annotations,
			tags = EXCLUDED.tags,
			embedding = COALESCE(EXCLUDED.embedding, saved_items.embedding),
			saved_at = NOW()
	`
	if _, err := tx.ExecContext(ctx, upsert,
		projectID, item.ID, item.Title, item.DescriptionSnippet,
		item.ThumbnailURL, item.VideoURL, metaJSON, item.Annotations,
		pq.Array(tags), vec,
	); err != nil {
		return &PersistenceError{Op: "save item", Err: err}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE projects SET last_modified = NOW() WHERE id = $1`, projectID); err != nil {
		return &PersistenceError{Op: "save item", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "save item", Err: err}
	}
	return nil
}

// RemoveItem deletes a saved item and touches the project's last_modified.
func (s *Store) RemoveItem(ctx context.Context, projectID, itemID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "remove item", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM saved_items WHERE project_id = $1 AND item_id = $2`, projectID, itemID); err != nil {
		return &PersistenceError{Op: "remove item", Err: err}
	}
	if _, err := tx.ExecContext(ctx, `UPDATE projects SET last_modified = NOW() WHERE id = $1`, projectID); err != nil {
		return &PersistenceError{Op: "remove item", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "remove item", Err: err}
	}
	return nil
}

// SavedItems returns the persisted annotations and tags for every saved
// item of a project, keyed by item id. A failed fetch degrades to an empty
// map so a page load is never blocked by this query.
func (s *Store) SavedItems(ctx context.Context, projectID string) map[string]SavedItemState {
	states := make(map[string]SavedItemState)

	rows, err := s.db.QueryContext(ctx, `SELECT item_id, annotations, tags FROM saved_items WHERE project_id = $1`, projectID)
	if err != nil {
		log.Printf("fetching saved items for project %s: %v", projectID, err)
		return states
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var state SavedItemState
		if err := rows.Scan(&id, &state.Annotations, pq.Array(&state.Tags)); err != nil {
			log.Printf("scanning saved item for project %s: %v", projectID, err)
			return states
		}
		if state.Tags == nil {
			state.Tags = []string{}
		}
		states[id] = state
	}
	if err := rows.Err(); err != nil {
		log.Printf("fetching saved items for project %s: %v", projectID, err)
	}
	return states
}

// ListSavedItems returns the full saved-item rows of a project, most
// recently saved first.
func (s *Store) ListSavedItems(ctx context.Context, projectID string) ([]SavedItem, error) {
	const query = `
		SELECT item_id, title, description_snippet, thumbnail_url, video_url, metadata, annotations, tags, saved_at
		FROM saved_items
		WHERE project_id = $1
		ORDER BY saved_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, &PersistenceError{Op: "list saved items", Err: err}
	}
	defer rows.Close()

	var items []SavedItem
	for rows.Next() {
		item, err := scanSavedItem(rows.Scan)
		if err != nil {
			return nil, &PersistenceError{Op: "list saved items", Err: err}
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list saved items", Err: err}
	}
	return items, nil
}

// SimilarItems ranks a project's saved items by cosine similarity to the
// given embedding. Items saved without an embedding are excluded.
func (s *Store) SimilarItems(ctx context.Context, projectID string, embedding []float32, limit int) ([]SimilarItem, error) {
	if limit <= 0 {
		limit = 5
	}

	const query = `
		SELECT item_id, title, description_snippet, thumbnail_url, video_url, metadata, annotations, tags, saved_at,
			1 - (embedding <=> $2) AS similarity
		FROM saved_items
		WHERE project_id = $1 AND embedding IS NOT NULL
		ORDER BY embedding <=> $2
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, projectID, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, &PersistenceError{Op: "similar items", Err: err}
	}
	defer rows.Close()

	var results []SimilarItem
	for rows.Next() {
		var r SimilarItem
		var metaJSON []byte
		if err := rows.Scan(
			&r.ItemID, &r.Title, &r.DescriptionSnippet, &r.ThumbnailURL, &r.VideoURL,
			&metaJSON, &r.Annotations, pq.Array(&r.Tags), &r.SavedAt, &r.Similarity,
		); err != nil {
			return nil, &PersistenceError{Op: "similar items", Err: err}
		}
		if err := json.Unmarshal(metaJSON, &r.Metadata); err != nil {
			return nil, &PersistenceError{Op: "similar items", Err: err}
		}
		if r.Tags == nil {
			r.Tags = []string{}
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "similar items", Err: err}
	}
	return results, nil
}

func scanSavedItem(scan func(dest ...any) error) (*SavedItem, error) {
	var item SavedItem
	var metaJSON []byte
	if err := scan(
		&item.ItemID, &item.Title, &item.DescriptionSnippet, &item.ThumbnailURL, &item.VideoURL,
		&metaJSON, &item.Annotations, pq.Array(&item.Tags), &item.SavedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metaJSON, &item.Metadata); err != nil {
		return nil, err
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return &item, nil
}
