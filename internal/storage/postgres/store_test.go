package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/TriggerMinds/Archive-OSINT/internal/archive"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func TestListProjects(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "last_modified"}).
			AddRow("p2", "Newer", "", now, now).
			AddRow("p1", "Older", "first project", now.Add(-time.Hour), now))

	projects, err := store.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	require.Equal(t, "p2", projects[0].ID)
	require.Equal(t, "first project", projects[1].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListProjectsError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects")).
		WillReturnError(errors.New("connection reset"))

	_, err := store.ListProjects(context.Background())
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "list projects", perr.Op)
}

func TestCreateProject(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO projects")).
		WithArgs("Moon landings", "footage research").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "last_modified"}).
			AddRow("new-id", "Moon landings", "footage research", now, now))

	p, err := store.CreateProject(context.Background(), "Moon landings", "footage research")
	require.NoError(t, err)
	require.Equal(t, "new-id", p.ID)
	require.Equal(t, now, p.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProjectNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "last_modified"}))

	p, err := store.GetProject(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestSaveItemUpsertsAndTouchesProject(t *testing.T) {
	store, mock := newMockStore(t)

	item := archive.SearchResultItem{
		ID:                 "apollo11",
		Title:              "Apollo 11",
		DescriptionSnippet: "landing footage",
		Metadata:           archive.VideoMetadata{Identifier: "apollo11", Title: "Apollo 11"},
		Annotations:        "check 2:13 for LM shot",
		Tags:               []string{"moon", "nasa"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO saved_items")).
		WithArgs("proj-1", "apollo11", "Apollo 11", "landing footage", "", "",
			sqlmock.AnyArg(), "check 2:13 for LM shot", pq.Array([]string{"moon", "nasa"}), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE projects SET last_modified")).
		WithArgs("proj-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.SaveItem(context.Background(), "proj-1", item, nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveItemRollsBackOnFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO saved_items")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := store.SaveItem(context.Background(), "proj-1", archive.SearchResultItem{ID: "x"}, nil)
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveItemTouchesProject(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM saved_items")).
		WithArgs("proj-1", "apollo11").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE projects SET last_modified")).
		WithArgs("proj-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.RemoveItem(context.Background(), "proj-1", "apollo11")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedItemsRoundTrip(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM saved_items")).
		WithArgs("proj-1").
		WillReturnRows(sqlmock.NewRows([]string{"item_id", "annotations", "tags"}).
			AddRow("apollo11", "check 2:13", "{moon,nasa}"))

	states := store.SavedItems(context.Background(), "proj-1")
	require.Len(t, states, 1)
	require.Equal(t, "check 2:13", states["apollo11"].Annotations)
	require.Equal(t, []string{"moon", "nasa"}, states["apollo11"].Tags)
}

func TestSavedItemsDegradesToEmptyMap(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM saved_items")).
		WithArgs("proj-1").
		WillReturnError(errors.New("timeout"))

	states := store.SavedItems(context.Background(), "proj-1")
	require.NotNil(t, states)
	require.Empty(t, states)
}

func TestListSavedItems(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	metaJSON := `{"identifier":"apollo11","title":"Apollo 11","description":"landing","subjects":["moon"]}`
	mock.ExpectQuery(regexp.QuoteMeta("FROM saved_items")).
		WithArgs("proj-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"item_id", "title", "description_snippet", "thumbnail_url", "video_url",
			"metadata", "annotations", "tags", "saved_at",
		}).AddRow("apollo11", "Apollo 11", "landing", "", "", []byte(metaJSON), "", "{}", now))

	items, err := store.ListSavedItems(context.Background(), "proj-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "apollo11", items[0].Metadata.Identifier)
	require.Equal(t, []string{"moon"}, items[0].Metadata.Subjects)
}

func TestSimilarItems(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	metaJSON := `{"identifier":"apollo11","title":"Apollo 11","description":"","subjects":[]}`
	mock.ExpectQuery(regexp.QuoteMeta("embedding IS NOT NULL")).
		WithArgs("proj-1", sqlmock.AnyArg(), 3).
		WillReturnRows(sqlmock.NewRows([]string{
			"item_id", "title", "description_snippet", "thumbnail_url", "video_url",
			"metadata", "annotations", "tags", "saved_at", "similarity",
		}).AddRow("apollo11", "Apollo 11", "", "", "", []byte(metaJSON), "", "{}", now, 0.87))

	results, err := store.SimilarItems(context.Background(), "proj-1", []float32{0.1, 0.2}, 3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.InDelta(t, 0.87, results[0].Similarity, 1e-9)
}
