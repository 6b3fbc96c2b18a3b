package search

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/models"
	"github.com/ternarybob/studydesk/internal/services/library"
	"github.com/ternarybob/studydesk/internal/storage/badger"
)

func newTestSearch(t *testing.T) (*Service, *library.Service) {
	t.Helper()
	ctx := context.Background()

	logger := arbor.NewLogger()
	manager, err := badger.NewManager(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	store := library.NewService(manager, nil, nil, logger)

	_, err = store.SaveDocument(ctx, &models.Document{ID: "doc_1", Title: "Letter to the Romans", Type: models.DocumentTypeEPUB})
	require.NoError(t, err)
	_, err = store.SaveDocument(ctx, &models.Document{ID: "doc_2", Title: "Study plan", Type: models.DocumentTypeText})
	require.NoError(t, err)
	_, err = store.SaveDocument(ctx, &models.Document{ID: "doc_3", Title: "Old Romans draft", Type: models.DocumentTypeText})
	require.NoError(t, err)
	require.NoError(t, store.SoftDeleteDocument(ctx, "doc_3"))

	require.NoError(t, manager.DocumentBodyStorage().SaveBody(ctx, &models.DocumentBody{
		DocumentID: "doc_2",
		Text:       strings.Repeat("filler ", 30) + "Read Romans chapter five every Tuesday. " + strings.Repeat("tail ", 30),
		UpdatedAt:  time.Now().UTC(),
	}))

	require.NoError(t, store.SaveAnnotations(ctx, "doc_1", []models.Annotation{
		{ID: "ann_1", Quote: "Faith comes from hearing", Tags: []string{"Faith"}, UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "ann_2", Note: "hope does not disappoint", Tags: []string{"hope"}, UpdatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}))

	return NewService(store, logger), store
}

func resultIDs(results []models.SearchResult) []string {
	ids := []string{}
	for _, r := range results {
		if r.AnnotationID != "" {
			ids = append(ids, r.AnnotationID)
		} else {
			ids = append(ids, r.DocumentID)
		}
	}
	return ids
}

func TestSearch_TitlesBodiesAndAnnotations(t *testing.T) {
	svc, _ := newTestSearch(t)

	results, err := svc.Search(context.Background(), "romans", models.SearchOptions{})
	require.NoError(t, err)
	// doc_1 by title, doc_2 by body, both annotations through their document title
	assert.ElementsMatch(t, []string{"doc_1", "doc_2", "ann_1", "ann_2"}, resultIDs(results))

	for _, r := range results {
		if r.DocumentID == "doc_2" {
			assert.Contains(t, r.Snippet, "Romans chapter five")
			assert.True(t, strings.HasPrefix(r.Snippet, "…"))
			assert.True(t, strings.HasSuffix(r.Snippet, "…"))
		}
	}
}

func TestSearch_AllTermsMustMatch(t *testing.T) {
	svc, _ := newTestSearch(t)

	results, err := svc.Search(context.Background(), "FAITH hearing", models.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ann_1"}, resultIDs(results))
}

func TestSearch_Filters(t *testing.T) {
	svc, _ := newTestSearch(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		query   string
		filters map[string]string
		want    []string
	}{
		{"kind document", "romans", map[string]string{"kind": "document"}, []string{"doc_1", "doc_2"}},
		{"kind annotation", "", map[string]string{"kind": "annotation"}, []string{"ann_1", "ann_2"}},
		{"tag is case insensitive", "", map[string]string{"tag": "faith"}, []string{"ann_1"}},
		{"type", "", map[string]string{"type": "txt"}, []string{"doc_2"}},
		{"document id", "", map[string]string{"documentId": "doc_1"}, []string{"doc_1", "ann_1", "ann_2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := svc.Search(ctx, tt.query, models.SearchOptions{Filters: tt.filters})
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, resultIDs(results))
		})
	}
}

func TestSearch_TrashedDocumentsExcludedByDefault(t *testing.T) {
	svc, _ := newTestSearch(t)
	ctx := context.Background()

	results, err := svc.Search(ctx, "draft", models.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.Search(ctx, "draft", models.SearchOptions{IncludeTrashed: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc_3"}, resultIDs(results))
}

func TestSearch_SortAndLimit(t *testing.T) {
	svc, _ := newTestSearch(t)
	ctx := context.Background()
	opts := models.SearchOptions{Filters: map[string]string{"kind": "annotation"}}

	results, err := svc.Search(ctx, "", opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"ann_2", "ann_1"}, resultIDs(results))

	opts.Sort = models.SavedSearchSortOldest
	opts.Limit = 1
	results, err = svc.Search(ctx, "", opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"ann_1"}, resultIDs(results))
}

func TestRunSaved(t *testing.T) {
	svc, store := newTestSearch(t)
	ctx := context.Background()

	saved, err := store.SaveSavedSearch(ctx, &models.SavedSearch{
		Title:   "Hope",
		Query:   "hope",
		Filters: map[string]string{"kind": "annotation"},
	})
	require.NoError(t, err)

	results, err := svc.RunSaved(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ann_2"}, resultIDs(results))

	_, err = svc.RunSaved(ctx, "search_missing")
	assert.ErrorIs(t, err, ErrSavedSearchNotFound)
}

func TestSearch_InlineQualifiersAndExclusions(t *testing.T) {
	svc, _ := newTestSearch(t)
	ctx := context.Background()

	results, err := svc.Search(ctx, "romans -hope", models.SearchOptions{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc_1", "doc_2", "ann_1"}, resultIDs(results))

	results, err = svc.Search(ctx, `kind:annotation "comes from"`, models.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ann_1"}, resultIDs(results))

	// explicit filters override inline qualifiers
	results, err = svc.Search(ctx, "kind:annotation romans", models.SearchOptions{Filters: map[string]string{"kind": "document"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc_1", "doc_2"}, resultIDs(results))
}
