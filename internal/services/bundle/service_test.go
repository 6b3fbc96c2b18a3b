package bundle

import (
	"bytes"
	"context"
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

func newTestStore(t *testing.T) *library.Service {
	t.Helper()

	logger := arbor.NewLogger()
	manager, err := badger.NewManager(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	return library.NewService(manager, nil, nil, logger)
}

func seedStore(t *testing.T, store *library.Service) {
	t.Helper()
	ctx := context.Background()

	_, err := store.SaveDocument(ctx, &models.Document{ID: "doc_1", Title: "Test", Type: models.DocumentTypeMarkdown, Content: "page body"})
	require.NoError(t, err)
	_, err = store.SaveDocument(ctx, &models.Document{ID: "doc_2", Title: "Second", Type: models.DocumentTypePDF})
	require.NoError(t, err)
	require.NoError(t, store.SoftDeleteDocument(ctx, "doc_2"))

	require.NoError(t, store.SaveAnnotations(ctx, "doc_1", []models.Annotation{
		{ID: "ann_1", Text: "A"},
		{ID: "ann_2", Quote: "B", Tags: []string{"faith"}},
	}))
	require.NoError(t, store.SaveBookmarks(ctx, "doc_1", []models.Bookmark{{ID: "bm_1", Label: "Intro", Location: "p1"}}))
	_, err = store.ToggleFavorite(ctx, "doc_1")
	require.NoError(t, err)

	_, err = store.SaveMeetingNote(ctx, &models.MeetingNote{ID: "meet_1", Title: "Midweek", Date: "2024-03-06", Type: models.MeetingTypeMidweek})
	require.NoError(t, err)
	require.NoError(t, store.SaveSchedule(ctx, models.ScheduleMidweek, []models.ScheduleEntry{{Day: 3, Time: "19:00"}}))
	require.NoError(t, store.SaveSettings(ctx, &models.Settings{Language: "en"}))
	_, err = store.SaveSavedSearch(ctx, &models.SavedSearch{ID: "search_1", Query: "faith"})
	require.NoError(t, err)
}

func TestExportImport_RoundTripIntoEmptyStore(t *testing.T) {
	ctx := context.Background()
	source := newTestStore(t)
	seedStore(t, source)

	var buf bytes.Buffer
	require.NoError(t, NewService(source, arbor.NewLogger()).WriteTo(ctx, &buf))

	target := newTestStore(t)
	report, err := NewService(target, arbor.NewLogger()).Import(ctx, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, report.DocumentsAdded)
	assert.Equal(t, 2, report.AnnotationsAdded)
	assert.Equal(t, 1, report.MeetingNotesAdded)
	assert.True(t, report.SettingsApplied)

	docs, err := target.GetDocuments(ctx)
	require.NoError(t, err)
	ids := []string{}
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	assert.ElementsMatch(t, []string{"doc_1", "doc_2"}, ids)

	body, err := target.GetDocumentBody(ctx, "doc_1")
	require.NoError(t, err)
	require.NotNil(t, body)
	assert.Equal(t, "page body", body.Text)

	trashed, err := target.GetTrashedDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	assert.Equal(t, "doc_2", trashed[0].ID)

	annotations, err := target.GetAnnotations(ctx, "doc_1")
	require.NoError(t, err)
	annIDs := []string{}
	for _, a := range annotations {
		annIDs = append(annIDs, a.ID)
	}
	assert.ElementsMatch(t, []string{"ann_1", "ann_2"}, annIDs)

	notes, err := target.GetMeetingNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "meet_1", notes[0].ID)

	favorites, err := target.GetFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc_1"}, favorites)

	bookmarks, err := target.GetBookmarks(ctx, "doc_1")
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "bm_1", bookmarks[0].ID)

	midweek, err := target.GetSchedule(ctx, models.ScheduleMidweek)
	require.NoError(t, err)
	assert.Equal(t, []models.ScheduleEntry{{Day: 3, Time: "19:00"}}, midweek)

	searches, err := target.GetSavedSearches(ctx)
	require.NoError(t, err)
	assert.Len(t, searches, 1)
}

func TestImport_LastWriterWins(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewService(store, arbor.NewLogger())

	_, err := store.SaveDocument(ctx, &models.Document{ID: "doc_old", Title: "Local old"})
	require.NoError(t, err)
	_, err = store.SaveDocument(ctx, &models.Document{ID: "doc_new", Title: "Local new"})
	require.NoError(t, err)

	past := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Now().UTC().Add(24 * time.Hour)
	data := []byte(`{
		"version": 1,
		"exportedAt": "2024-01-01T00:00:00Z",
		"docs": [
			{"id": "doc_old", "title": "Bundle newer", "type": "txt", "updatedAt": "` + future.Format(time.RFC3339) + `"},
			{"id": "doc_new", "title": "Bundle older", "type": "txt", "updatedAt": "` + past.Format(time.RFC3339) + `"}
		]
	}`)

	report, err := svc.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 1, report.DocumentsUpdated)
	assert.Equal(t, 1, report.Skipped)

	replaced, err := store.GetDocument(ctx, "doc_old")
	require.NoError(t, err)
	assert.Equal(t, "Bundle newer", replaced.Title)

	kept, err := store.GetDocument(ctx, "doc_new")
	require.NoError(t, err)
	assert.Equal(t, "Local new", kept.Title)
}

func TestImport_AnnotationsMergeByID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewService(store, arbor.NewLogger())

	_, err := store.SaveDocument(ctx, &models.Document{ID: "doc_1", Title: "Test"})
	require.NoError(t, err)
	require.NoError(t, store.SaveAnnotations(ctx, "doc_1", []models.Annotation{
		{ID: "ann_1", Text: "local", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}))

	data := []byte(`{
		"version": 1,
		"exportedAt": "2024-06-01T00:00:00Z",
		"annotations": [
			{"id": "ann_1", "documentId": "doc_1", "text": "bundle", "updatedAt": "2024-05-01T00:00:00Z"},
			{"id": "ann_9", "documentId": "doc_1", "text": "extra", "updatedAt": "2024-05-01T00:00:00Z"}
		],
		"schedules": {"midweek": {}, "weekend": []}
	}`)

	report, err := svc.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 1, report.AnnotationsAdded)
	assert.Equal(t, 1, report.AnnotationsUpdated)
	assert.Zero(t, report.SchedulesReplaced)

	annotations, err := store.GetAnnotations(ctx, "doc_1")
	require.NoError(t, err)
	require.Len(t, annotations, 2)
	assert.Equal(t, "bundle", annotations[0].Text)
	assert.Equal(t, "ann_9", annotations[1].ID)
}

func TestImport_GroupedLayout(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	data := []byte(`{
		"version": 2,
		"exportedAt": "2024-06-01T00:00:00Z",
		"library": {"docs": [{"id": "doc_1", "title": "Grouped", "type": "epub", "updatedAt": "2024-05-01T00:00:00Z"}], "favorites": ["doc_1"]},
		"notes": {"annotations": [{"id": "ann_1", "documentId": "doc_1", "quote": "q"}], "meeting": []},
		"meetings": {"schedules": {"midweek": [{"day": 2, "time": "18:30"}], "weekend": {}}},
		"settings": {}
	}`)

	report, err := NewService(store, arbor.NewLogger()).Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 1, report.DocumentsAdded)
	assert.Equal(t, 1, report.FavoritesAdded)
	assert.Equal(t, 1, report.SchedulesReplaced)
	assert.False(t, report.SettingsApplied)

	doc, err := store.GetDocument(ctx, "doc_1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, models.DocumentTypeEPUB, doc.Type)
	assert.Equal(t, doc.UpdatedAt, doc.CreatedAt)
}

func TestImport_InvalidBundleWritesNothing(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"not json", `[1,2`, ""},
		{"not a bundle", `{"foo": 1}`, "version"},
		{"missing doc id", `{"version":1,"docs":[{"title":"x"}]}`, "docs[0].id"},
		{"unknown type", `{"version":1,"docs":[{"id":"doc_1","type":"mobi"}]}`, "docs[0].type"},
		{"orphan annotation", `{"version":1,"docs":[{"id":"doc_1"}],"annotations":[{"id":"ann_1","documentId":"doc_x"}]}`, "annotations[0].documentId"},
		{"bad schedule", `{"version":1,"docs":[{"id":"doc_1"}],"schedules":{"midweek":[{"day":9,"time":"19:00"}]}}`, "schedules.midweek[0]"},
		{"bad meeting date", `{"version":1,"docs":[{"id":"doc_1"}],"meeting":[{"id":"meet_1","date":"06/03/2024"}]}`, "meeting[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newTestStore(t)

			_, err := NewService(store, arbor.NewLogger()).Import(ctx, []byte(tt.data))
			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)

			docs, err := store.GetDocuments(ctx)
			require.NoError(t, err)
			assert.Empty(t, docs)
		})
	}
}

func TestImport_PageContentIsKept(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	data := []byte(`{"version":1,"docs":[{"id":"doc_p","title":"Page","type":"txt","content":"my page body","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-02T00:00:00Z"}]}`)
	report, err := NewService(store, arbor.NewLogger()).Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 1, report.DocumentsAdded)

	body, err := store.GetDocumentBody(ctx, "doc_p")
	require.NoError(t, err)
	require.NotNil(t, body)
	assert.Equal(t, "my page body", body.Text)
}
