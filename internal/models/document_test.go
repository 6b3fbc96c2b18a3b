package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentTypeFromName(t *testing.T) {
	tests := []struct {
		name     string
		expected DocumentType
	}{
		{"book.epub", DocumentTypeEPUB},
		{"Paper.PDF", DocumentTypePDF},
		{"report.docx", DocumentTypeDOCX},
		{"notes.md", DocumentTypeMarkdown},
		{"notes.markdown", DocumentTypeMarkdown},
		{"readme.txt", DocumentTypeText},
		{"archive.tar.gz", DocumentTypeText},
		{"noext", DocumentTypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DocumentTypeFromName(tt.name))
		})
	}
}

func TestDocument_Lifecycle(t *testing.T) {
	doc := &Document{ID: "doc_1"}
	assert.Equal(t, LifecycleActive, doc.State())

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	doc.Trash(at)
	assert.True(t, doc.IsTrashed())
	require.NotNil(t, doc.DeletedAt)
	assert.Equal(t, at, *doc.DeletedAt)

	doc.Restore()
	assert.False(t, doc.IsTrashed())
	assert.Nil(t, doc.DeletedAt)
}

func TestDocument_StateFromDeletedAtOnly(t *testing.T) {
	// Bundles written without the lifecycle field only carry deletedAt
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"id":"doc_1","title":"x","deletedAt":"2024-01-02T03:04:05Z"}`), &doc))
	assert.True(t, doc.IsTrashed())
}

func TestDocument_RecencyTime(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	opened := created.Add(2 * time.Hour)

	doc := &Document{CreatedAt: created}
	assert.Equal(t, created, doc.RecencyTime())

	doc.UpdatedAt = updated
	assert.Equal(t, updated, doc.RecencyTime())

	doc.LastOpened = &opened
	assert.Equal(t, opened, doc.RecencyTime())
}

func TestDocument_CloneIsIndependent(t *testing.T) {
	deleted := time.Now().UTC()
	doc := &Document{ID: "doc_1", Meta: map[string]interface{}{"pages": 3}, DeletedAt: &deleted}

	clone := doc.Clone()
	clone.Meta["pages"] = 9
	*clone.DeletedAt = deleted.Add(time.Hour)

	assert.Equal(t, 3, doc.Meta["pages"])
	assert.Equal(t, deleted, *doc.DeletedAt)
}

func TestScheduleEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entry   ScheduleEntry
		wantErr bool
	}{
		{"valid", ScheduleEntry{Day: 3, Time: "19:00"}, false},
		{"sunday", ScheduleEntry{Day: 0, Time: "10:30"}, false},
		{"day too high", ScheduleEntry{Day: 7, Time: "19:00"}, true},
		{"negative day", ScheduleEntry{Day: -1, Time: "19:00"}, true},
		{"bad time", ScheduleEntry{Day: 1, Time: "7pm"}, true},
		{"empty time", ScheduleEntry{Day: 1}, true},
		{"single digit hour", ScheduleEntry{Day: 1, Time: "9:05"}, false},
		{"minute out of range", ScheduleEntry{Day: 1, Time: "19:60"}, true},
		{"seconds", ScheduleEntry{Day: 1, Time: "19:00:00"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidScheduleEntry)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseScheduleKind(t *testing.T) {
	kind, err := ParseScheduleKind("midweek")
	require.NoError(t, err)
	assert.Equal(t, ScheduleMidweek, kind)

	_, err = ParseScheduleKind("daily")
	assert.ErrorIs(t, err, ErrInvalidScheduleKind)
}

func TestBundle_TolerantSchedules(t *testing.T) {
	// Older exports wrote {} for a missing schedule
	data := `{"version":1,"docs":[],"schedules":{"midweek":{},"weekend":[{"day":6,"time":"10:00"}]}}`

	var b Bundle
	require.NoError(t, json.Unmarshal([]byte(data), &b))
	assert.Empty(t, b.Schedules.Midweek)
	assert.Equal(t, ScheduleList{{Day: 6, Time: "10:00"}}, b.Schedules.Weekend)
}

func TestNestedBundle_Flatten(t *testing.T) {
	data := `{
		"version": 2,
		"library": {"docs": [{"id":"doc_1","title":"A","type":"txt"}], "favorites": ["doc_1"]},
		"notes": {"annotations": [{"id":"ann_1","documentId":"doc_1","text":"hi"}], "meeting": [{"id":"meet_1","title":"M"}]},
		"meetings": {"schedules": {"midweek": [{"day":3,"time":"19:00"}]}}
	}`

	var nested NestedBundle
	require.NoError(t, json.Unmarshal([]byte(data), &nested))
	b := nested.Flatten()

	require.Len(t, b.Docs, 1)
	assert.Equal(t, "doc_1", b.Docs[0].ID)
	assert.Equal(t, []string{"doc_1"}, b.Favorites)
	require.Len(t, b.Annotations, 1)
	assert.Equal(t, "doc_1", b.Annotations[0].DocumentID)
	require.Len(t, b.Meeting, 1)
	assert.Len(t, b.Schedules.Midweek, 1)
	assert.NotNil(t, b.Bookmarks)
}

func TestRemoteDocument_CreatedAtFallsBackToUpdatedAt(t *testing.T) {
	updated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	remote := RemoteDocument{ID: "doc_r", Title: "Remote", Type: "bogus", UpdatedAt: &updated}

	doc := remote.Document(time.Now().UTC())
	assert.Equal(t, updated, doc.CreatedAt)
	assert.Equal(t, updated, doc.UpdatedAt)
	assert.Equal(t, DocumentTypeText, doc.Type)
	assert.False(t, doc.IsTrashed())
}

func TestNewRemoteAnnotation_TextTravelsAsNote(t *testing.T) {
	a := &Annotation{ID: "ann_1", DocumentID: "doc_1", Text: "free text"}
	remote := NewRemoteAnnotation(a)
	assert.Equal(t, "doc_1", remote.DocID)
	assert.Equal(t, "free text", remote.Note)
}
