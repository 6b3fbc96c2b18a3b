package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/studydesk/internal/models"
)

func documentIDs(docs []*models.Document) []string {
	ids := []string{}
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestFindDocumentsByText(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Extracted body (the stub uppercases it)
	extracted, err := svc.ImportFile(ctx, "notes.md", []byte("grace and peace"))
	require.NoError(t, err)

	// No extractor: only the file bytes hold the text
	svc.extractor = nil
	plain, err := svc.ImportFile(ctx, "plain.txt", []byte("peace be with you"))
	require.NoError(t, err)

	page, err := svc.SaveDocument(ctx, &models.Document{Title: "Page", Content: "Peace that surpasses"})
	require.NoError(t, err)
	titled, err := svc.SaveDocument(ctx, &models.Document{Title: "On Peace", Type: models.DocumentTypePDF})
	require.NoError(t, err)
	_, err = svc.SaveDocument(ctx, &models.Document{Title: "Unrelated", Content: "joy"})
	require.NoError(t, err)

	docs, err := svc.FindDocumentsByText(ctx, "peace")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{extracted.ID, plain.ID, page.ID, titled.ID}, documentIDs(docs))

	docs, err = svc.FindDocumentsByText(ctx, "grace")
	require.NoError(t, err)
	assert.Equal(t, []string{extracted.ID}, documentIDs(docs))

	docs, err = svc.FindDocumentsByText(ctx, "")
	require.NoError(t, err)
	assert.Len(t, docs, 5)
}

func TestFindDocumentsByText_ContentReplacesBody(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.ImportFile(ctx, "draft.txt", []byte("old wording"))
	require.NoError(t, err)

	doc.Content = "new wording"
	_, err = svc.SaveDocument(ctx, doc)
	require.NoError(t, err)

	docs, err := svc.FindDocumentsByText(ctx, "old")
	require.NoError(t, err)
	assert.Empty(t, docs)

	docs, err = svc.FindDocumentsByText(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, []string{doc.ID}, documentIDs(docs))
}

func TestFindAnnotationsByText(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveDocument(ctx, &models.Document{ID: "doc_1", Title: "Letter to the Romans"})
	require.NoError(t, err)
	_, err = svc.SaveDocument(ctx, &models.Document{ID: "doc_2", Title: "Field notes"})
	require.NoError(t, err)

	require.NoError(t, svc.SaveAnnotations(ctx, "doc_1", []models.Annotation{
		{ID: "ann_1", Quote: "Faith comes from hearing"},
		{ID: "ann_2", Note: "unrelated"},
	}))
	require.NoError(t, svc.SaveAnnotations(ctx, "doc_2", []models.Annotation{
		{ID: "ann_3", Note: "by FAITH", Tags: []string{"study"}},
		{ID: "ann_4", Note: "other", Tags: []string{"faithful"}},
		{ID: "ann_5", Note: "nothing"},
	}))
	// Orphaned collection
	require.NoError(t, svc.SaveAnnotations(ctx, "doc_gone", []models.Annotation{{ID: "ann_6", Note: "faith"}}))

	annotations, err := svc.FindAnnotationsByText(ctx, "faith")
	require.NoError(t, err)
	ids := []string{}
	for _, a := range annotations {
		ids = append(ids, a.ID)
		assert.NotEmpty(t, a.DocTitle)
	}
	assert.ElementsMatch(t, []string{"ann_1", "ann_3", "ann_4"}, ids)

	// A title hit brings every annotation of that document
	annotations, err = svc.FindAnnotationsByText(ctx, "romans")
	require.NoError(t, err)
	ids = []string{}
	for _, a := range annotations {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []string{"ann_1", "ann_2"}, ids)
}

func TestGetAllBookmarks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveDocument(ctx, &models.Document{ID: "doc_1", Title: "A"})
	require.NoError(t, err)
	_, err = svc.SaveDocument(ctx, &models.Document{ID: "doc_2", Title: "B"})
	require.NoError(t, err)

	require.NoError(t, svc.SaveBookmarks(ctx, "doc_1", []models.Bookmark{{ID: "bm_1", Location: "p1"}}))
	require.NoError(t, svc.SaveBookmarks(ctx, "doc_2", nil))
	require.NoError(t, svc.SaveBookmarks(ctx, "doc_gone", []models.Bookmark{{ID: "bm_2"}}))

	all, err := svc.GetAllBookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Len(t, all["doc_1"], 1)
	assert.Equal(t, "bm_1", all["doc_1"][0].ID)
}
