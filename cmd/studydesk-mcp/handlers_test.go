package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/models"
	"github.com/ternarybob/studydesk/internal/services/library"
	"github.com/ternarybob/studydesk/internal/services/search"
	"github.com/ternarybob/studydesk/internal/storage/badger"
)

func newTestStore(t *testing.T) *library.Service {
	t.Helper()

	logger := arbor.NewLogger()
	manager, err := badger.NewManager(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	store := library.NewService(manager, nil, nil, logger)
	ctx := context.Background()

	_, err = store.SaveDocument(ctx, &models.Document{ID: "doc_1", Title: "Letter to the Romans", Type: models.DocumentTypeEPUB})
	require.NoError(t, err)
	_, err = store.SaveDocument(ctx, &models.Document{ID: "doc_2", Title: "Field notes", Type: models.DocumentTypeText})
	require.NoError(t, err)
	require.NoError(t, store.SaveAnnotations(ctx, "doc_1", []models.Annotation{
		{ID: "ann_1", Quote: "Faith comes from hearing", Tags: []string{"faith"}},
		{ID: "ann_2", Note: "hope does not disappoint", Tags: []string{"hope"}},
	}))
	_, err = store.SaveMeetingNote(ctx, &models.MeetingNote{ID: "meet_1", Title: "Midweek", Date: "2024-03-06", Type: models.MeetingTypeMidweek, Content: "Romans 5"})
	require.NoError(t, err)
	_, err = store.SaveMeetingNote(ctx, &models.MeetingNote{ID: "meet_2", Title: "Weekend", Date: "2024-03-10", Type: models.MeetingTypeWeekend})
	require.NoError(t, err)
	require.NoError(t, store.SaveSchedule(ctx, models.ScheduleMidweek, []models.ScheduleEntry{{Day: 3, Time: "19:00"}}))
	return store
}

func callTool(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleListDocuments(t *testing.T) {
	store := newTestStore(t)
	handler := handleListDocuments(store, arbor.NewLogger())

	result, err := handler(context.Background(), callTool(map[string]interface{}{}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "## Documents (2)")
	assert.Contains(t, text, "Letter to the Romans")

	result, err = handler(context.Background(), callTool(map[string]interface{}{"type": "txt"}))
	require.NoError(t, err)
	text = resultText(t, result)
	assert.Contains(t, text, "## Documents (1)")
	assert.Contains(t, text, "Field notes")
	assert.NotContains(t, text, "Romans")
}

func TestHandleGetDocument(t *testing.T) {
	store := newTestStore(t)
	handler := handleGetDocument(store, arbor.NewLogger())

	result, err := handler(context.Background(), callTool(map[string]interface{}{"document_id": "doc_1"}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "# Letter to the Romans")
	assert.Contains(t, text, "## Annotations (2)")
	assert.Contains(t, text, "> Faith comes from hearing")

	result, err = handler(context.Background(), callTool(map[string]interface{}{"document_id": "doc_missing"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Document not found")

	result, err = handler(context.Background(), callTool(map[string]interface{}{}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "document_id parameter is required")
}

func TestHandleListAnnotations_TagFilter(t *testing.T) {
	store := newTestStore(t)
	handler := handleListAnnotations(store, arbor.NewLogger())

	result, err := handler(context.Background(), callTool(map[string]interface{}{"tag": "HOPE"}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "## Annotations (1)")
	assert.Contains(t, text, "hope does not disappoint")
}

func TestHandleSearch(t *testing.T) {
	store := newTestStore(t)
	handler := handleSearch(search.NewService(store, arbor.NewLogger()), arbor.NewLogger())

	result, err := handler(context.Background(), callTool(map[string]interface{}{"query": "faith"}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, `## Search Results for "faith" (1 results)`)
	assert.Contains(t, text, "**Annotation:** ann_1")

	result, err = handler(context.Background(), callTool(map[string]interface{}{}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "query parameter is required")
}

func TestHandleListMeetingNotes(t *testing.T) {
	store := newTestStore(t)
	handler := handleListMeetingNotes(store, arbor.NewLogger())

	result, err := handler(context.Background(), callTool(map[string]interface{}{}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "## Meeting Notes (2)")
	assert.Less(t, strings.Index(text, "Weekend"), strings.Index(text, "Midweek"))

	result, err = handler(context.Background(), callTool(map[string]interface{}{"type": "midweek"}))
	require.NoError(t, err)
	text = resultText(t, result)
	assert.Contains(t, text, "## Meeting Notes (1)")
	assert.Contains(t, text, "Romans 5")
}

func TestHandleGetSchedule(t *testing.T) {
	store := newTestStore(t)
	handler := handleGetSchedule(store, arbor.NewLogger())

	result, err := handler(context.Background(), callTool(map[string]interface{}{}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "### Midweek\n- Wednesday 19:00")
	assert.Contains(t, text, "### Weekend\nNo meetings scheduled.")

	result, err = handler(context.Background(), callTool(map[string]interface{}{"kind": "monthly"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Error:")
}

func TestFormatDocument_TruncatesText(t *testing.T) {
	doc := &models.Document{ID: "doc_1", Title: "Long", Type: models.DocumentTypeText, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	text := formatDocument(doc, "abcdefghij", 4, nil)
	assert.Contains(t, text, "abcd...")
	assert.NotContains(t, text, "abcde")
}
