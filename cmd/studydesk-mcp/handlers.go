package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
)

// textResult wraps markdown in a tool result
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// handleListDocuments implements the list_documents tool
func handleListDocuments(store interfaces.LocalStore, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 50)
		docType := request.GetString("type", "")
		trashed := request.GetBool("trashed", false)

		var docs []*models.Document
		var err error
		if trashed {
			docs, err = store.GetTrashedDocuments(ctx)
		} else {
			docs, err = store.GetActiveDocuments(ctx)
		}
		if err != nil {
			logger.Error().Err(err).Msg("List documents failed")
			return textResult(fmt.Sprintf("List error: %v", err)), nil
		}

		filtered := make([]*models.Document, 0, len(docs))
		for _, doc := range docs {
			if docType != "" && !strings.EqualFold(string(doc.Type), docType) {
				continue
			}
			filtered = append(filtered, doc)
		}
		sortDocumentsByUpdated(filtered)
		if limit > 0 && len(filtered) > limit {
			filtered = filtered[:limit]
		}

		return textResult(formatDocumentList(filtered, trashed)), nil
	}
}

// handleGetDocument implements the get_document tool
func handleGetDocument(store interfaces.LocalStore, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		docID, err := request.RequireString("document_id")
		if err != nil || docID == "" {
			return textResult("Error: document_id parameter is required"), nil
		}
		maxChars := request.GetInt("max_chars", 20000)

		doc, err := store.GetDocument(ctx, docID)
		if err != nil {
			logger.Error().Err(err).Str("doc_id", docID).Msg("GetDocument failed")
			return textResult(fmt.Sprintf("Document error: %v", err)), nil
		}
		if doc == nil {
			return textResult(fmt.Sprintf("Document not found: %s", docID)), nil
		}

		var text string
		if maxChars != 0 {
			body, err := store.GetDocumentBody(ctx, docID)
			if err != nil {
				logger.Warn().Err(err).Str("doc_id", docID).Msg("GetDocumentBody failed")
			} else if body != nil {
				text = body.Text
			}
		}

		annotations, err := store.GetAnnotations(ctx, docID)
		if err != nil {
			logger.Warn().Err(err).Str("doc_id", docID).Msg("GetAnnotations failed")
		}

		return textResult(formatDocument(doc, text, maxChars, annotations)), nil
	}
}

// handleListAnnotations implements the list_annotations tool
func handleListAnnotations(store interfaces.LocalStore, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		docID := request.GetString("document_id", "")
		tag := request.GetString("tag", "")

		var annotations []models.Annotation
		var err error
		if docID != "" {
			annotations, err = store.GetAnnotations(ctx, docID)
		} else {
			annotations, err = store.GetAllAnnotations(ctx)
		}
		if err != nil {
			logger.Error().Err(err).Str("doc_id", docID).Msg("List annotations failed")
			return textResult(fmt.Sprintf("List error: %v", err)), nil
		}

		if tag != "" {
			filtered := annotations[:0]
			for _, a := range annotations {
				for _, t := range a.Tags {
					if strings.EqualFold(t, tag) {
						filtered = append(filtered, a)
						break
					}
				}
			}
			annotations = filtered
		}

		return textResult(formatAnnotations(annotations)), nil
	}
}

// handleSearch implements the search tool
func handleSearch(search interfaces.SearchService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || query == "" {
			return textResult("Error: query parameter is required"), nil
		}

		// Parse limit (default: 20, max: 100)
		limit := request.GetInt("limit", 20)
		if limit > 100 {
			limit = 100
		}

		results, err := search.Search(ctx, query, models.SearchOptions{
			Sort:  models.SavedSearchSort(request.GetString("sort", "")),
			Limit: limit,
		})
		if err != nil {
			logger.Error().Err(err).Str("query", query).Msg("Search failed")
			return textResult(fmt.Sprintf("Search error: %v", err)), nil
		}

		return textResult(formatSearchResults(query, results)), nil
	}
}

// handleListMeetingNotes implements the list_meeting_notes tool
func handleListMeetingNotes(store interfaces.LocalStore, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 20)
		meetingType := request.GetString("type", "")

		notes, err := store.GetMeetingNotes(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("List meeting notes failed")
			return textResult(fmt.Sprintf("List error: %v", err)), nil
		}

		filtered := make([]*models.MeetingNote, 0, len(notes))
		for _, n := range notes {
			if meetingType != "" && string(n.Type) != meetingType {
				continue
			}
			filtered = append(filtered, n)
		}
		if limit > 0 && len(filtered) > limit {
			filtered = filtered[:limit]
		}

		return textResult(formatMeetingNotes(filtered)), nil
	}
}

// handleGetSchedule implements the get_schedule tool
func handleGetSchedule(store interfaces.LocalStore, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kinds := models.ScheduleKinds
		if kind := request.GetString("kind", ""); kind != "" {
			parsed, err := models.ParseScheduleKind(kind)
			if err != nil {
				return textResult(fmt.Sprintf("Error: %v", err)), nil
			}
			kinds = []models.ScheduleKind{parsed}
		}

		schedules := make(map[models.ScheduleKind][]models.ScheduleEntry, len(kinds))
		for _, kind := range kinds {
			entries, err := store.GetSchedule(ctx, kind)
			if err != nil {
				logger.Error().Err(err).Str("kind", string(kind)).Msg("GetSchedule failed")
				return textResult(fmt.Sprintf("Schedule error: %v", err)), nil
			}
			schedules[kind] = entries
		}

		return textResult(formatSchedules(kinds, schedules)), nil
	}
}
