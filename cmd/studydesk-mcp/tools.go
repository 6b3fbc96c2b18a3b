package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createListDocumentsTool returns the list_documents tool definition
func createListDocumentsTool() mcp.Tool {
	return mcp.NewTool("list_documents",
		mcp.WithDescription("List library documents, most recently updated first"),
		mcp.WithString("type",
			mcp.Description("Filter by document type: epub, pdf, docx, txt, md"),
		),
		mcp.WithBoolean("trashed",
			mcp.Description("List trashed documents instead of active ones"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum documents to return (default: 50)"),
		),
	)
}

// createGetDocumentTool returns the get_document tool definition
func createGetDocumentTool() mcp.Tool {
	return mcp.NewTool("get_document",
		mcp.WithDescription("Retrieve a document with its extracted text and annotations"),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("Document ID (format: doc_{uuid})"),
		),
		mcp.WithNumber("max_chars",
			mcp.Description("Truncate the document text (default: 20000, 0 for no text)"),
		),
	)
}

// createListAnnotationsTool returns the list_annotations tool definition
func createListAnnotationsTool() mcp.Tool {
	return mcp.NewTool("list_annotations",
		mcp.WithDescription("List highlights and notes for one document or the whole library"),
		mcp.WithString("document_id",
			mcp.Description("Limit to one document"),
		),
		mcp.WithString("tag",
			mcp.Description("Only annotations carrying this tag"),
		),
	)
}

// createSearchTool returns the search tool definition
func createSearchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search document titles, document text and annotations"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("All terms must match. Quoted phrases, -exclude, type:, kind:, tag:, doc: filters"),
		),
		mcp.WithString("sort",
			mcp.Description("newest (default), oldest or title"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 20, max: 100)"),
		),
	)
}

// createListMeetingNotesTool returns the list_meeting_notes tool definition
func createListMeetingNotesTool() mcp.Tool {
	return mcp.NewTool("list_meeting_notes",
		mcp.WithDescription("List meeting notes, newest meeting date first"),
		mcp.WithString("type",
			mcp.Description("Filter: midweek, weekend, convention"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 20)"),
		),
	)
}

// createGetScheduleTool returns the get_schedule tool definition
func createGetScheduleTool() mcp.Tool {
	return mcp.NewTool("get_schedule",
		mcp.WithDescription("Show the weekly meeting schedules"),
		mcp.WithString("kind",
			mcp.Description("midweek or weekend (default: both)"),
		),
	)
}
