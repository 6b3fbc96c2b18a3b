package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/studydesk/internal/models"
)

var weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func sortDocumentsByUpdated(docs []*models.Document) {
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].UpdatedAt.After(docs[j].UpdatedAt) })
}

// formatDocumentList formats a document list as markdown
func formatDocumentList(docs []*models.Document, trashed bool) string {
	var sb strings.Builder
	heading := "Documents"
	if trashed {
		heading = "Trashed Documents"
	}
	sb.WriteString(fmt.Sprintf("## %s (%d)\n\n", heading, len(docs)))

	if len(docs) == 0 {
		sb.WriteString("No documents found.\n")
		return sb.String()
	}

	for i, doc := range docs {
		sb.WriteString(fmt.Sprintf("%d. **%s** (%s)\n", i+1, doc.Title, doc.Type))
		sb.WriteString(fmt.Sprintf("   ID: %s\n", doc.ID))
		sb.WriteString(fmt.Sprintf("   Updated: %s\n", doc.UpdatedAt.Format(time.RFC3339)))
		if doc.LastOpened != nil {
			sb.WriteString(fmt.Sprintf("   Last opened: %s\n", doc.LastOpened.Format(time.RFC3339)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatDocument formats a single document as markdown
func formatDocument(doc *models.Document, text string, maxChars int, annotations []models.Annotation) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", doc.Title))
	sb.WriteString(fmt.Sprintf("**ID:** %s\n", doc.ID))
	sb.WriteString(fmt.Sprintf("**Type:** %s\n", doc.Type))
	sb.WriteString(fmt.Sprintf("**Created:** %s\n", doc.CreatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("**Updated:** %s\n", doc.UpdatedAt.Format(time.RFC3339)))
	if doc.DeletedAt != nil {
		sb.WriteString(fmt.Sprintf("**Trashed:** %s\n", doc.DeletedAt.Format(time.RFC3339)))
	}
	sb.WriteString("\n")

	if text != "" {
		if maxChars > 0 && len(text) > maxChars {
			text = text[:maxChars] + "..."
		}
		sb.WriteString("## Content\n\n")
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	if len(annotations) > 0 {
		sb.WriteString(fmt.Sprintf("## Annotations (%d)\n\n", len(annotations)))
		writeAnnotations(&sb, annotations)
	}

	return sb.String()
}

// formatAnnotations formats annotations as markdown
func formatAnnotations(annotations []models.Annotation) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Annotations (%d)\n\n", len(annotations)))
	if len(annotations) == 0 {
		sb.WriteString("No annotations found.\n")
		return sb.String()
	}
	writeAnnotations(&sb, annotations)
	return sb.String()
}

func writeAnnotations(sb *strings.Builder, annotations []models.Annotation) {
	for _, a := range annotations {
		title := a.DocTitle
		if title == "" {
			title = a.DocumentID
		}
		sb.WriteString(fmt.Sprintf("### %s (%s)\n", title, a.ID))
		if a.Quote != "" {
			sb.WriteString(fmt.Sprintf("> %s\n\n", a.Quote))
		}
		note := a.Note
		if note == "" {
			note = a.Text
		}
		if note != "" {
			sb.WriteString(fmt.Sprintf("**Note:** %s\n", note))
		}
		if len(a.Tags) > 0 {
			sb.WriteString(fmt.Sprintf("**Tags:** %s\n", strings.Join(a.Tags, ", ")))
		}
		sb.WriteString(fmt.Sprintf("**Updated:** %s\n\n", a.UpdatedAt.Format(time.RFC3339)))
	}
}

// formatSearchResults formats search results as markdown
func formatSearchResults(query string, results []models.SearchResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Search Results for \"%s\" (%d results)\n\n", query, len(results)))

	if len(results) == 0 {
		sb.WriteString("No results found.\n")
		return sb.String()
	}

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("### %d. %s\n", i+1, r.Title))
		sb.WriteString(fmt.Sprintf("**Kind:** %s\n", r.Kind))
		sb.WriteString(fmt.Sprintf("**Document:** %s\n", r.DocumentID))
		if r.AnnotationID != "" {
			sb.WriteString(fmt.Sprintf("**Annotation:** %s\n", r.AnnotationID))
		}
		sb.WriteString(fmt.Sprintf("**Updated:** %s\n\n", r.UpdatedAt.Format(time.RFC3339)))
		if r.Snippet != "" {
			sb.WriteString(r.Snippet)
			sb.WriteString("\n\n")
		}
		sb.WriteString("---\n\n")
	}

	return sb.String()
}

// formatMeetingNotes formats meeting notes with their content
func formatMeetingNotes(notes []*models.MeetingNote) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Meeting Notes (%d)\n\n", len(notes)))

	if len(notes) == 0 {
		sb.WriteString("No meeting notes found.\n")
		return sb.String()
	}

	for _, n := range notes {
		sb.WriteString(fmt.Sprintf("### %s\n", n.Title))
		sb.WriteString(fmt.Sprintf("**ID:** %s\n", n.ID))
		if n.Date != "" {
			sb.WriteString(fmt.Sprintf("**Date:** %s\n", n.Date))
		}
		if n.Type != "" {
			sb.WriteString(fmt.Sprintf("**Type:** %s\n", n.Type))
		}
		if len(n.Tags) > 0 {
			sb.WriteString(fmt.Sprintf("**Tags:** %s\n", strings.Join(n.Tags, ", ")))
		}
		sb.WriteString("\n")
		if n.Content != "" {
			sb.WriteString(n.Content)
			sb.WriteString("\n\n")
		}
	}

	return sb.String()
}

// formatSchedules formats the weekly schedules
func formatSchedules(kinds []models.ScheduleKind, schedules map[models.ScheduleKind][]models.ScheduleEntry) string {
	var sb strings.Builder
	sb.WriteString("## Meeting Schedule\n\n")
	for _, kind := range kinds {
		sb.WriteString(fmt.Sprintf("### %s\n", capitalize(string(kind))))
		entries := schedules[kind]
		if len(entries) == 0 {
			sb.WriteString("No meetings scheduled.\n\n")
			continue
		}
		for _, e := range entries {
			sb.WriteString(fmt.Sprintf("- %s %s\n", weekdays[e.Day], e.Time))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
