package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ternarybob/studydesk/internal/models"
)

var outputJSON bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Print results as JSON")
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printDocuments(w io.Writer, docs []*models.Document) error {
	if outputJSON {
		return printJSON(w, docs)
	}
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents.")
		return nil
	}
	for _, doc := range docs {
		fmt.Fprintf(w, "%-40s  %-4s  %-20s  %s\n", doc.ID, doc.Type, formatTime(doc.UpdatedAt), doc.Title)
	}
	return nil
}

func printAnnotations(w io.Writer, annotations []models.Annotation) error {
	if outputJSON {
		return printJSON(w, annotations)
	}
	if len(annotations) == 0 {
		fmt.Fprintln(w, "No annotations.")
		return nil
	}
	for _, a := range annotations {
		title := a.DocTitle
		if title == "" {
			title = a.DocumentID
		}
		fmt.Fprintf(w, "%s  [%s]  %s\n", a.ID, title, formatTime(a.UpdatedAt))
		if a.Quote != "" {
			fmt.Fprintf(w, "  > %s\n", a.Quote)
		}
		if text := annotationText(a); text != "" {
			fmt.Fprintf(w, "  %s\n", text)
		}
		if len(a.Tags) > 0 {
			fmt.Fprintf(w, "  tags: %s\n", strings.Join(a.Tags, ", "))
		}
	}
	return nil
}

func annotationText(a models.Annotation) string {
	if a.Note != "" {
		return a.Note
	}
	return a.Text
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
