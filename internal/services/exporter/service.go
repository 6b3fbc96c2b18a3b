// Package exporter renders the study library as a readable markdown or PDF
// document, or as a JSON bundle.
package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
)

const exportTitle = "Study Companion Export"

// Format is an export output format
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatJSON     Format = "json"
)

// ParseFormat accepts the format names and their usual file extensions
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "markdown", "md", "":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Extension returns the file extension used for the format
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// ErrNothingSelected is returned when every section is switched off
var ErrNothingSelected = errors.New("no export sections selected")

// Options selects the sections of a markdown or PDF export
type Options struct {
	Highlights      bool
	MeetingNotes    bool
	ConventionNotes bool
}

// DefaultOptions exports every section
func DefaultOptions() Options {
	return Options{Highlights: true, MeetingNotes: true, ConventionNotes: true}
}

type Service struct {
	store   interfaces.LocalStore
	pdf     interfaces.PDFService
	bundles interfaces.BundleService
	logger  arbor.ILogger
	now     func() time.Time
}

func NewService(store interfaces.LocalStore, pdf interfaces.PDFService, bundles interfaces.BundleService, logger arbor.ILogger) *Service {
	return &Service{
		store:   store,
		pdf:     pdf,
		bundles: bundles,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// FileName is the suggested download name, dated with the export day
func (s *Service) FileName(format Format) string {
	return fmt.Sprintf("study-companion-export-%s.%s", s.now().Format("2006-01-02"), format.Extension())
}

// Write renders the export in the given format to w
func (s *Service) Write(ctx context.Context, format Format, opts Options, w io.Writer) error {
	var data []byte
	switch format {
	case FormatMarkdown:
		md, err := s.Markdown(ctx, opts)
		if err != nil {
			return err
		}
		data = []byte(md)
	case FormatPDF:
		pdf, err := s.PDF(ctx, opts)
		if err != nil {
			return err
		}
		data = pdf
	case FormatJSON:
		return s.JSON(ctx, w)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// PDF renders the markdown export to PDF
func (s *Service) PDF(ctx context.Context, opts Options) ([]byte, error) {
	if s.pdf == nil {
		return nil, fmt.Errorf("PDF export is not available")
	}
	md, err := s.Markdown(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s.pdf.ConvertMarkdownToPDF(md, exportTitle)
}

// JSON writes the full bundle
func (s *Service) JSON(ctx context.Context, w io.Writer) error {
	b, err := s.bundles.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	return nil
}

// Markdown builds the readable export. Highlights are grouped per
// document, meeting notes are listed newest first and convention notes are
// grouped by day.
func (s *Service) Markdown(ctx context.Context, opts Options) (string, error) {
	if !opts.Highlights && !opts.MeetingNotes && !opts.ConventionNotes {
		return "", ErrNothingSelected
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", exportTitle)
	fmt.Fprintf(&sb, "Exported on: %s\n\n", s.now().Format("2006-01-02"))

	if opts.Highlights {
		annotations, err := s.store.GetAllAnnotations(ctx)
		if err != nil {
			return "", err
		}
		writeHighlights(&sb, annotations)
	}

	var notes []*models.MeetingNote
	if opts.MeetingNotes || opts.ConventionNotes {
		var err error
		if notes, err = s.store.GetMeetingNotes(ctx); err != nil {
			return "", err
		}
	}
	if opts.MeetingNotes {
		writeMeetingNotes(&sb, notes)
	}
	if opts.ConventionNotes {
		settings, err := s.store.GetSettings(ctx)
		if err != nil {
			return "", err
		}
		writeConventionNotes(&sb, settings.Convention, notes)
	}

	s.logger.Debug().
		Bool("highlights", opts.Highlights).
		Bool("meeting_notes", opts.MeetingNotes).
		Bool("convention_notes", opts.ConventionNotes).
		Int("length", sb.Len()).
		Msg("Markdown export built")
	return sb.String(), nil
}

func writeHighlights(sb *strings.Builder, annotations []models.Annotation) {
	if len(annotations) == 0 {
		return
	}
	sb.WriteString("## Highlights and Notes\n\n")

	byDoc := make(map[string][]models.Annotation)
	var order []string
	for _, a := range annotations {
		if _, ok := byDoc[a.DocumentID]; !ok {
			order = append(order, a.DocumentID)
		}
		byDoc[a.DocumentID] = append(byDoc[a.DocumentID], a)
	}

	for _, docID := range order {
		list := byDoc[docID]
		title := list[0].DocTitle
		if title == "" {
			title = "Unknown Document"
		}
		fmt.Fprintf(sb, "### %s\n\n", title)

		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
		for _, a := range list {
			heading := "Highlight"
			if a.Kind == models.AnnotationKindNote {
				heading = "Note"
			}
			fmt.Fprintf(sb, "#### %s\n\n", heading)
			if quote := a.Quote; quote != "" {
				fmt.Fprintf(sb, "> %s\n\n", quote)
			}
			if a.Text != "" {
				fmt.Fprintf(sb, "%s\n\n", a.Text)
			}
			if a.Note != "" {
				fmt.Fprintf(sb, "**Note:** %s\n\n", a.Note)
			}
			if len(a.Tags) > 0 {
				fmt.Fprintf(sb, "**Tags:** %s\n\n", strings.Join(a.Tags, ", "))
			}
			if !a.CreatedAt.IsZero() {
				fmt.Fprintf(sb, "*Added: %s*\n\n", a.CreatedAt.Format("2006-01-02"))
			}
			sb.WriteString("---\n\n")
		}
	}
}

func writeMeetingNotes(sb *strings.Builder, notes []*models.MeetingNote) {
	var selected []*models.MeetingNote
	for _, n := range notes {
		if n.Type == models.MeetingTypeMidweek || n.Type == models.MeetingTypeWeekend {
			selected = append(selected, n)
		}
	}
	if len(selected) == 0 {
		return
	}
	sort.SliceStable(selected, func(i, j int) bool { return selected[i].Date > selected[j].Date })

	sb.WriteString("## Meeting Notes\n\n")
	for _, n := range selected {
		fmt.Fprintf(sb, "### %s\n\n", titleOr(n.Title, "Untitled"))
		if n.Date != "" {
			fmt.Fprintf(sb, "**Date:** %s  \n", n.Date)
		}
		fmt.Fprintf(sb, "**Type:** %s\n\n", n.Type)
		if len(n.Tags) > 0 {
			fmt.Fprintf(sb, "**Tags:** %s\n\n", strings.Join(n.Tags, ", "))
		}
		if content := strings.TrimSpace(n.Content); content != "" {
			fmt.Fprintf(sb, "%s\n\n", content)
		}
		sb.WriteString("---\n\n")
	}
}

func writeConventionNotes(sb *strings.Builder, convention *models.ConventionConfig, notes []*models.MeetingNote) {
	var selected []*models.MeetingNote
	for _, n := range notes {
		if n.Type == models.MeetingTypeConvention {
			selected = append(selected, n)
		}
	}
	if len(selected) == 0 {
		return
	}
	sort.SliceStable(selected, func(i, j int) bool { return selected[i].Date < selected[j].Date })

	sb.WriteString("## Convention Notes\n\n")
	if convention != nil && convention.StartDate != "" {
		if convention.Name != "" {
			fmt.Fprintf(sb, "**Convention:** %s  \n", convention.Name)
		}
		fmt.Fprintf(sb, "**Convention Dates:** %s to %s\n\n", convention.StartDate, titleOr(convention.EndDate, convention.StartDate))
	}

	for i, n := range selected {
		if i == 0 || n.Date != selected[i-1].Date {
			if i > 0 {
				sb.WriteString("---\n\n")
			}
			fmt.Fprintf(sb, "### %s\n\n", titleOr(n.Date, "Undated"))
		}
		fmt.Fprintf(sb, "#### %s\n\n", titleOr(n.Title, "Untitled"))
		if len(n.Tags) > 0 {
			fmt.Fprintf(sb, "**Tags:** %s\n\n", strings.Join(n.Tags, ", "))
		}
		if content := strings.TrimSpace(n.Content); content != "" {
			fmt.Fprintf(sb, "%s\n\n", content)
		}
	}
	sb.WriteString("---\n\n")
}

func titleOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
