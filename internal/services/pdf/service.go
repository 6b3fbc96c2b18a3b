// Package pdf renders study exports to PDF and reads basic structure from
// imported PDF files.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const (
	baseFont     = "Arial"
	baseFontSize = 10
)

// Service implements interfaces.PDFService
type Service struct {
	logger arbor.ILogger
	md     goldmark.Markdown
}

// Compile-time assertion
var _ interfaces.PDFService = (*Service)(nil)

func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
		md:     goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough)),
	}
}

// ConvertMarkdownToPDF renders markdown onto A4 pages. The title is stored
// in the document properties; headings come from the markdown itself.
func (s *Service) ConvertMarkdownToPDF(markdown, title string) ([]byte, error) {
	markdown = stripFrontmatter(markdown)

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.SetTitle(title, true)
	doc.SetCreator("studydesk", true)
	doc.AddPage()
	doc.SetFont(baseFont, "", baseFontSize)

	source := []byte(markdown)
	root := s.md.Parser().Parse(text.NewReader(source))

	r := newRenderer(doc, source)
	if err := r.render(root); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}

	s.logger.Debug().
		Str("title", title).
		Int("markdown_len", len(markdown)).
		Int("pdf_size", buf.Len()).
		Msg("PDF rendered")
	return buf.Bytes(), nil
}

// Inspect reads page count, header version and encryption state
func (s *Service) Inspect(data []byte) (*interfaces.PDFInfo, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty PDF")
	}

	ctx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to count PDF pages: %w", err)
	}

	info := &interfaces.PDFInfo{
		PageCount: ctx.PageCount,
		Encrypted: ctx.Encrypt != nil,
	}
	if ctx.HeaderVersion != nil {
		info.Version = ctx.HeaderVersion.String()
	}

	s.logger.Debug().
		Int("page_count", info.PageCount).
		Str("version", info.Version).
		Bool("encrypted", info.Encrypted).
		Msg("PDF inspected")
	return info, nil
}

// stripFrontmatter drops a leading YAML block delimited by --- lines
func stripFrontmatter(markdown string) string {
	trimmed := strings.TrimPrefix(markdown, "\ufeff")
	if !strings.HasPrefix(trimmed, "---\n") && !strings.HasPrefix(trimmed, "---\r\n") {
		return markdown
	}
	rest := trimmed[strings.Index(trimmed, "\n")+1:]
	for offset := 0; offset < len(rest); {
		end := strings.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		if end >= 0 {
			line = rest[offset : offset+end]
		}
		if strings.TrimRight(line, "\r") == "---" {
			if end < 0 {
				return ""
			}
			return strings.TrimLeft(rest[offset+end+1:], "\r\n")
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return markdown
}
