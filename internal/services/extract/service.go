// Package extract turns imported document files into plain text for search.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
)

// Service implements interfaces.TextExtractor
type Service struct {
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.TextExtractor = (*Service)(nil)

func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// Extract returns the readable text of a file. Text and markdown pass
// through unchanged.
func (s *Service) Extract(ctx context.Context, docType models.DocumentType, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch docType {
	case models.DocumentTypeText, models.DocumentTypeMarkdown, "":
		text = strings.ToValidUTF8(string(data), "")
	case models.DocumentTypePDF:
		text, err = s.extractPDF(data)
	case models.DocumentTypeEPUB:
		text, err = s.extractEPUB(ctx, data)
	case models.DocumentTypeDOCX:
		text, err = extractDOCX(data)
	default:
		return "", fmt.Errorf("unsupported document type %q", docType)
	}
	if err != nil {
		return "", fmt.Errorf("failed to extract %s text: %w", docType, err)
	}

	s.logger.Debug().
		Str("type", string(docType)).
		Int("input_bytes", len(data)).
		Int("text_len", len(text)).
		Msg("Text extracted")
	return text, nil
}

// normalizeText collapses runs of blank space inside lines and drops empty
// lines, keeping paragraph breaks
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\x00", " ")
	text = strings.ToValidUTF8(text, "")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
