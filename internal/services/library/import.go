package library

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/models"
)

// ImportFile stores an uploaded file and creates its document. The type
// comes from the extension and the title from the name without it. Text
// extraction and PDF inspection are best-effort: failures are logged and
// the import still succeeds.
func (s *Service) ImportFile(ctx context.Context, name string, data []byte) (*models.Document, error) {
	id := s.GenerateID(common.DocumentIDPrefix)
	docType := models.DocumentTypeFromName(name)
	fileKey := "orig:" + id

	base := filepath.Base(name)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.TrimSpace(title) == "" || base == "." || base == string(filepath.Separator) {
		title = "Untitled"
	}

	if err := s.SaveFile(ctx, fileKey, data); err != nil {
		return nil, err
	}

	meta := map[string]interface{}{
		"source": base,
		"size":   len(data),
	}
	if docType == models.DocumentTypePDF && s.pdf != nil {
		if info, err := s.pdf.Inspect(data); err != nil {
			s.logger.Warn().Err(err).Str("name", name).Msg("Failed to inspect PDF")
		} else {
			meta["pages"] = info.PageCount
		}
	}

	doc, err := s.SaveDocument(ctx, &models.Document{
		ID:      id,
		Title:   title,
		Type:    docType,
		FileKey: fileKey,
		Meta:    meta,
	})
	if err != nil {
		return nil, err
	}

	s.indexBody(ctx, doc, data)

	s.logger.Info().
		Str("id", doc.ID).
		Str("type", string(doc.Type)).
		Int("bytes", len(data)).
		Msg("File imported")
	return doc, nil
}

func (s *Service) indexBody(ctx context.Context, doc *models.Document, data []byte) {
	if s.extractor == nil {
		return
	}
	text, err := s.extractor.Extract(ctx, doc.Type, data)
	if err != nil {
		s.logger.Warn().Err(err).Str("id", doc.ID).Msg("Text extraction failed")
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	body := &models.DocumentBody{DocumentID: doc.ID, Text: text, UpdatedAt: s.now()}
	if err := s.storage.DocumentBodyStorage().SaveBody(ctx, body); err != nil {
		s.logger.Warn().Err(err).Str("id", doc.ID).Msg("Failed to store extracted text")
	}
}
