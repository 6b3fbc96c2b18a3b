package library

import (
	"context"
	"fmt"
	"sort"

	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/models"
)

const defaultRecentLimit = 12

// SaveDocument upserts doc, generating an ID when empty. UpdatedAt is
// always refreshed; CreatedAt is kept when set. The stored record is returned.
func (s *Service) SaveDocument(ctx context.Context, doc *models.Document) (*models.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", models.ErrInvalidDocument)
	}

	next := doc.Clone()
	if next.ID == "" {
		next.ID = s.GenerateID(common.DocumentIDPrefix)
	}
	if next.Type == "" {
		next.Type = models.DocumentTypeText
	}
	if !next.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown type %q", models.ErrInvalidDocument, next.Type)
	}
	next.Lifecycle = next.State()

	now := s.now()
	if next.CreatedAt.IsZero() {
		next.CreatedAt = now
	}
	next.UpdatedAt = now

	unlock := s.locks.Lock(documentLock(next.ID))
	defer unlock()

	if err := s.storage.DocumentStorage().SaveDocument(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("id", next.ID).Str("type", string(next.Type)).Msg("Document saved")
	return next, nil
}

// PutDocument stores doc as given, trusting its timestamps. Used by the
// merge paths (sync pull, bundle import) only.
func (s *Service) PutDocument(ctx context.Context, doc *models.Document) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("%w: document ID is required", models.ErrInvalidDocument)
	}
	next := doc.Clone()
	if !next.Type.IsValid() {
		next.Type = models.DocumentTypeText
	}
	next.Lifecycle = next.State()

	unlock := s.locks.Lock(documentLock(next.ID))
	defer unlock()

	return s.storage.DocumentStorage().SaveDocument(ctx, next)
}

func (s *Service) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return s.storage.DocumentStorage().GetDocument(ctx, id)
}

// GetDocuments returns every document, trashed included, in no particular order
func (s *Service) GetDocuments(ctx context.Context) ([]*models.Document, error) {
	return s.storage.DocumentStorage().ListDocuments(ctx)
}

func (s *Service) GetActiveDocuments(ctx context.Context) ([]*models.Document, error) {
	return s.filterDocuments(ctx, false)
}

func (s *Service) GetTrashedDocuments(ctx context.Context) ([]*models.Document, error) {
	return s.filterDocuments(ctx, true)
}

func (s *Service) filterDocuments(ctx context.Context, trashed bool) ([]*models.Document, error) {
	docs, err := s.storage.DocumentStorage().ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*models.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.IsTrashed() == trashed {
			result = append(result, doc)
		}
	}
	return result, nil
}

// GetRecentDocuments returns up to limit active documents, most recently
// opened (or updated) first. limit <= 0 uses 12.
func (s *Service) GetRecentDocuments(ctx context.Context, limit int) ([]*models.Document, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	docs, err := s.GetActiveDocuments(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].RecencyTime().After(docs[j].RecencyTime())
	})
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// TouchDocument records that the document was opened now
func (s *Service) TouchDocument(ctx context.Context, id string) error {
	return s.mutateDocument(ctx, id, func(doc *models.Document) bool {
		now := s.now()
		doc.LastOpened = &now
		return true
	})
}

// SoftDeleteDocument moves the document to the trash. Annotations and the
// file blob are untouched. Missing or already trashed documents are a no-op.
func (s *Service) SoftDeleteDocument(ctx context.Context, id string) error {
	return s.mutateDocument(ctx, id, func(doc *models.Document) bool {
		if doc.IsTrashed() {
			return false
		}
		doc.Trash(s.now())
		return true
	})
}

// RestoreDocument moves a trashed document back to active
func (s *Service) RestoreDocument(ctx context.Context, id string) error {
	return s.mutateDocument(ctx, id, func(doc *models.Document) bool {
		if !doc.IsTrashed() {
			return false
		}
		doc.Restore()
		return true
	})
}

func (s *Service) mutateDocument(ctx context.Context, id string, fn func(doc *models.Document) bool) error {
	unlock := s.locks.Lock(documentLock(id))
	defer unlock()

	doc, err := s.storage.DocumentStorage().GetDocument(ctx, id)
	if err != nil || doc == nil {
		return err
	}
	if !fn(doc) {
		return nil
	}
	return s.storage.DocumentStorage().SaveDocument(ctx, doc)
}

// HardDeleteDocument purges the document together with its file blob,
// annotations, bookmarks, extracted body and favorite entry.
func (s *Service) HardDeleteDocument(ctx context.Context, id string) error {
	unlock := s.locks.Lock(documentLock(id))
	defer unlock()

	doc, err := s.storage.DocumentStorage().GetDocument(ctx, id)
	if err != nil || doc == nil {
		return err
	}

	if doc.FileKey != "" {
		if err := s.storage.FileStorage().DeleteFile(ctx, doc.FileKey); err != nil {
			return err
		}
	}

	unlockAnn := s.locks.Lock(annotationLock(id))
	err = s.storage.AnnotationStorage().DeleteAnnotationSet(ctx, id)
	unlockAnn()
	if err != nil {
		return err
	}

	unlockBm := s.locks.Lock(bookmarkLock(id))
	err = s.storage.BookmarkStorage().DeleteBookmarkSet(ctx, id)
	unlockBm()
	if err != nil {
		return err
	}

	if err := s.storage.DocumentBodyStorage().DeleteBody(ctx, id); err != nil {
		return err
	}

	if err := s.removeFavorite(ctx, id); err != nil {
		return err
	}

	if err := s.storage.DocumentStorage().DeleteDocument(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("id", id).Str("title", doc.Title).Msg("Document purged")
	return nil
}

func (s *Service) SaveFile(ctx context.Context, key string, data []byte) error {
	return s.storage.FileStorage().SaveFile(ctx, key, data)
}

func (s *Service) GetFile(ctx context.Context, key string) ([]byte, error) {
	return s.storage.FileStorage().GetFile(ctx, key)
}

// GetDocumentFile returns the blob of a document, or nil when the document
// is missing or has no file
func (s *Service) GetDocumentFile(ctx context.Context, documentID string) ([]byte, error) {
	doc, err := s.GetDocument(ctx, documentID)
	if err != nil || doc == nil || doc.FileKey == "" {
		return nil, err
	}
	return s.GetFile(ctx, doc.FileKey)
}

// GetDocumentBody returns the text of a document. Inline page content wins,
// then the extracted body. Plain text and markdown documents without either
// fall back to their file bytes.
func (s *Service) GetDocumentBody(ctx context.Context, documentID string) (*models.DocumentBody, error) {
	doc, err := s.GetDocument(ctx, documentID)
	if err != nil || doc == nil {
		return nil, err
	}
	if doc.Content != "" {
		return &models.DocumentBody{DocumentID: documentID, Text: doc.Content, UpdatedAt: doc.UpdatedAt}, nil
	}

	return s.storedBody(ctx, doc)
}

// storedBody returns the extracted body of doc, falling back to the file
// bytes of plain text and markdown documents
func (s *Service) storedBody(ctx context.Context, doc *models.Document) (*models.DocumentBody, error) {
	body, err := s.storage.DocumentBodyStorage().GetBody(ctx, doc.ID)
	if err != nil || body != nil {
		return body, err
	}

	if !isPlainText(doc) || doc.FileKey == "" {
		return nil, nil
	}
	data, err := s.GetFile(ctx, doc.FileKey)
	if err != nil || len(data) == 0 {
		return nil, err
	}
	return &models.DocumentBody{DocumentID: doc.ID, Text: string(data), UpdatedAt: doc.UpdatedAt}, nil
}

func isPlainText(doc *models.Document) bool {
	return doc.Type == models.DocumentTypeText || doc.Type == models.DocumentTypeMarkdown
}
