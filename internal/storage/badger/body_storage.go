package badger

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// DocumentBodyStorage persists extracted document text keyed by document ID
type DocumentBodyStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewDocumentBodyStorage creates a new DocumentBodyStorage instance
func NewDocumentBodyStorage(db *BadgerDB, logger arbor.ILogger) interfaces.DocumentBodyStorage {
	return &DocumentBodyStorage{
		db:     db,
		logger: logger,
	}
}

func (s *DocumentBodyStorage) SaveBody(ctx context.Context, body *models.DocumentBody) error {
	if body.DocumentID == "" {
		return fmt.Errorf("document body requires a document ID")
	}
	return storageErr("save body", body.DocumentID, s.db.Store().Upsert(body.DocumentID, body))
}

func (s *DocumentBodyStorage) GetBody(ctx context.Context, documentID string) (*models.DocumentBody, error) {
	var body models.DocumentBody
	err := s.db.Store().Get(documentID, &body)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get body", documentID, err)
	}
	return &body, nil
}

func (s *DocumentBodyStorage) DeleteBody(ctx context.Context, documentID string) error {
	err := s.db.Store().Delete(documentID, &models.DocumentBody{})
	if err == badgerhold.ErrNotFound {
		return nil
	}
	return storageErr("delete body", documentID, err)
}

// SearchBodies matches pattern literally and case-insensitively against the text.
// This scans every body, which is fine at personal-library scale.
func (s *DocumentBodyStorage) SearchBodies(ctx context.Context, pattern string) ([]*models.DocumentBody, error) {
	regex, err := regexp.Compile("(?i)" + regexp.QuoteMeta(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern: %w", err)
	}

	var bodies []models.DocumentBody
	if err := s.db.Store().Find(&bodies, badgerhold.Where("Text").RegExp(regex)); err != nil {
		return nil, storageErr("search bodies", pattern, err)
	}

	result := make([]*models.DocumentBody, len(bodies))
	for i := range bodies {
		result[i] = &bodies[i]
	}
	return result, nil
}
