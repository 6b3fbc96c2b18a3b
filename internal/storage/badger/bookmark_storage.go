package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// BookmarkStorage persists one BookmarkSet per document
type BookmarkStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewBookmarkStorage creates a new BookmarkStorage instance
func NewBookmarkStorage(db *BadgerDB, logger arbor.ILogger) interfaces.BookmarkStorage {
	return &BookmarkStorage{
		db:     db,
		logger: logger,
	}
}

func (s *BookmarkStorage) GetBookmarkSet(ctx context.Context, documentID string) (*models.BookmarkSet, error) {
	var set models.BookmarkSet
	err := s.db.Store().Get(documentID, &set)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get bookmarks", documentID, err)
	}
	return &set, nil
}

func (s *BookmarkStorage) SaveBookmarkSet(ctx context.Context, set *models.BookmarkSet) error {
	if set.DocumentID == "" {
		return fmt.Errorf("bookmark set requires a document ID")
	}
	return storageErr("save bookmarks", set.DocumentID, s.db.Store().Upsert(set.DocumentID, set))
}

func (s *BookmarkStorage) DeleteBookmarkSet(ctx context.Context, documentID string) error {
	err := s.db.Store().Delete(documentID, &models.BookmarkSet{})
	if err == badgerhold.ErrNotFound {
		return nil
	}
	return storageErr("delete bookmarks", documentID, err)
}

func (s *BookmarkStorage) ListBookmarkSets(ctx context.Context) ([]*models.BookmarkSet, error) {
	var sets []models.BookmarkSet
	if err := s.db.Store().Find(&sets, nil); err != nil {
		return nil, storageErr("list bookmarks", "", err)
	}
	result := make([]*models.BookmarkSet, len(sets))
	for i := range sets {
		result[i] = &sets[i]
	}
	return result, nil
}
