package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SavedSearchStorage implements the SavedSearchStorage interface for Badger
type SavedSearchStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSavedSearchStorage creates a new SavedSearchStorage instance
func NewSavedSearchStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SavedSearchStorage {
	return &SavedSearchStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SavedSearchStorage) SaveSavedSearch(ctx context.Context, search *models.SavedSearch) error {
	if search.ID == "" {
		return fmt.Errorf("saved search ID is required")
	}
	return storageErr("save saved search", search.ID, s.db.Store().Upsert(search.ID, search))
}

func (s *SavedSearchStorage) GetSavedSearch(ctx context.Context, id string) (*models.SavedSearch, error) {
	var search models.SavedSearch
	err := s.db.Store().Get(id, &search)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get saved search", id, err)
	}
	return &search, nil
}

func (s *SavedSearchStorage) ListSavedSearches(ctx context.Context) ([]*models.SavedSearch, error) {
	var searches []models.SavedSearch
	if err := s.db.Store().Find(&searches, nil); err != nil {
		return nil, storageErr("list saved searches", "", err)
	}
	result := make([]*models.SavedSearch, len(searches))
	for i := range searches {
		result[i] = &searches[i]
	}
	return result, nil
}

func (s *SavedSearchStorage) DeleteSavedSearch(ctx context.Context, id string) error {
	err := s.db.Store().Delete(id, &models.SavedSearch{})
	if err == badgerhold.ErrNotFound {
		return nil
	}
	return storageErr("delete saved search", id, err)
}
