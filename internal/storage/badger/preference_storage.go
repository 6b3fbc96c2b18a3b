package badger

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

const (
	settingsKey  = "settings"
	favoritesKey = "favorites"
)

// PreferenceStorage holds the singleton settings and favorites records
type PreferenceStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewPreferenceStorage creates a new PreferenceStorage instance
func NewPreferenceStorage(db *BadgerDB, logger arbor.ILogger) interfaces.PreferenceStorage {
	return &PreferenceStorage{
		db:     db,
		logger: logger,
	}
}

func (s *PreferenceStorage) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := s.db.Store().Get(settingsKey, &settings)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get settings", settingsKey, err)
	}
	return &settings, nil
}

func (s *PreferenceStorage) SaveSettings(ctx context.Context, settings *models.Settings) error {
	return storageErr("save settings", settingsKey, s.db.Store().Upsert(settingsKey, settings))
}

func (s *PreferenceStorage) GetFavorites(ctx context.Context) (*models.FavoriteSet, error) {
	var favorites models.FavoriteSet
	err := s.db.Store().Get(favoritesKey, &favorites)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get favorites", favoritesKey, err)
	}
	return &favorites, nil
}

func (s *PreferenceStorage) SaveFavorites(ctx context.Context, favorites *models.FavoriteSet) error {
	return storageErr("save favorites", favoritesKey, s.db.Store().Upsert(favoritesKey, favorites))
}
