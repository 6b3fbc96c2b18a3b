package library

import (
	"context"

	"github.com/ternarybob/studydesk/internal/models"
)

// GetFavorites returns the ordered favorite document IDs
func (s *Service) GetFavorites(ctx context.Context) ([]string, error) {
	set, err := s.storage.PreferenceStorage().GetFavorites(ctx)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return []string{}, nil
	}
	return set.DocumentIDs, nil
}

// ToggleFavorite flips membership of documentID and returns the updated set
func (s *Service) ToggleFavorite(ctx context.Context, documentID string) ([]string, error) {
	unlock := s.locks.Lock(favoritesLock)
	defer unlock()

	current, err := s.GetFavorites(ctx)
	if err != nil {
		return nil, err
	}

	next := make([]string, 0, len(current)+1)
	found := false
	for _, id := range current {
		if id == documentID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if !found {
		next = append(next, documentID)
	}

	if err := s.storage.PreferenceStorage().SaveFavorites(ctx, &models.FavoriteSet{DocumentIDs: next, UpdatedAt: s.now()}); err != nil {
		return nil, err
	}
	return next, nil
}

// SaveFavorites replaces the favorite set, dropping duplicates but keeping order
func (s *Service) SaveFavorites(ctx context.Context, documentIDs []string) error {
	unlock := s.locks.Lock(favoritesLock)
	defer unlock()

	seen := make(map[string]bool, len(documentIDs))
	next := make([]string, 0, len(documentIDs))
	for _, id := range documentIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		next = append(next, id)
	}
	return s.storage.PreferenceStorage().SaveFavorites(ctx, &models.FavoriteSet{DocumentIDs: next, UpdatedAt: s.now()})
}

func (s *Service) removeFavorite(ctx context.Context, documentID string) error {
	unlock := s.locks.Lock(favoritesLock)
	defer unlock()

	set, err := s.storage.PreferenceStorage().GetFavorites(ctx)
	if err != nil || set == nil || !set.Contains(documentID) {
		return err
	}
	next := make([]string, 0, len(set.DocumentIDs))
	for _, id := range set.DocumentIDs {
		if id != documentID {
			next = append(next, id)
		}
	}
	return s.storage.PreferenceStorage().SaveFavorites(ctx, &models.FavoriteSet{DocumentIDs: next, UpdatedAt: s.now()})
}

// GetSettings returns the settings record, or an empty one when none is stored
func (s *Service) GetSettings(ctx context.Context) (*models.Settings, error) {
	settings, err := s.storage.PreferenceStorage().GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &models.Settings{}, nil
	}
	return settings, nil
}

// SaveSettings replaces the settings record wholesale
func (s *Service) SaveSettings(ctx context.Context, settings *models.Settings) error {
	unlock := s.locks.Lock(settingsLock)
	defer unlock()

	next := models.Settings{}
	if settings != nil {
		next = *settings
	}
	next.UpdatedAt = s.now()
	return s.storage.PreferenceStorage().SaveSettings(ctx, &next)
}

// GetSchedule returns the entries of a schedule kind; empty when never saved
func (s *Service) GetSchedule(ctx context.Context, kind models.ScheduleKind) ([]models.ScheduleEntry, error) {
	if _, err := models.ParseScheduleKind(string(kind)); err != nil {
		return nil, err
	}
	schedule, err := s.storage.ScheduleStorage().GetSchedule(ctx, kind)
	if err != nil {
		return nil, err
	}
	if schedule == nil || schedule.Entries == nil {
		return []models.ScheduleEntry{}, nil
	}
	return schedule.Entries, nil
}

// SaveSchedule replaces the entries of a schedule kind after validating each one
func (s *Service) SaveSchedule(ctx context.Context, kind models.ScheduleKind, entries []models.ScheduleEntry) error {
	if _, err := models.ParseScheduleKind(string(kind)); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
	}

	unlock := s.locks.Lock(scheduleLock(string(kind)))
	defer unlock()

	list := make([]models.ScheduleEntry, len(entries))
	copy(list, entries)
	return s.storage.ScheduleStorage().SaveSchedule(ctx, &models.Schedule{
		Kind:      kind,
		Entries:   list,
		UpdatedAt: s.now(),
	})
}
