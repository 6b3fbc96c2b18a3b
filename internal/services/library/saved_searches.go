package library

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/models"
)

// GetSavedSearches returns saved searches ordered by title
func (s *Service) GetSavedSearches(ctx context.Context) ([]*models.SavedSearch, error) {
	searches, err := s.storage.SavedSearchStorage().ListSavedSearches(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(searches, func(i, j int) bool {
		return strings.ToLower(searches[i].Title) < strings.ToLower(searches[j].Title)
	})
	return searches, nil
}

func (s *Service) GetSavedSearch(ctx context.Context, id string) (*models.SavedSearch, error) {
	return s.storage.SavedSearchStorage().GetSavedSearch(ctx, id)
}

// SaveSavedSearch upserts a saved search. The title defaults to the query
// and the sort to newest first.
func (s *Service) SaveSavedSearch(ctx context.Context, search *models.SavedSearch) (*models.SavedSearch, error) {
	if search == nil || strings.TrimSpace(search.Query) == "" {
		return nil, fmt.Errorf("saved search requires a query")
	}

	next := *search
	if next.ID == "" {
		next.ID = s.GenerateID(common.SavedSearchIDPrefix)
	}
	if strings.TrimSpace(next.Title) == "" {
		next.Title = next.Query
	}
	switch next.Sort {
	case models.SavedSearchSortNewest, models.SavedSearchSortOldest, models.SavedSearchSortTitle:
	case "":
		next.Sort = models.SavedSearchSortNewest
	default:
		return nil, fmt.Errorf("unknown saved search sort %q", next.Sort)
	}

	now := s.now()
	if next.CreatedAt.IsZero() {
		next.CreatedAt = now
	}
	next.UpdatedAt = now

	unlock := s.locks.Lock(savedSearchLock(next.ID))
	defer unlock()

	if err := s.storage.SavedSearchStorage().SaveSavedSearch(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// PutSavedSearch stores search as given; merge path only
func (s *Service) PutSavedSearch(ctx context.Context, search *models.SavedSearch) error {
	if search == nil || search.ID == "" {
		return fmt.Errorf("saved search ID is required")
	}
	unlock := s.locks.Lock(savedSearchLock(search.ID))
	defer unlock()

	return s.storage.SavedSearchStorage().SaveSavedSearch(ctx, search)
}

func (s *Service) DeleteSavedSearch(ctx context.Context, id string) error {
	unlock := s.locks.Lock(savedSearchLock(id))
	defer unlock()

	return s.storage.SavedSearchStorage().DeleteSavedSearch(ctx, id)
}
