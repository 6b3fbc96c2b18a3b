package bundle

import (
	"context"
	"time"

	"github.com/ternarybob/studydesk/internal/models"
)

// newer reports whether incoming should replace current
func newer(incoming, current time.Time) bool {
	return incoming.After(current)
}

func (s *Service) mergeDocuments(ctx context.Context, b *models.Bundle, report *models.ImportReport) error {
	for i := range b.Docs {
		doc := &b.Docs[i]
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = doc.UpdatedAt
		}

		local, err := s.store.GetDocument(ctx, doc.ID)
		if err != nil {
			return err
		}
		switch {
		case local == nil:
			report.DocumentsAdded++
		case newer(doc.UpdatedAt, local.UpdatedAt):
			report.DocumentsUpdated++
		default:
			report.Skipped++
			continue
		}
		if err := s.store.PutDocument(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) mergeAnnotations(ctx context.Context, b *models.Bundle, report *models.ImportReport) error {
	byDoc := make(map[string][]models.Annotation)
	order := []string{}
	for _, a := range b.Annotations {
		if _, ok := byDoc[a.DocumentID]; !ok {
			order = append(order, a.DocumentID)
		}
		byDoc[a.DocumentID] = append(byDoc[a.DocumentID], a)
	}

	for _, docID := range order {
		incoming := byDoc[docID]
		err := s.store.UpdateAnnotations(ctx, docID, func(current []models.Annotation) ([]models.Annotation, error) {
			index := make(map[string]int, len(current))
			for i, a := range current {
				index[a.ID] = i
			}
			for _, a := range incoming {
				a.DocTitle = ""
				pos, ok := index[a.ID]
				switch {
				case !ok:
					index[a.ID] = len(current)
					current = append(current, a)
					report.AnnotationsAdded++
				case newer(a.UpdatedAt, current[pos].UpdatedAt):
					current[pos] = a
					report.AnnotationsUpdated++
				default:
					report.Skipped++
				}
			}
			return current, nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) mergeBookmarks(ctx context.Context, b *models.Bundle, report *models.ImportReport) error {
	for docID, incoming := range b.Bookmarks {
		if len(incoming) == 0 {
			continue
		}
		current, err := s.store.GetBookmarks(ctx, docID)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(current))
		for _, bm := range current {
			seen[bm.ID] = true
		}
		added := 0
		for _, bm := range incoming {
			if bm.ID != "" && seen[bm.ID] {
				continue
			}
			seen[bm.ID] = true
			current = append(current, bm)
			added++
		}
		if added == 0 {
			continue
		}
		if err := s.store.SaveBookmarks(ctx, docID, current); err != nil {
			return err
		}
		report.BookmarksAdded += added
	}
	return nil
}

func (s *Service) mergeFavorites(ctx context.Context, b *models.Bundle, report *models.ImportReport) error {
	if len(b.Favorites) == 0 {
		return nil
	}
	current, err := s.store.GetFavorites(ctx)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(current))
	for _, id := range current {
		seen[id] = true
	}
	merged := append([]string{}, current...)
	for _, id := range b.Favorites {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, id)
		report.FavoritesAdded++
	}
	if len(merged) == len(current) {
		return nil
	}
	return s.store.SaveFavorites(ctx, merged)
}

func (s *Service) mergeMeetingNotes(ctx context.Context, b *models.Bundle, report *models.ImportReport) error {
	for i := range b.Meeting {
		note := &b.Meeting[i]
		local, err := s.store.GetMeetingNote(ctx, note.ID)
		if err != nil {
			return err
		}
		switch {
		case local == nil:
			report.MeetingNotesAdded++
		case newer(note.UpdatedAt, local.UpdatedAt):
			report.MeetingNotesUpdated++
		default:
			report.Skipped++
			continue
		}
		if err := s.store.PutMeetingNote(ctx, note); err != nil {
			return err
		}
	}
	return nil
}

// mergeSchedules replaces a list only when the bundle carries entries for it
func (s *Service) mergeSchedules(ctx context.Context, b *models.Bundle, report *models.ImportReport) error {
	lists := []struct {
		kind    models.ScheduleKind
		entries models.ScheduleList
	}{
		{models.ScheduleMidweek, b.Schedules.Midweek},
		{models.ScheduleWeekend, b.Schedules.Weekend},
	}
	for _, list := range lists {
		if len(list.entries) == 0 {
			continue
		}
		if err := s.store.SaveSchedule(ctx, list.kind, list.entries); err != nil {
			return err
		}
		report.SchedulesReplaced++
	}
	return nil
}

func (s *Service) mergeSavedSearches(ctx context.Context, b *models.Bundle, report *models.ImportReport) error {
	for i := range b.SavedSearches {
		search := &b.SavedSearches[i]
		local, err := s.store.GetSavedSearch(ctx, search.ID)
		if err != nil {
			return err
		}
		if local != nil && !newer(search.UpdatedAt, local.UpdatedAt) {
			report.Skipped++
			continue
		}
		if err := s.store.PutSavedSearch(ctx, search); err != nil {
			return err
		}
		report.SavedSearchesMerged++
	}
	return nil
}

// mergeSettings applies bundle settings only to a store that has none
func (s *Service) mergeSettings(ctx context.Context, b *models.Bundle, report *models.ImportReport) error {
	if b.Settings.IsEmpty() {
		return nil
	}
	local, err := s.store.GetSettings(ctx)
	if err != nil {
		return err
	}
	if !local.IsEmpty() {
		return nil
	}
	if err := s.store.SaveSettings(ctx, b.Settings); err != nil {
		return err
	}
	report.SettingsApplied = true
	return nil
}
