// Package bundle exports the whole local library as a single JSON file and
// merges such files back in.
//
// Import is true last-writer-wins: a record replaces its local counterpart
// only when its updatedAt is newer. The network sync follows a different,
// add-only rule and the two must not be confused.
package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
)

// Service implements interfaces.BundleService
type Service struct {
	store    interfaces.LocalStore
	logger   arbor.ILogger
	validate *validator.Validate
	now      func() time.Time
}

// Compile-time assertion
var _ interfaces.BundleService = (*Service)(nil)

func NewService(store interfaces.LocalStore, logger arbor.ILogger) *Service {
	return &Service{
		store:    store,
		logger:   logger,
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Export snapshots every collection into a version 1 bundle. File blobs are
// not included.
func (s *Service) Export(ctx context.Context) (*models.Bundle, error) {
	b := &models.Bundle{
		Version:     models.BundleVersion,
		ExportedAt:  s.now(),
		Docs:        []models.Document{},
		Favorites:   []string{},
		Annotations: []models.Annotation{},
		Meeting:     []models.MeetingNote{},
	}

	docs, err := s.store.GetDocuments(ctx)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		b.Docs = append(b.Docs, *doc)

		annotations, err := s.store.GetAnnotations(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
		b.Annotations = append(b.Annotations, annotations...)
	}

	if b.Bookmarks, err = s.store.GetAllBookmarks(ctx); err != nil {
		return nil, err
	}

	if b.Favorites, err = s.store.GetFavorites(ctx); err != nil {
		return nil, err
	}

	notes, err := s.store.GetMeetingNotes(ctx)
	if err != nil {
		return nil, err
	}
	for _, note := range notes {
		b.Meeting = append(b.Meeting, *note)
	}

	midweek, err := s.store.GetSchedule(ctx, models.ScheduleMidweek)
	if err != nil {
		return nil, err
	}
	weekend, err := s.store.GetSchedule(ctx, models.ScheduleWeekend)
	if err != nil {
		return nil, err
	}
	b.Schedules = models.BundleSchedules{Midweek: midweek, Weekend: weekend}

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.IsEmpty() {
		b.Settings = settings
	}

	searches, err := s.store.GetSavedSearches(ctx)
	if err != nil {
		return nil, err
	}
	for _, search := range searches {
		b.SavedSearches = append(b.SavedSearches, *search)
	}

	s.logger.Info().
		Int("documents", len(b.Docs)).
		Int("annotations", len(b.Annotations)).
		Int("meeting_notes", len(b.Meeting)).
		Msg("Bundle exported")
	return b, nil
}

// WriteTo exports and encodes the bundle as indented JSON
func (s *Service) WriteTo(ctx context.Context, w io.Writer) error {
	b, err := s.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	return nil
}

// Import decodes, validates and merges a bundle. Nothing is written unless
// the whole bundle validates.
func (s *Service) Import(ctx context.Context, data []byte) (*models.ImportReport, error) {
	b, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(ctx, b); err != nil {
		return nil, err
	}

	report := &models.ImportReport{}
	steps := []func(context.Context, *models.Bundle, *models.ImportReport) error{
		s.mergeDocuments,
		s.mergeAnnotations,
		s.mergeBookmarks,
		s.mergeFavorites,
		s.mergeMeetingNotes,
		s.mergeSchedules,
		s.mergeSavedSearches,
		s.mergeSettings,
	}
	for _, step := range steps {
		if err := step(ctx, b, report); err != nil {
			return report, err
		}
	}

	s.logger.Info().
		Int("docs_added", report.DocumentsAdded).
		Int("docs_updated", report.DocumentsUpdated).
		Int("annotations_added", report.AnnotationsAdded).
		Int("annotations_updated", report.AnnotationsUpdated).
		Int("meeting_added", report.MeetingNotesAdded).
		Int("skipped", report.Skipped).
		Msg("Bundle imported")
	return report, nil
}

// Decode parses either bundle layout into the flat form
func Decode(data []byte) (*models.Bundle, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, invalid("", "not a JSON object: %v", err)
	}

	_, hasLibrary := top["library"]
	_, hasNotes := top["notes"]
	_, hasMeetings := top["meetings"]
	if hasLibrary || hasNotes || hasMeetings {
		var nested models.NestedBundle
		if err := json.Unmarshal(data, &nested); err != nil {
			return nil, invalid("", "malformed grouped bundle: %v", err)
		}
		return nested.Flatten(), nil
	}

	var b models.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, invalid("", "malformed bundle: %v", err)
	}
	if b.Bookmarks == nil {
		b.Bookmarks = map[string][]models.Bookmark{}
	}
	return &b, nil
}
