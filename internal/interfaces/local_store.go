package interfaces

import (
	"context"

	"github.com/ternarybob/studydesk/internal/models"
)

// LocalStore is the single accessor surface over the embedded database.
// Every component reaches persistence through it; there are no optional
// methods. Reads of missing records return nil or an empty slice with a
// nil error. Substrate failures are returned as *models.StorageError.
type LocalStore interface {
	GenerateID(prefix string) string

	// Documents
	SaveDocument(ctx context.Context, doc *models.Document) (*models.Document, error)
	PutDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	GetDocuments(ctx context.Context) ([]*models.Document, error)
	GetActiveDocuments(ctx context.Context) ([]*models.Document, error)
	GetTrashedDocuments(ctx context.Context) ([]*models.Document, error)
	GetRecentDocuments(ctx context.Context, limit int) ([]*models.Document, error)
	TouchDocument(ctx context.Context, id string) error
	SoftDeleteDocument(ctx context.Context, id string) error
	RestoreDocument(ctx context.Context, id string) error
	HardDeleteDocument(ctx context.Context, id string) error
	ImportFile(ctx context.Context, name string, data []byte) (*models.Document, error)
	GetDocumentBody(ctx context.Context, documentID string) (*models.DocumentBody, error)
	FindDocumentsByText(ctx context.Context, term string) ([]*models.Document, error)

	// File blobs
	SaveFile(ctx context.Context, key string, data []byte) error
	GetFile(ctx context.Context, key string) ([]byte, error)
	GetDocumentFile(ctx context.Context, documentID string) ([]byte, error)

	// Annotations and bookmarks
	GetAnnotations(ctx context.Context, documentID string) ([]models.Annotation, error)
	SaveAnnotations(ctx context.Context, documentID string, annotations []models.Annotation) error
	UpdateAnnotations(ctx context.Context, documentID string, fn func([]models.Annotation) ([]models.Annotation, error)) error
	GetAllAnnotations(ctx context.Context) ([]models.Annotation, error)
	FindAnnotationsByText(ctx context.Context, term string) ([]models.Annotation, error)
	GetBookmarks(ctx context.Context, documentID string) ([]models.Bookmark, error)
	SaveBookmarks(ctx context.Context, documentID string, bookmarks []models.Bookmark) error
	GetAllBookmarks(ctx context.Context) (map[string][]models.Bookmark, error)

	// Favorites and settings
	GetFavorites(ctx context.Context) ([]string, error)
	ToggleFavorite(ctx context.Context, documentID string) ([]string, error)
	SaveFavorites(ctx context.Context, documentIDs []string) error
	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, settings *models.Settings) error

	// Meeting notes
	GetMeetingNotes(ctx context.Context) ([]*models.MeetingNote, error)
	GetMeetingNote(ctx context.Context, id string) (*models.MeetingNote, error)
	SaveMeetingNote(ctx context.Context, note *models.MeetingNote) (*models.MeetingNote, error)
	PutMeetingNote(ctx context.Context, note *models.MeetingNote) error
	DeleteMeetingNote(ctx context.Context, id string) error

	// Schedules
	GetSchedule(ctx context.Context, kind models.ScheduleKind) ([]models.ScheduleEntry, error)
	SaveSchedule(ctx context.Context, kind models.ScheduleKind, entries []models.ScheduleEntry) error

	// Saved searches
	GetSavedSearches(ctx context.Context) ([]*models.SavedSearch, error)
	GetSavedSearch(ctx context.Context, id string) (*models.SavedSearch, error)
	SaveSavedSearch(ctx context.Context, search *models.SavedSearch) (*models.SavedSearch, error)
	PutSavedSearch(ctx context.Context, search *models.SavedSearch) error
	DeleteSavedSearch(ctx context.Context, id string) error
}
