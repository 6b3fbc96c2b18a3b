package interfaces

import (
	"context"

	"github.com/ternarybob/studydesk/internal/models"
)

// Storage interfaces are thin persistence primitives. They never stamp
// timestamps or generate IDs; that is the Local Store's job. Reads of a
// missing key return nil and no error.

// DocumentStorage - interface for document record persistence
type DocumentStorage interface {
	SaveDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	CountDocuments(ctx context.Context) (int, error)
}

// AnnotationStorage - interface for per-document annotation collections
type AnnotationStorage interface {
	GetAnnotationSet(ctx context.Context, documentID string) (*models.AnnotationSet, error)
	SaveAnnotationSet(ctx context.Context, set *models.AnnotationSet) error
	DeleteAnnotationSet(ctx context.Context, documentID string) error
	ListAnnotationSets(ctx context.Context) ([]*models.AnnotationSet, error)
	SearchAnnotations(ctx context.Context, pattern string) ([]*models.AnnotationSet, error)
}

// BookmarkStorage - interface for per-document bookmark lists
type BookmarkStorage interface {
	GetBookmarkSet(ctx context.Context, documentID string) (*models.BookmarkSet, error)
	SaveBookmarkSet(ctx context.Context, set *models.BookmarkSet) error
	DeleteBookmarkSet(ctx context.Context, documentID string) error
	ListBookmarkSets(ctx context.Context) ([]*models.BookmarkSet, error)
}

// FileStorage - interface for raw document blobs
type FileStorage interface {
	SaveFile(ctx context.Context, key string, data []byte) error
	GetFile(ctx context.Context, key string) ([]byte, error)
	DeleteFile(ctx context.Context, key string) error
	ListFileKeys(ctx context.Context) ([]string, error)
}

// DocumentBodyStorage - interface for extracted document text
type DocumentBodyStorage interface {
	SaveBody(ctx context.Context, body *models.DocumentBody) error
	GetBody(ctx context.Context, documentID string) (*models.DocumentBody, error)
	DeleteBody(ctx context.Context, documentID string) error
	SearchBodies(ctx context.Context, pattern string) ([]*models.DocumentBody, error)
}

// MeetingNoteStorage - interface for meeting note persistence
type MeetingNoteStorage interface {
	SaveMeetingNote(ctx context.Context, note *models.MeetingNote) error
	GetMeetingNote(ctx context.Context, id string) (*models.MeetingNote, error)
	ListMeetingNotes(ctx context.Context) ([]*models.MeetingNote, error)
	DeleteMeetingNote(ctx context.Context, id string) error
}

// ScheduleStorage - interface for the named weekly schedule lists
type ScheduleStorage interface {
	GetSchedule(ctx context.Context, kind models.ScheduleKind) (*models.Schedule, error)
	SaveSchedule(ctx context.Context, schedule *models.Schedule) error
}

// PreferenceStorage - interface for singleton records (settings, favorites)
type PreferenceStorage interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, settings *models.Settings) error
	GetFavorites(ctx context.Context) (*models.FavoriteSet, error)
	SaveFavorites(ctx context.Context, favorites *models.FavoriteSet) error
}

// SavedSearchStorage - interface for saved search persistence
type SavedSearchStorage interface {
	SaveSavedSearch(ctx context.Context, search *models.SavedSearch) error
	GetSavedSearch(ctx context.Context, id string) (*models.SavedSearch, error)
	ListSavedSearches(ctx context.Context) ([]*models.SavedSearch, error)
	DeleteSavedSearch(ctx context.Context, id string) error
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	DocumentStorage() DocumentStorage
	AnnotationStorage() AnnotationStorage
	BookmarkStorage() BookmarkStorage
	FileStorage() FileStorage
	DocumentBodyStorage() DocumentBodyStorage
	MeetingNoteStorage() MeetingNoteStorage
	ScheduleStorage() ScheduleStorage
	PreferenceStorage() PreferenceStorage
	SavedSearchStorage() SavedSearchStorage
	KeyValueStorage() KeyValueStorage

	// SetSealer routes file blobs through an at-rest encryption layer
	SetSealer(sealer Sealer)
	Close() error
}
