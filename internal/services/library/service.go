// Package library implements the Local Store: the single accessor surface
// over the embedded database for documents, annotations, bookmarks,
// favorites, settings, meeting notes, schedules and saved searches.
//
// Every read-modify-write on a collection key runs under a per-key mutex,
// so two racing SaveAnnotations calls for the same document serialise
// instead of one silently overwriting the other.
package library

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/interfaces"
)

// Lock keys for collection records
const (
	favoritesLock = "favorites"
	settingsLock  = "settings"
)

func documentLock(id string) string    { return "docs:" + id }
func annotationLock(id string) string  { return "ann:" + id }
func bookmarkLock(id string) string    { return "bm:" + id }
func meetingLock(id string) string     { return "meeting:" + id }
func scheduleLock(kind string) string  { return "schedule:" + kind }
func savedSearchLock(id string) string { return "search:" + id }

// Service implements interfaces.LocalStore
type Service struct {
	storage   interfaces.StorageManager
	extractor interfaces.TextExtractor
	pdf       interfaces.PDFService
	logger    arbor.ILogger
	locks     *common.KeyedMutex
	validate  *validator.Validate
	now       func() time.Time
}

// Compile-time assertion
var _ interfaces.LocalStore = (*Service)(nil)

// NewService creates the Local Store. extractor and pdf feed ImportFile;
// either may be nil, in which case bodies or page counts are not recorded.
func NewService(storage interfaces.StorageManager, extractor interfaces.TextExtractor, pdf interfaces.PDFService, logger arbor.ILogger) *Service {
	return &Service{
		storage:   storage,
		extractor: extractor,
		pdf:       pdf,
		logger:    logger,
		locks:     common.NewKeyedMutex(),
		validate:  validator.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GenerateID returns "<prefix>_<uuid>"
func (s *Service) GenerateID(prefix string) string {
	return common.GenerateID(prefix)
}
