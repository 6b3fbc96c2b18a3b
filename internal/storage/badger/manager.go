package badger

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db          *BadgerDB
	document    interfaces.DocumentStorage
	annotation  interfaces.AnnotationStorage
	bookmark    interfaces.BookmarkStorage
	file        *FileStorage
	body        interfaces.DocumentBodyStorage
	meetingNote interfaces.MeetingNoteStorage
	schedule    interfaces.ScheduleStorage
	preference  interfaces.PreferenceStorage
	savedSearch interfaces.SavedSearchStorage
	kv          interfaces.KeyValueStorage
	logger      arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := newManager(db, logger)
	logger.Info().Str("path", config.Path).Msg("Badger storage manager initialized")
	return manager, nil
}

func newManager(db *BadgerDB, logger arbor.ILogger) *Manager {
	return &Manager{
		db:          db,
		document:    NewDocumentStorage(db, logger),
		annotation:  NewAnnotationStorage(db, logger),
		bookmark:    NewBookmarkStorage(db, logger),
		file:        NewFileStorage(db, logger),
		body:        NewDocumentBodyStorage(db, logger),
		meetingNote: NewMeetingNoteStorage(db, logger),
		schedule:    NewScheduleStorage(db, logger),
		preference:  NewPreferenceStorage(db, logger),
		savedSearch: NewSavedSearchStorage(db, logger),
		kv:          NewKVStorage(db, logger),
		logger:      logger,
	}
}

// DocumentStorage returns the Document storage interface
func (m *Manager) DocumentStorage() interfaces.DocumentStorage {
	return m.document
}

// AnnotationStorage returns the Annotation storage interface
func (m *Manager) AnnotationStorage() interfaces.AnnotationStorage {
	return m.annotation
}

// BookmarkStorage returns the Bookmark storage interface
func (m *Manager) BookmarkStorage() interfaces.BookmarkStorage {
	return m.bookmark
}

// FileStorage returns the File storage interface
func (m *Manager) FileStorage() interfaces.FileStorage {
	return m.file
}

// DocumentBodyStorage returns the DocumentBody storage interface
func (m *Manager) DocumentBodyStorage() interfaces.DocumentBodyStorage {
	return m.body
}

// MeetingNoteStorage returns the MeetingNote storage interface
func (m *Manager) MeetingNoteStorage() interfaces.MeetingNoteStorage {
	return m.meetingNote
}

// ScheduleStorage returns the Schedule storage interface
func (m *Manager) ScheduleStorage() interfaces.ScheduleStorage {
	return m.schedule
}

// PreferenceStorage returns the Preference storage interface
func (m *Manager) PreferenceStorage() interfaces.PreferenceStorage {
	return m.preference
}

// SavedSearchStorage returns the SavedSearch storage interface
func (m *Manager) SavedSearchStorage() interfaces.SavedSearchStorage {
	return m.savedSearch
}

// KeyValueStorage returns the KeyValue storage interface
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// SetSealer routes file blobs through sealer
func (m *Manager) SetSealer(sealer interfaces.Sealer) {
	m.file.SetSealer(sealer)
}

// SeedDefaults writes the default kv values that are not yet present
func (m *Manager) SeedDefaults(ctx context.Context) error {
	for _, def := range common.GetDefaultKVValues() {
		if _, err := m.kv.Get(ctx, def.Key); err == nil {
			continue
		} else if err != interfaces.ErrKeyNotFound {
			return err
		}
		if err := m.kv.Set(ctx, def.Key, def.Value, def.Description); err != nil {
			return err
		}
		m.logger.Debug().Str("key", def.Key).Msg("Seeded default value")
	}
	return nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
