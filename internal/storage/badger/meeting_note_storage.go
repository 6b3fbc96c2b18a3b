package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// MeetingNoteStorage implements the MeetingNoteStorage interface for Badger
type MeetingNoteStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewMeetingNoteStorage creates a new MeetingNoteStorage instance
func NewMeetingNoteStorage(db *BadgerDB, logger arbor.ILogger) interfaces.MeetingNoteStorage {
	return &MeetingNoteStorage{
		db:     db,
		logger: logger,
	}
}

func (s *MeetingNoteStorage) SaveMeetingNote(ctx context.Context, note *models.MeetingNote) error {
	if note.ID == "" {
		return fmt.Errorf("meeting note ID is required")
	}
	return storageErr("save meeting note", note.ID, s.db.Store().Upsert(note.ID, note))
}

func (s *MeetingNoteStorage) GetMeetingNote(ctx context.Context, id string) (*models.MeetingNote, error) {
	var note models.MeetingNote
	err := s.db.Store().Get(id, &note)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get meeting note", id, err)
	}
	return &note, nil
}

func (s *MeetingNoteStorage) ListMeetingNotes(ctx context.Context) ([]*models.MeetingNote, error) {
	var notes []models.MeetingNote
	if err := s.db.Store().Find(&notes, nil); err != nil {
		return nil, storageErr("list meeting notes", "", err)
	}
	result := make([]*models.MeetingNote, len(notes))
	for i := range notes {
		result[i] = &notes[i]
	}
	return result, nil
}

func (s *MeetingNoteStorage) DeleteMeetingNote(ctx context.Context, id string) error {
	err := s.db.Store().Delete(id, &models.MeetingNote{})
	if err == badgerhold.ErrNotFound {
		return nil
	}
	return storageErr("delete meeting note", id, err)
}
