package library

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/models"
)

// GetMeetingNotes returns every meeting note, newest meeting date first
func (s *Service) GetMeetingNotes(ctx context.Context) ([]*models.MeetingNote, error) {
	notes, err := s.storage.MeetingNoteStorage().ListMeetingNotes(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Date != notes[j].Date {
			return notes[i].Date > notes[j].Date
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

func (s *Service) GetMeetingNote(ctx context.Context, id string) (*models.MeetingNote, error) {
	return s.storage.MeetingNoteStorage().GetMeetingNote(ctx, id)
}

// SaveMeetingNote upserts note, generating a meet_ ID when absent and
// stamping timestamps the same way SaveDocument does
func (s *Service) SaveMeetingNote(ctx context.Context, note *models.MeetingNote) (*models.MeetingNote, error) {
	if note == nil {
		return nil, fmt.Errorf("nil meeting note")
	}
	next := *note
	if next.ID == "" {
		next.ID = s.GenerateID(common.MeetingNoteIDPrefix)
	}
	if strings.TrimSpace(next.Title) == "" {
		next.Title = "Untitled"
	}
	if err := s.validate.Struct(&next); err != nil {
		return nil, fmt.Errorf("invalid meeting note: %w", err)
	}

	now := s.now()
	if next.CreatedAt.IsZero() {
		next.CreatedAt = now
	}
	next.UpdatedAt = now

	unlock := s.locks.Lock(meetingLock(next.ID))
	defer unlock()

	if err := s.storage.MeetingNoteStorage().SaveMeetingNote(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// PutMeetingNote stores note as given; merge path only
func (s *Service) PutMeetingNote(ctx context.Context, note *models.MeetingNote) error {
	if note == nil || note.ID == "" {
		return fmt.Errorf("meeting note ID is required")
	}
	unlock := s.locks.Lock(meetingLock(note.ID))
	defer unlock()

	return s.storage.MeetingNoteStorage().SaveMeetingNote(ctx, note)
}

func (s *Service) DeleteMeetingNote(ctx context.Context, id string) error {
	unlock := s.locks.Lock(meetingLock(id))
	defer unlock()

	return s.storage.MeetingNoteStorage().DeleteMeetingNote(ctx, id)
}
