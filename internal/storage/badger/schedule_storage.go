package badger

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ScheduleStorage keeps one Schedule record per kind
type ScheduleStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewScheduleStorage creates a new ScheduleStorage instance
func NewScheduleStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ScheduleStorage {
	return &ScheduleStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ScheduleStorage) GetSchedule(ctx context.Context, kind models.ScheduleKind) (*models.Schedule, error) {
	var schedule models.Schedule
	err := s.db.Store().Get(string(kind), &schedule)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get schedule", string(kind), err)
	}
	return &schedule, nil
}

func (s *ScheduleStorage) SaveSchedule(ctx context.Context, schedule *models.Schedule) error {
	return storageErr("save schedule", string(schedule.Kind), s.db.Store().Upsert(string(schedule.Kind), schedule))
}
