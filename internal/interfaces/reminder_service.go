package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/studydesk/internal/models"
)

// Notifier receives reminder events
type Notifier interface {
	Notify(ctx context.Context, reminder models.Reminder) error
}

// ReminderService fires reminders ahead of scheduled meetings
type ReminderService interface {
	Start(ctx context.Context) error
	Stop()
	Reload(ctx context.Context) error
	Next(ctx context.Context, now time.Time, limit int) ([]models.Reminder, error)
}
