package reminders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/models"
	"github.com/ternarybob/studydesk/internal/services/library"
	"github.com/ternarybob/studydesk/internal/storage/badger"
)

type recordingNotifier struct {
	mu        sync.Mutex
	reminders []models.Reminder
}

func (n *recordingNotifier) Notify(ctx context.Context, r models.Reminder) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders = append(n.reminders, r)
	return nil
}

func newTestStore(t *testing.T) *library.Service {
	t.Helper()
	logger := arbor.NewLogger()
	manager, err := badger.NewManager(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return library.NewService(manager, nil, nil, logger)
}

func TestCronSpec(t *testing.T) {
	tests := []struct {
		name    string
		entry   models.ScheduleEntry
		lead    time.Duration
		want    string
		wantErr bool
	}{
		{"no lead", models.ScheduleEntry{Day: 3, Time: "19:00"}, 0, "0 19 * * 3", false},
		{"fifteen minutes", models.ScheduleEntry{Day: 3, Time: "19:00"}, 15 * time.Minute, "45 18 * * 3", false},
		{"previous day", models.ScheduleEntry{Day: 2, Time: "00:10"}, 30 * time.Minute, "40 23 * * 1", false},
		{"wraps to saturday", models.ScheduleEntry{Day: 0, Time: "00:05"}, 10 * time.Minute, "55 23 * * 6", false},
		{"bad day", models.ScheduleEntry{Day: 7, Time: "10:00"}, 0, "", true},
		{"bad time", models.ScheduleEntry{Day: 1, Time: "25:00"}, 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cronSpec(tt.entry, tt.lead)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNext_OrdersUpcomingReminders(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SaveSchedule(ctx, models.ScheduleMidweek, []models.ScheduleEntry{{Day: 3, Time: "19:00"}}))
	require.NoError(t, store.SaveSchedule(ctx, models.ScheduleWeekend, []models.ScheduleEntry{{Day: 0, Time: "10:00"}}))

	svc := NewService(store, &recordingNotifier{}, 15*time.Minute, arbor.NewLogger())

	// Monday 2024-03-04 12:00 local time
	now := time.Date(2024, 3, 4, 12, 0, 0, 0, time.Local)
	upcoming, err := svc.Next(ctx, now, 0)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)

	assert.Equal(t, models.ScheduleMidweek, upcoming[0].Kind)
	assert.WithinDuration(t, time.Date(2024, 3, 6, 18, 45, 0, 0, time.Local), upcoming[0].FireAt, 0)
	assert.WithinDuration(t, time.Date(2024, 3, 6, 19, 0, 0, 0, time.Local), upcoming[0].MeetingAt, 0)
	assert.Equal(t, models.ScheduleWeekend, upcoming[1].Kind)
	assert.WithinDuration(t, time.Date(2024, 3, 10, 10, 0, 0, 0, time.Local), upcoming[1].MeetingAt, 0)

	limited, err := svc.Next(ctx, now, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStartReloadStop(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SaveSchedule(ctx, models.ScheduleMidweek, []models.ScheduleEntry{{Day: 3, Time: "19:00"}}))

	svc := NewService(store, nil, 15*time.Minute, arbor.NewLogger())
	require.NoError(t, svc.Start(ctx))
	assert.Error(t, svc.Start(ctx))
	assert.Len(t, svc.cron.Entries(), 1)

	require.NoError(t, store.SaveSchedule(ctx, models.ScheduleWeekend, []models.ScheduleEntry{{Day: 6, Time: "09:30"}, {Day: 0, Time: "10:00"}}))
	require.NoError(t, svc.Reload(ctx))
	assert.Len(t, svc.cron.Entries(), 3)

	svc.Stop()
	svc.Stop()
}

func TestFire_NotifiesWithMeetingTime(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(newTestStore(t), notifier, 15*time.Minute, arbor.NewLogger())

	at := time.Date(2024, 3, 6, 18, 45, 12, 0, time.UTC)
	svc.fire(models.ScheduleMidweek, models.ScheduleEntry{Day: 3, Time: "19:00"}, at)

	require.Len(t, notifier.reminders, 1)
	r := notifier.reminders[0]
	assert.WithinDuration(t, time.Date(2024, 3, 6, 18, 45, 0, 0, time.UTC), r.FireAt, 0)
	assert.WithinDuration(t, time.Date(2024, 3, 6, 19, 0, 0, 0, time.UTC), r.MeetingAt, 0)
}
