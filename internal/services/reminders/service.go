// Package reminders fires notifications ahead of the weekly meetings in the
// midweek and weekend schedules.
package reminders

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
)

const minutesPerWeek = 7 * 24 * 60

// Service implements interfaces.ReminderService
type Service struct {
	store    interfaces.LocalStore
	notifier interfaces.Notifier
	lead     time.Duration
	logger   arbor.ILogger

	mu      sync.Mutex
	cron    *cron.Cron
	ids     []cron.EntryID
	running bool
}

// Compile-time assertion
var _ interfaces.ReminderService = (*Service)(nil)

// NewService creates a reminder service. A nil notifier logs reminders.
func NewService(store interfaces.LocalStore, notifier interfaces.Notifier, lead time.Duration, logger arbor.ILogger) *Service {
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	if lead < 0 {
		lead = 0
	}
	return &Service{
		store:    store,
		notifier: notifier,
		lead:     lead,
		logger:   logger,
		cron:     cron.New(cron.WithLogger(cronLogger{logger: logger})),
	}
}

// Start registers every schedule entry and starts the cron runner
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("reminders already running")
	}
	if err := s.register(ctx); err != nil {
		return err
	}
	s.cron.Start()
	s.running = true

	s.logger.Info().
		Int("entries", len(s.ids)).
		Str("lead", s.lead.String()).
		Msg("Reminders started")
	return nil
}

// Stop halts the runner and waits for notifications in flight
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info().Msg("Reminders stopped")
}

// Reload replaces the registered entries with the current schedules
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.register(ctx)
}

// register must be called with mu held
func (s *Service) register(ctx context.Context) error {
	for _, id := range s.ids {
		s.cron.Remove(id)
	}
	s.ids = nil

	for _, kind := range models.ScheduleKinds {
		entries, err := s.store.GetSchedule(ctx, kind)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			spec, err := cronSpec(entry, s.lead)
			if err != nil {
				s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Skipping invalid schedule entry")
				continue
			}
			kind, entry := kind, entry
			id, err := s.cron.AddFunc(spec, func() { s.fire(kind, entry, time.Now()) })
			if err != nil {
				return fmt.Errorf("failed to register reminder %q: %w", spec, err)
			}
			s.ids = append(s.ids, id)
		}
	}
	return nil
}

func (s *Service) fire(kind models.ScheduleKind, entry models.ScheduleEntry, at time.Time) {
	fireAt := at.Truncate(time.Minute)
	reminder := models.Reminder{
		Kind:      kind,
		Entry:     entry,
		FireAt:    fireAt,
		MeetingAt: fireAt.Add(s.lead),
	}
	if err := s.notifier.Notify(context.Background(), reminder); err != nil {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Reminder notification failed")
	}
}

// Next lists the upcoming reminders after now, earliest first
func (s *Service) Next(ctx context.Context, now time.Time, limit int) ([]models.Reminder, error) {
	var upcoming []models.Reminder
	for _, kind := range models.ScheduleKinds {
		entries, err := s.store.GetSchedule(ctx, kind)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			spec, err := cronSpec(entry, s.lead)
			if err != nil {
				continue
			}
			schedule, err := cron.ParseStandard(spec)
			if err != nil {
				return nil, err
			}
			fireAt := schedule.Next(now)
			upcoming = append(upcoming, models.Reminder{
				Kind:      kind,
				Entry:     entry,
				FireAt:    fireAt,
				MeetingAt: fireAt.Add(s.lead),
			})
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].FireAt.Before(upcoming[j].FireAt) })
	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming, nil
}

// cronSpec converts a weekly slot into a standard five field spec firing
// lead before the meeting. The lead may move the alert to the previous day.
func cronSpec(entry models.ScheduleEntry, lead time.Duration) (string, error) {
	if err := entry.Validate(); err != nil {
		return "", err
	}
	hour, minute, _ := entry.Clock()

	at := entry.Day*24*60 + hour*60 + minute - int(lead/time.Minute)
	at = ((at % minutesPerWeek) + minutesPerWeek) % minutesPerWeek

	return fmt.Sprintf("%d %d * * %d", at%60, (at/60)%24, at/(24*60)), nil
}
