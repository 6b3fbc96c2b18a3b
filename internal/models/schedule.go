package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var scheduleValidator = validator.New()

// ScheduleKind names one of the two weekly meeting lists
type ScheduleKind string

const (
	ScheduleMidweek ScheduleKind = "midweek"
	ScheduleWeekend ScheduleKind = "weekend"
)

// ScheduleKinds lists every schedule kind in display order
var ScheduleKinds = []ScheduleKind{ScheduleMidweek, ScheduleWeekend}

// ParseScheduleKind validates a schedule kind string
func ParseScheduleKind(s string) (ScheduleKind, error) {
	switch ScheduleKind(s) {
	case ScheduleMidweek, ScheduleWeekend:
		return ScheduleKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidScheduleKind, s)
}

// ScheduleEntry is a weekly meeting slot. Entries have no identity.
type ScheduleEntry struct {
	Day  int    `json:"day" validate:"min=0,max=6"`              // 0 = Sunday
	Time string `json:"time" validate:"required,datetime=15:04"` // HH:mm
}

// Clock returns the hour and minute of the entry
func (e ScheduleEntry) Clock() (int, int, error) {
	t, err := time.Parse("15:04", e.Time)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid schedule time %q: %w", e.Time, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Validate checks the struct tags: day 0-6 and an HH:mm time
func (e ScheduleEntry) Validate() error {
	if err := scheduleValidator.Struct(e); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScheduleEntry, err)
	}
	return nil
}

// Schedule is a named list of entries, replaced wholesale on save
type Schedule struct {
	Kind      ScheduleKind    `json:"kind"`
	Entries   []ScheduleEntry `json:"entries"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
