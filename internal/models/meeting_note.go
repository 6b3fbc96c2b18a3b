package models

import "time"

// MeetingType is the kind of meeting a note was taken at
type MeetingType string

const (
	MeetingTypeMidweek    MeetingType = "midweek"
	MeetingTypeWeekend    MeetingType = "weekend"
	MeetingTypeConvention MeetingType = "convention"
)

// IsValid reports whether t is a known meeting type
func (t MeetingType) IsValid() bool {
	switch t {
	case MeetingTypeMidweek, MeetingTypeWeekend, MeetingTypeConvention:
		return true
	}
	return false
}

// MeetingNote is a free-text note taken at a meeting. It has no relation to documents.
type MeetingNote struct {
	ID        string      `json:"id" validate:"required"` // meet_{uuid}
	Title     string      `json:"title"`
	Date      string      `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Type      MeetingType `json:"type,omitempty" validate:"omitempty,oneof=midweek weekend convention"`
	Content   string      `json:"content,omitempty"` // Markdown
	Tags      []string    `json:"tags,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
