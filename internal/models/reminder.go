package models

import "time"

// Reminder is an upcoming meeting alert derived from a schedule entry
type Reminder struct {
	Kind      ScheduleKind  `json:"kind"`
	Entry     ScheduleEntry `json:"entry"`
	MeetingAt time.Time     `json:"meetingAt"`
	FireAt    time.Time     `json:"fireAt"`
}
