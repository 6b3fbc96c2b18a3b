package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// BundleVersion is the version written by export
const BundleVersion = 1

// ScheduleList is a schedule entry list that tolerates the empty-object
// placeholder older exports wrote for a missing schedule.
type ScheduleList []ScheduleEntry

func (l *ScheduleList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		*l = nil
		return nil
	}
	var entries []ScheduleEntry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return err
	}
	*l = entries
	return nil
}

// BundleSchedules holds both weekly schedule lists of a bundle
type BundleSchedules struct {
	Midweek ScheduleList `json:"midweek"`
	Weekend ScheduleList `json:"weekend"`
}

// Bundle is the local export/import file format
type Bundle struct {
	Version       int                   `json:"version"`
	ExportedAt    time.Time             `json:"exportedAt"`
	Docs          []Document            `json:"docs"`
	Favorites     []string              `json:"favorites"`
	Annotations   []Annotation          `json:"annotations"`
	Bookmarks     map[string][]Bookmark `json:"bookmarks"`
	Meeting       []MeetingNote         `json:"meeting"`
	Schedules     BundleSchedules       `json:"schedules"`
	Settings      *Settings             `json:"settings,omitempty"`
	SavedSearches []SavedSearch         `json:"savedSearches,omitempty"`
}

// NestedBundle is the alternate grouped layout some exports use.
// It is normalised to Bundle on import.
type NestedBundle struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	Library    *struct {
		Docs      []Document `json:"docs"`
		Favorites []string   `json:"favorites"`
	} `json:"library"`
	Notes *struct {
		Annotations []Annotation  `json:"annotations"`
		Meeting     []MeetingNote `json:"meeting"`
	} `json:"notes"`
	Meetings *struct {
		Schedules BundleSchedules `json:"schedules"`
	} `json:"meetings"`
	Settings *Settings `json:"settings,omitempty"`
}

// Flatten converts the grouped layout into a Bundle
func (n *NestedBundle) Flatten() *Bundle {
	b := &Bundle{
		Version:    n.Version,
		ExportedAt: n.ExportedAt,
		Bookmarks:  map[string][]Bookmark{},
		Settings:   n.Settings,
	}
	if n.Library != nil {
		b.Docs = n.Library.Docs
		b.Favorites = n.Library.Favorites
	}
	if n.Notes != nil {
		b.Annotations = n.Notes.Annotations
		b.Meeting = n.Notes.Meeting
	}
	if n.Meetings != nil {
		b.Schedules = n.Meetings.Schedules
	}
	return b
}

// ImportReport counts what an import changed
type ImportReport struct {
	DocumentsAdded      int  `json:"documentsAdded"`
	DocumentsUpdated    int  `json:"documentsUpdated"`
	AnnotationsAdded    int  `json:"annotationsAdded"`
	AnnotationsUpdated  int  `json:"annotationsUpdated"`
	MeetingNotesAdded   int  `json:"meetingNotesAdded"`
	MeetingNotesUpdated int  `json:"meetingNotesUpdated"`
	BookmarksAdded      int  `json:"bookmarksAdded"`
	FavoritesAdded      int  `json:"favoritesAdded"`
	SchedulesReplaced   int  `json:"schedulesReplaced"`
	SavedSearchesMerged int  `json:"savedSearchesMerged"`
	SettingsApplied     bool `json:"settingsApplied"`
	Skipped             int  `json:"skipped"`
}
