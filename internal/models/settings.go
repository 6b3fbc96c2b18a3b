package models

import "time"

// ConventionConfig describes the upcoming convention used by convention notes
type ConventionConfig struct {
	Name      string `json:"name,omitempty"`
	StartDate string `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate   string `json:"endDate,omitempty"`
}

// Settings is the single mutable preferences record. It is overwritten wholesale.
type Settings struct {
	Language   string                 `json:"language,omitempty"`
	Theme      string                 `json:"theme,omitempty"`
	Features   map[string]bool        `json:"features,omitempty"`
	Convention *ConventionConfig      `json:"convention,omitempty"`
	Extra      map[string]interface{} `json:"extra,omitempty"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

// IsEmpty reports whether the settings record carries no user choices
func (s *Settings) IsEmpty() bool {
	return s == nil || (s.Language == "" && s.Theme == "" && len(s.Features) == 0 && s.Convention == nil && len(s.Extra) == 0)
}

// FavoriteSet is the ordered set of favorite document IDs
type FavoriteSet struct {
	DocumentIDs []string  `json:"documentIds"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Contains reports whether id is a favorite
func (f *FavoriteSet) Contains(id string) bool {
	for _, v := range f.DocumentIDs {
		if v == id {
			return true
		}
	}
	return false
}

// SavedSearchSort orders saved search results
type SavedSearchSort string

const (
	SavedSearchSortNewest SavedSearchSort = "newest"
	SavedSearchSortOldest SavedSearchSort = "oldest"
	SavedSearchSortTitle  SavedSearchSort = "title"
)

// SavedSearch is a persisted "smart folder" query
type SavedSearch struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Query     string            `json:"query"`
	Filters   map[string]string `json:"filters,omitempty"` // kind, tag, type, documentId
	Sort      SavedSearchSort   `json:"sort,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
