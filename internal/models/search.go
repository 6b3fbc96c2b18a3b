package models

import "time"

// SearchResultKind tells which record a search hit came from
type SearchResultKind string

const (
	SearchResultDocument   SearchResultKind = "document"
	SearchResultAnnotation SearchResultKind = "annotation"
)

// SearchOptions narrows a search. Filters mirror the saved search filter
// map: "type" (document type), "kind" (document|annotation), "tag"
// (annotation tag) and "documentId".
type SearchOptions struct {
	Filters        map[string]string `json:"filters,omitempty"`
	Sort           SavedSearchSort   `json:"sort,omitempty"`
	Limit          int               `json:"limit,omitempty"`
	IncludeTrashed bool              `json:"includeTrashed,omitempty"`
}

// SearchResult is one hit of a search
type SearchResult struct {
	Kind         SearchResultKind `json:"kind"`
	DocumentID   string           `json:"documentId"`
	AnnotationID string           `json:"annotationId,omitempty"`
	Title        string           `json:"title"`
	Snippet      string           `json:"snippet"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}
