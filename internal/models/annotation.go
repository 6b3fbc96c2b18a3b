package models

import "time"

// AnnotationKind distinguishes highlights from free notes
type AnnotationKind string

const (
	AnnotationKindHighlight AnnotationKind = "highlight"
	AnnotationKindNote      AnnotationKind = "note"
)

// Annotation is a highlight or note owned by exactly one document
type Annotation struct {
	ID         string         `json:"id"` // ann_{uuid}
	DocumentID string         `json:"documentId"`
	Kind       AnnotationKind `json:"kind,omitempty"`
	Quote      string         `json:"quote,omitempty"`
	Text       string         `json:"text,omitempty"`
	Note       string         `json:"note,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	CFI        string         `json:"cfi,omitempty"` // Reader position anchor
	Color      string         `json:"color,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`

	// DocTitle is joined in at read time by GetAllAnnotations and never stored
	DocTitle string `json:"docTitle,omitempty"`
}

// Body returns the most descriptive content field
func (a *Annotation) Body() string {
	switch {
	case a.Quote != "":
		return a.Quote
	case a.Text != "":
		return a.Text
	}
	return a.Note
}

// AnnotationSet is the per-document annotation collection as persisted
type AnnotationSet struct {
	DocumentID  string       `json:"documentId"`
	Annotations []Annotation `json:"annotations"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Bookmark marks a reader position within a document
type Bookmark struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId,omitempty"`
	Label      string    `json:"label,omitempty"`
	Location   string    `json:"location,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BookmarkSet is the per-document bookmark list as persisted
type BookmarkSet struct {
	DocumentID string     `json:"documentId"`
	Bookmarks  []Bookmark `json:"bookmarks"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
