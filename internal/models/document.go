package models

import (
	"path/filepath"
	"strings"
	"time"
)

// DocumentType is the format of an imported or created document
type DocumentType string

const (
	DocumentTypeEPUB     DocumentType = "epub"
	DocumentTypePDF      DocumentType = "pdf"
	DocumentTypeDOCX     DocumentType = "docx"
	DocumentTypeText     DocumentType = "txt"
	DocumentTypeMarkdown DocumentType = "md"
)

// IsValid reports whether t is one of the known document types
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeEPUB, DocumentTypePDF, DocumentTypeDOCX, DocumentTypeText, DocumentTypeMarkdown:
		return true
	}
	return false
}

// DocumentTypeFromName derives the document type from a file name extension.
// Unknown extensions fall back to plain text.
func DocumentTypeFromName(name string) DocumentType {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "epub":
		return DocumentTypeEPUB
	case "pdf":
		return DocumentTypePDF
	case "docx":
		return DocumentTypeDOCX
	case "md", "markdown":
		return DocumentTypeMarkdown
	}
	return DocumentTypeText
}

// Lifecycle is the deletion state of a document.
//
//	Active -> Trashed   (soft delete)
//	Trashed -> Active   (restore)
//	Trashed|Active -> Purged (hard delete, record and children removed)
//
// Purged is never stored; a purged document simply no longer exists.
type Lifecycle string

const (
	LifecycleActive  Lifecycle = "active"
	LifecycleTrashed Lifecycle = "trashed"
	LifecyclePurged  Lifecycle = "purged"
)

// Document is a library entry: an imported file or a page created in the app
type Document struct {
	ID       string                 `json:"id"` // doc_{uuid}
	Title    string                 `json:"title"`
	Type     DocumentType           `json:"type"`
	FileKey  string                 `json:"fileKey,omitempty"`  // Reference to a stored blob
	Meta     map[string]interface{} `json:"meta,omitempty"`     // Page count, size, source name
	Location string                 `json:"location,omitempty"` // Opaque reader position
	Content  string                 `json:"content,omitempty"`  // Inline text of a page created in the app

	Lifecycle Lifecycle `json:"lifecycle,omitempty"`

	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	LastOpened *time.Time `json:"lastOpened,omitempty"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"` // Present iff trashed
}

// State returns the lifecycle state, deriving it from DeletedAt for records
// that predate the explicit field (bundles, remote payloads).
func (d *Document) State() Lifecycle {
	if d.Lifecycle == LifecycleTrashed || d.DeletedAt != nil {
		return LifecycleTrashed
	}
	return LifecycleActive
}

// IsTrashed reports whether the document has been soft deleted
func (d *Document) IsTrashed() bool {
	return d.State() == LifecycleTrashed
}

// Trash moves the document to the trashed state at the given time
func (d *Document) Trash(at time.Time) {
	d.Lifecycle = LifecycleTrashed
	d.DeletedAt = &at
}

// Restore moves a trashed document back to active
func (d *Document) Restore() {
	d.Lifecycle = LifecycleActive
	d.DeletedAt = nil
}

// RecencyTime is the timestamp used to order recent documents
func (d *Document) RecencyTime() time.Time {
	if d.LastOpened != nil && !d.LastOpened.IsZero() {
		return *d.LastOpened
	}
	if !d.UpdatedAt.IsZero() {
		return d.UpdatedAt
	}
	return d.CreatedAt
}

// Clone returns a copy that shares no mutable state with d
func (d *Document) Clone() *Document {
	c := *d
	if d.Meta != nil {
		c.Meta = make(map[string]interface{}, len(d.Meta))
		for k, v := range d.Meta {
			c.Meta[k] = v
		}
	}
	if d.LastOpened != nil {
		t := *d.LastOpened
		c.LastOpened = &t
	}
	if d.DeletedAt != nil {
		t := *d.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

// DocumentBody holds the extracted text of a document for search
type DocumentBody struct {
	DocumentID string    `json:"documentId"`
	Text       string    `json:"text"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
