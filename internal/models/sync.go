package models

import "time"

// RemoteDocument is the document payload exchanged with the sync service
type RemoteDocument struct {
	ID         string                 `json:"id"`
	Title      string                 `json:"title"`
	Type       DocumentType           `json:"type"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
	LastOpened *time.Time             `json:"lastOpened,omitempty"`
	CreatedAt  *time.Time             `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time             `json:"updatedAt,omitempty"`
}

// NewRemoteDocument builds the push payload for a local document
func NewRemoteDocument(doc *Document) RemoteDocument {
	updated := doc.UpdatedAt
	return RemoteDocument{
		ID:         doc.ID,
		Title:      doc.Title,
		Type:       doc.Type,
		Meta:       doc.Meta,
		LastOpened: doc.LastOpened,
		UpdatedAt:  &updated,
	}
}

// Document converts a pulled payload into a local record. A missing
// createdAt takes the remote updatedAt; missing both takes fallback.
func (r RemoteDocument) Document(fallback time.Time) *Document {
	updated := fallback
	if r.UpdatedAt != nil {
		updated = *r.UpdatedAt
	}
	created := updated
	if r.CreatedAt != nil {
		created = *r.CreatedAt
	}
	docType := r.Type
	if !docType.IsValid() {
		docType = DocumentTypeText
	}
	return &Document{
		ID:         r.ID,
		Title:      r.Title,
		Type:       docType,
		Meta:       r.Meta,
		Lifecycle:  LifecycleActive,
		LastOpened: r.LastOpened,
		CreatedAt:  created,
		UpdatedAt:  updated,
	}
}

// RemoteAnnotation is the annotation payload exchanged with the sync service
type RemoteAnnotation struct {
	ID        string         `json:"id"`
	DocID     string         `json:"docId"`
	Kind      AnnotationKind `json:"kind,omitempty"`
	Quote     string         `json:"quote,omitempty"`
	Note      string         `json:"note,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
	CFI       string         `json:"cfi,omitempty"`
	CreatedAt *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
}

// NewRemoteAnnotation builds the push payload. Free text travels as the
// note when the annotation has no separate note.
func NewRemoteAnnotation(a *Annotation) RemoteAnnotation {
	created, updated := a.CreatedAt, a.UpdatedAt
	note := a.Note
	if note == "" {
		note = a.Text
	}
	return RemoteAnnotation{
		ID:        a.ID,
		DocID:     a.DocumentID,
		Kind:      a.Kind,
		Quote:     a.Quote,
		Note:      note,
		Tags:      a.Tags,
		CFI:       a.CFI,
		CreatedAt: &created,
		UpdatedAt: &updated,
	}
}

// Annotation converts a pulled payload into a local annotation
func (r RemoteAnnotation) Annotation(fallback time.Time) Annotation {
	updated := fallback
	if r.UpdatedAt != nil {
		updated = *r.UpdatedAt
	}
	created := updated
	if r.CreatedAt != nil {
		created = *r.CreatedAt
	}
	return Annotation{
		ID:         r.ID,
		DocumentID: r.DocID,
		Kind:       r.Kind,
		Quote:      r.Quote,
		Note:       r.Note,
		Tags:       r.Tags,
		CFI:        r.CFI,
		CreatedAt:  created,
		UpdatedAt:  updated,
	}
}

// SyncReport summarises one sync run
type SyncReport struct {
	PushedDocuments   int           `json:"pushedDocuments"`
	PushedAnnotations int           `json:"pushedAnnotations"`
	PulledDocuments   int           `json:"pulledDocuments"`
	PulledAnnotations int           `json:"pulledAnnotations"`
	SkippedOrphans    int           `json:"skippedOrphans"`
	Duration          time.Duration `json:"duration"`
}
