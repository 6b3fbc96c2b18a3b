package bundle

import (
	"context"
	"fmt"

	"github.com/ternarybob/studydesk/internal/models"
)

// Validate checks the structure of the whole bundle. Annotation and
// bookmark owners must exist in the bundle or in the local store.
func (s *Service) Validate(ctx context.Context, b *models.Bundle) error {
	if b.Version == 0 && b.ExportedAt.IsZero() {
		return invalid("version", "missing version and exportedAt")
	}
	if b.Version < 0 || b.Version > 2 {
		return invalid("version", "unsupported version %d", b.Version)
	}

	owners := make(map[string]bool, len(b.Docs))
	for i, doc := range b.Docs {
		field := fmt.Sprintf("docs[%d]", i)
		if doc.ID == "" {
			return invalid(field+".id", "required")
		}
		if owners[doc.ID] {
			return invalid(field+".id", "duplicate id %q", doc.ID)
		}
		if doc.Type != "" && !doc.Type.IsValid() {
			return invalid(field+".type", "unknown document type %q", doc.Type)
		}
		owners[doc.ID] = true
	}

	ownerExists := func(id string) (bool, error) {
		if owners[id] {
			return true, nil
		}
		doc, err := s.store.GetDocument(ctx, id)
		if err != nil {
			return false, err
		}
		owners[id] = doc != nil
		return doc != nil, nil
	}

	for i, a := range b.Annotations {
		field := fmt.Sprintf("annotations[%d]", i)
		if a.ID == "" {
			return invalid(field+".id", "required")
		}
		if a.DocumentID == "" {
			return invalid(field+".documentId", "required")
		}
		ok, err := ownerExists(a.DocumentID)
		if err != nil {
			return err
		}
		if !ok {
			return invalid(field+".documentId", "unknown document %q", a.DocumentID)
		}
	}

	for docID := range b.Bookmarks {
		ok, err := ownerExists(docID)
		if err != nil {
			return err
		}
		if !ok {
			return invalid("bookmarks", "unknown document %q", docID)
		}
	}

	for i := range b.Meeting {
		note := &b.Meeting[i]
		if err := s.validate.Struct(note); err != nil {
			return invalid(fmt.Sprintf("meeting[%d]", i), "%v", err)
		}
	}

	for kind, list := range map[string]models.ScheduleList{
		"midweek": b.Schedules.Midweek,
		"weekend": b.Schedules.Weekend,
	} {
		for i, entry := range list {
			if err := entry.Validate(); err != nil {
				return invalid(fmt.Sprintf("schedules.%s[%d]", kind, i), "%v", err)
			}
		}
	}

	for i, search := range b.SavedSearches {
		field := fmt.Sprintf("savedSearches[%d]", i)
		if search.ID == "" {
			return invalid(field+".id", "required")
		}
		if search.Query == "" {
			return invalid(field+".query", "required")
		}
	}

	return nil
}
