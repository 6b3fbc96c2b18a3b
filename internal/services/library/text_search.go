package library

import (
	"context"
	"sort"
	"strings"

	"github.com/ternarybob/studydesk/internal/models"
)

// FindDocumentsByText returns the documents whose title or text contains
// term, case-insensitively. Extracted bodies are matched by the storage
// query; plain text files without one are read back. An empty term
// returns every document.
func (s *Service) FindDocumentsByText(ctx context.Context, term string) ([]*models.Document, error) {
	docs, err := s.GetDocuments(ctx)
	if err != nil || term == "" {
		return docs, err
	}

	bodies, err := s.storage.DocumentBodyStorage().SearchBodies(ctx, term)
	if err != nil {
		return nil, err
	}
	bodyHit := make(map[string]bool, len(bodies))
	for _, body := range bodies {
		bodyHit[body.DocumentID] = true
	}

	needle := strings.ToLower(term)
	result := []*models.Document{}
	for _, doc := range docs {
		switch {
		case containsFold(doc.Title, needle), containsFold(doc.Content, needle):
		case doc.Content != "":
			// inline content replaces any stored body
			continue
		case bodyHit[doc.ID]:
		case isPlainText(doc) && doc.FileKey != "":
			body, err := s.storedBody(ctx, doc)
			if err != nil {
				return nil, err
			}
			if body == nil || !containsFold(body.Text, needle) {
				continue
			}
		default:
			continue
		}
		result = append(result, doc)
	}
	return result, nil
}

// FindAnnotationsByText returns annotations whose quote, text, note or tags
// contain term, plus every annotation of a document whose title does.
// Each carries its document title; the order is oldest first. An empty
// term returns every annotation.
func (s *Service) FindAnnotationsByText(ctx context.Context, term string) ([]models.Annotation, error) {
	if term == "" {
		return s.GetAllAnnotations(ctx)
	}

	docs, err := s.GetDocuments(ctx)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(docs))
	for _, doc := range docs {
		titles[doc.ID] = doc.Title
	}

	sets, err := s.storage.AnnotationStorage().SearchAnnotations(ctx, term)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	result := []models.Annotation{}
	seen := make(map[string]bool, len(sets))
	for _, set := range sets {
		title, ok := titles[set.DocumentID]
		if !ok {
			continue
		}
		seen[set.DocumentID] = true
		titleHit := containsFold(title, needle)
		for _, a := range set.Annotations {
			if titleHit || annotationContains(&a, needle) {
				a.DocTitle = title
				result = append(result, a)
			}
		}
	}

	for _, doc := range docs {
		if seen[doc.ID] || !containsFold(doc.Title, needle) {
			continue
		}
		annotations, err := s.GetAnnotations(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
		for _, a := range annotations {
			a.DocTitle = doc.Title
			result = append(result, a)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func annotationContains(a *models.Annotation, needle string) bool {
	return containsFold(a.Quote, needle) || containsFold(a.Text, needle) ||
		containsFold(a.Note, needle) || containsFold(strings.Join(a.Tags, " "), needle)
}

// containsFold reports whether s contains the lowercased needle
func containsFold(s, needle string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), needle)
}
