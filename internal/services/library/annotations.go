package library

import (
	"context"
	"sort"

	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/models"
)

// GetAnnotations returns the annotations of a document; empty when none
func (s *Service) GetAnnotations(ctx context.Context, documentID string) ([]models.Annotation, error) {
	set, err := s.storage.AnnotationStorage().GetAnnotationSet(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return []models.Annotation{}, nil
	}
	return set.Annotations, nil
}

// SaveAnnotations replaces the whole annotation collection of a document.
// It does not merge; use UpdateAnnotations for read-modify-write.
func (s *Service) SaveAnnotations(ctx context.Context, documentID string, annotations []models.Annotation) error {
	unlock := s.locks.Lock(annotationLock(documentID))
	defer unlock()

	return s.saveAnnotationsLocked(ctx, documentID, annotations)
}

// UpdateAnnotations runs fn over the current list and stores its result,
// holding the document's annotation lock throughout
func (s *Service) UpdateAnnotations(ctx context.Context, documentID string, fn func([]models.Annotation) ([]models.Annotation, error)) error {
	unlock := s.locks.Lock(annotationLock(documentID))
	defer unlock()

	current, err := s.GetAnnotations(ctx, documentID)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	return s.saveAnnotationsLocked(ctx, documentID, next)
}

func (s *Service) saveAnnotationsLocked(ctx context.Context, documentID string, annotations []models.Annotation) error {
	now := s.now()
	list := make([]models.Annotation, 0, len(annotations))
	for _, a := range annotations {
		a.DocumentID = documentID
		a.DocTitle = ""
		if a.ID == "" {
			a.ID = s.GenerateID(common.AnnotationIDPrefix)
		}
		if a.Kind == "" {
			a.Kind = models.AnnotationKindHighlight
			if a.Quote == "" {
				a.Kind = models.AnnotationKindNote
			}
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = a.CreatedAt
		}
		list = append(list, a)
	}

	return s.storage.AnnotationStorage().SaveAnnotationSet(ctx, &models.AnnotationSet{
		DocumentID:  documentID,
		Annotations: list,
		UpdatedAt:   now,
	})
}

// GetAllAnnotations flattens annotations across all documents, oldest
// first, each tagged with its document's title. Collections whose document
// no longer exists are skipped.
func (s *Service) GetAllAnnotations(ctx context.Context) ([]models.Annotation, error) {
	docs, err := s.GetDocuments(ctx)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(docs))
	for _, doc := range docs {
		titles[doc.ID] = doc.Title
	}

	sets, err := s.storage.AnnotationStorage().ListAnnotationSets(ctx)
	if err != nil {
		return nil, err
	}

	result := []models.Annotation{}
	for _, set := range sets {
		title, ok := titles[set.DocumentID]
		if !ok {
			continue
		}
		for _, a := range set.Annotations {
			a.DocTitle = title
			result = append(result, a)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Service) GetBookmarks(ctx context.Context, documentID string) ([]models.Bookmark, error) {
	set, err := s.storage.BookmarkStorage().GetBookmarkSet(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return []models.Bookmark{}, nil
	}
	return set.Bookmarks, nil
}

// SaveBookmarks replaces the bookmark list of a document
func (s *Service) SaveBookmarks(ctx context.Context, documentID string, bookmarks []models.Bookmark) error {
	unlock := s.locks.Lock(bookmarkLock(documentID))
	defer unlock()

	now := s.now()
	list := make([]models.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		b.DocumentID = documentID
		if b.ID == "" {
			b.ID = s.GenerateID(common.BookmarkIDPrefix)
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		list = append(list, b)
	}

	return s.storage.BookmarkStorage().SaveBookmarkSet(ctx, &models.BookmarkSet{
		DocumentID: documentID,
		Bookmarks:  list,
		UpdatedAt:  now,
	})
}

// GetAllBookmarks returns every non-empty bookmark list keyed by document
// ID. Lists whose document no longer exists are skipped.
func (s *Service) GetAllBookmarks(ctx context.Context) (map[string][]models.Bookmark, error) {
	docs, err := s.GetDocuments(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(docs))
	for _, doc := range docs {
		known[doc.ID] = true
	}

	sets, err := s.storage.BookmarkStorage().ListBookmarkSets(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[string][]models.Bookmark, len(sets))
	for _, set := range sets {
		if !known[set.DocumentID] || len(set.Bookmarks) == 0 {
			continue
		}
		result[set.DocumentID] = set.Bookmarks
	}
	return result, nil
}
