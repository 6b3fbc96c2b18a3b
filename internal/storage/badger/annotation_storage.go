package badger

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// AnnotationStorage persists one AnnotationSet per document, keyed by document ID
type AnnotationStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAnnotationStorage creates a new AnnotationStorage instance
func NewAnnotationStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AnnotationStorage {
	return &AnnotationStorage{
		db:     db,
		logger: logger,
	}
}

func (s *AnnotationStorage) GetAnnotationSet(ctx context.Context, documentID string) (*models.AnnotationSet, error) {
	var set models.AnnotationSet
	err := s.db.Store().Get(documentID, &set)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get annotations", documentID, err)
	}
	return &set, nil
}

func (s *AnnotationStorage) SaveAnnotationSet(ctx context.Context, set *models.AnnotationSet) error {
	if set.DocumentID == "" {
		return fmt.Errorf("annotation set requires a document ID")
	}
	return storageErr("save annotations", set.DocumentID, s.db.Store().Upsert(set.DocumentID, set))
}

func (s *AnnotationStorage) DeleteAnnotationSet(ctx context.Context, documentID string) error {
	err := s.db.Store().Delete(documentID, &models.AnnotationSet{})
	if err == badgerhold.ErrNotFound {
		return nil
	}
	return storageErr("delete annotations", documentID, err)
}

func (s *AnnotationStorage) ListAnnotationSets(ctx context.Context) ([]*models.AnnotationSet, error) {
	var sets []models.AnnotationSet
	if err := s.db.Store().Find(&sets, nil); err != nil {
		return nil, storageErr("list annotations", "", err)
	}
	return setPointers(sets), nil
}

// SearchAnnotations returns the sets holding at least one annotation whose
// quote, text, note or tags match pattern (case-insensitive, literal).
func (s *AnnotationStorage) SearchAnnotations(ctx context.Context, pattern string) ([]*models.AnnotationSet, error) {
	regex, err := regexp.Compile("(?i)" + regexp.QuoteMeta(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern: %w", err)
	}

	var sets []models.AnnotationSet
	query := badgerhold.Where("Annotations").MatchFunc(func(ra *badgerhold.RecordAccess) (bool, error) {
		annotations, ok := ra.Field().([]models.Annotation)
		if !ok {
			return false, nil
		}
		for _, a := range annotations {
			if annotationMatches(&a, regex) {
				return true, nil
			}
		}
		return false, nil
	})
	if err := s.db.Store().Find(&sets, query); err != nil {
		return nil, storageErr("search annotations", pattern, err)
	}
	return setPointers(sets), nil
}

func annotationMatches(a *models.Annotation, regex *regexp.Regexp) bool {
	return regex.MatchString(a.Quote) || regex.MatchString(a.Text) ||
		regex.MatchString(a.Note) || regex.MatchString(strings.Join(a.Tags, " "))
}

func setPointers(sets []models.AnnotationSet) []*models.AnnotationSet {
	result := make([]*models.AnnotationSet, len(sets))
	for i := range sets {
		result[i] = &sets[i]
	}
	return result
}
