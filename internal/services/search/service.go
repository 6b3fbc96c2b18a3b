// Package search runs case-insensitive queries over document titles,
// extracted bodies and annotations, and executes saved searches.
package search

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
)

// ErrSavedSearchNotFound is returned by RunSaved for an unknown id
var ErrSavedSearchNotFound = errors.New("saved search not found")

const snippetRadius = 60

// Service implements interfaces.SearchService
type Service struct {
	store  interfaces.LocalStore
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.SearchService = (*Service)(nil)

func NewService(store interfaces.LocalStore, logger arbor.ILogger) *Service {
	return &Service{store: store, logger: logger}
}

// Search matches records containing every term and phrase of the query and
// none of its excluded terms. Inline qualifiers (tag:, kind:, type:, doc:)
// add filters; explicit options win. An empty query matches everything the
// filters allow.
func (s *Service) Search(ctx context.Context, query string, opts models.SearchOptions) ([]models.SearchResult, error) {
	q := parseQuery(query)
	filters := q.filters
	for k, v := range opts.Filters {
		if v != "" {
			filters[k] = v
		}
	}
	kind := models.SearchResultKind(filters["kind"])

	docs, err := s.store.GetDocuments(ctx)
	if err != nil {
		return nil, err
	}
	docsByID := make(map[string]*models.Document, len(docs))
	for _, d := range docs {
		docsByID[d.ID] = d
	}

	// The store narrows candidates by the most selective term; every term
	// and exclusion is then checked here
	anchor := q.anchor()

	results := []models.SearchResult{}
	if kind == "" || kind == models.SearchResultDocument {
		candidates, err := s.store.FindDocumentsByText(ctx, anchor)
		if err != nil {
			return nil, err
		}
		hits, err := s.searchDocuments(ctx, candidates, q, filters, opts.IncludeTrashed)
		if err != nil {
			return nil, err
		}
		results = append(results, hits...)
	}
	if kind == "" || kind == models.SearchResultAnnotation {
		candidates, err := s.store.FindAnnotationsByText(ctx, anchor)
		if err != nil {
			return nil, err
		}
		results = append(results, s.searchAnnotations(candidates, docsByID, q, filters, opts.IncludeTrashed)...)
	}

	sortResults(results, opts.Sort)
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	s.logger.Debug().
		Str("query", query).
		Int("results", len(results)).
		Msg("Search completed")
	return results, nil
}

// RunSaved executes a stored query with its filters and sort order
func (s *Service) RunSaved(ctx context.Context, id string) ([]models.SearchResult, error) {
	saved, err := s.store.GetSavedSearch(ctx, id)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, ErrSavedSearchNotFound
	}
	return s.Search(ctx, saved.Query, models.SearchOptions{
		Filters: saved.Filters,
		Sort:    saved.Sort,
	})
}

func (s *Service) searchDocuments(ctx context.Context, docs []*models.Document, q parsedQuery, filters map[string]string, includeTrashed bool) ([]models.SearchResult, error) {
	// tags only exist on annotations
	if filters["tag"] != "" {
		return nil, nil
	}

	var results []models.SearchResult
	for _, doc := range docs {
		if doc.IsTrashed() && !includeTrashed {
			continue
		}
		if t := filters["type"]; t != "" && string(doc.Type) != t {
			continue
		}
		if id := filters["documentId"]; id != "" && doc.ID != id {
			continue
		}

		text := ""
		body, err := s.store.GetDocumentBody(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
		if body != nil {
			text = body.Text
		}

		if !q.matches(doc.Title, text) {
			continue
		}
		snippet := snippetFor(text, q.terms)
		if snippet == "" {
			snippet = doc.Title
		}
		results = append(results, models.SearchResult{
			Kind:       models.SearchResultDocument,
			DocumentID: doc.ID,
			Title:      doc.Title,
			Snippet:    snippet,
			UpdatedAt:  doc.UpdatedAt,
		})
	}
	return results, nil
}

func (s *Service) searchAnnotations(annotations []models.Annotation, docs map[string]*models.Document, q parsedQuery, filters map[string]string, includeTrashed bool) []models.SearchResult {
	var results []models.SearchResult
	for _, a := range annotations {
		doc := docs[a.DocumentID]
		if doc != nil && doc.IsTrashed() && !includeTrashed {
			continue
		}
		if t := filters["type"]; t != "" && (doc == nil || string(doc.Type) != t) {
			continue
		}
		if id := filters["documentId"]; id != "" && a.DocumentID != id {
			continue
		}
		if tag := filters["tag"]; tag != "" && !hasTag(a.Tags, tag) {
			continue
		}
		if !q.matches(a.Quote, a.Text, a.Note, strings.Join(a.Tags, " "), a.DocTitle) {
			continue
		}

		snippet := snippetFor(a.Body(), q.terms)
		if snippet == "" {
			snippet = a.Body()
		}
		results = append(results, models.SearchResult{
			Kind:         models.SearchResultAnnotation,
			DocumentID:   a.DocumentID,
			AnnotationID: a.ID,
			Title:        a.DocTitle,
			Snippet:      snippet,
			UpdatedAt:    a.UpdatedAt,
		})
	}
	return results
}

// anchor is the longest required term, or "" when there is none
func (q parsedQuery) anchor() string {
	anchor := ""
	for _, term := range q.terms {
		if len(term) > len(anchor) {
			anchor = term
		}
	}
	return anchor
}

func (q parsedQuery) matches(fields ...string) bool {
	if len(q.terms) == 0 && len(q.excluded) == 0 {
		return true
	}
	haystack := strings.ToLower(strings.Join(fields, "\n"))
	for _, term := range q.terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	for _, term := range q.excluded {
		if strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// snippetFor cuts a window of text around the first matching term
func snippetFor(text string, terms []string) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	lower := []rune(strings.ToLower(text))
	if len(lower) != len(runes) {
		lower = runes
	}

	at := -1
	for _, term := range terms {
		if i := strings.Index(string(lower), term); i >= 0 {
			at = len([]rune(string(lower)[:i]))
			break
		}
	}
	if at < 0 {
		if len(terms) > 0 {
			return ""
		}
		at = 0
	}

	start := max(0, at-snippetRadius)
	end := min(len(runes), at+snippetRadius)
	snippet := strings.Join(strings.Fields(string(runes[start:end])), " ")
	if start > 0 {
		snippet = "…" + snippet
	}
	if end < len(runes) {
		snippet += "…"
	}
	return snippet
}

func sortResults(results []models.SearchResult, order models.SavedSearchSort) {
	switch order {
	case models.SavedSearchSortOldest:
		sort.SliceStable(results, func(i, j int) bool { return results[i].UpdatedAt.Before(results[j].UpdatedAt) })
	case models.SavedSearchSortTitle:
		sort.SliceStable(results, func(i, j int) bool {
			return strings.ToLower(results[i].Title) < strings.ToLower(results[j].Title)
		})
	default:
		sort.SliceStable(results, func(i, j int) bool { return results[i].UpdatedAt.After(results[j].UpdatedAt) })
	}
}
