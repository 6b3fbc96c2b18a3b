package interfaces

import (
	"context"

	"github.com/ternarybob/studydesk/internal/models"
)

// SearchService runs full-text queries over titles, bodies and annotations
type SearchService interface {
	Search(ctx context.Context, query string, opts models.SearchOptions) ([]models.SearchResult, error)
	RunSaved(ctx context.Context, id string) ([]models.SearchResult, error)
}
