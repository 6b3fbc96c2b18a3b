package interfaces

import (
	"context"

	"github.com/ternarybob/studydesk/internal/models"
)

// TextExtractor turns a stored document file into searchable plain text
type TextExtractor interface {
	Extract(ctx context.Context, docType models.DocumentType, data []byte) (string, error)
}
