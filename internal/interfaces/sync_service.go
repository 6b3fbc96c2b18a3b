package interfaces

import (
	"context"

	"github.com/ternarybob/studydesk/internal/models"
)

// SyncService reconciles the Local Store with the remote service. Syncs
// run on sign-in or when the user asks; nothing runs in the background.
type SyncService interface {
	// Login and Register run a sync after a successful sign-in. When that
	// sync fails the user is still returned with the error.
	Login(ctx context.Context, email, password string) (*models.User, *models.SyncReport, error)
	Register(ctx context.Context, email, password, name string) (*models.User, *models.SyncReport, error)
	Me(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
	Sync(ctx context.Context) (*models.SyncReport, error)
}

// BundleService exports and imports the whole local library as one file
type BundleService interface {
	Export(ctx context.Context) (*models.Bundle, error)
	Import(ctx context.Context, data []byte) (*models.ImportReport, error)
}
