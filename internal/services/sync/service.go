package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
)

// Service reconciles the Local Store with the remote service.
//
// Push overwrites the remote unconditionally. Pull only adds records whose
// IDs the local side has never seen and never updates a known record, so
// a push followed by a pull cannot duplicate anything.
type Service struct {
	client *Client
	store  interfaces.LocalStore
	kv     interfaces.KeyValueStorage
	logger arbor.ILogger
	now    func() time.Time
}

// Compile-time assertion
var _ interfaces.SyncService = (*Service)(nil)

// NewService creates the sync service. kv records the last sync time and may be nil.
func NewService(client *Client, store interfaces.LocalStore, kv interfaces.KeyValueStorage, logger arbor.ILogger) *Service {
	return &Service{
		client: client,
		store:  store,
		kv:     kv,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Login signs in and then runs a sync. A failed sync does not undo the
// sign-in: the user is returned together with the sync error.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, *models.SyncReport, error) {
	user, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info().Str("email", user.Email).Str("server", s.client.BaseURL()).Msg("Signed in")
	report, err := s.syncAfterSignIn(ctx)
	return user, report, err
}

// Register creates the account and syncs like Login
func (s *Service) Register(ctx context.Context, email, password, name string) (*models.User, *models.SyncReport, error) {
	user, err := s.client.Register(ctx, email, password, name)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info().Str("email", user.Email).Str("server", s.client.BaseURL()).Msg("Account registered")
	report, err := s.syncAfterSignIn(ctx)
	return user, report, err
}

func (s *Service) syncAfterSignIn(ctx context.Context) (*models.SyncReport, error) {
	report, err := s.Sync(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Sync after sign-in failed")
		return report, fmt.Errorf("signed in, but sync failed: %w", err)
	}
	return report, nil
}

func (s *Service) Me(ctx context.Context) (*models.User, error) {
	return s.client.Me(ctx)
}

func (s *Service) Logout(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		return err
	}
	s.logger.Info().Msg("Signed out")
	return nil
}

func (s *Service) IsAuthenticated(ctx context.Context) bool {
	return s.client.IsAuthenticated(ctx)
}

// Sync pushes every local document and annotation, then pulls remote
// records with unseen IDs. The first error aborts the run; whatever was
// applied before it stays applied.
func (s *Service) Sync(ctx context.Context) (*models.SyncReport, error) {
	start := time.Now()
	report := &models.SyncReport{}

	s.logger.Info().Str("server", s.client.BaseURL()).Msg("Sync started")

	docs, err := s.store.GetDocuments(ctx)
	if err != nil {
		return report, err
	}

	if err := s.push(ctx, docs, report); err != nil {
		report.Duration = time.Since(start)
		return report, err
	}
	if err := s.pull(ctx, docs, report); err != nil {
		report.Duration = time.Since(start)
		return report, err
	}

	report.Duration = time.Since(start)
	if s.kv != nil {
		if err := s.kv.Set(ctx, common.KeyLastSync, s.now().Format(time.RFC3339), "Time of the last completed sync"); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to record last sync time")
		}
	}

	s.logger.Info().
		Int("pushed_docs", report.PushedDocuments).
		Int("pushed_annotations", report.PushedAnnotations).
		Int("pulled_docs", report.PulledDocuments).
		Int("pulled_annotations", report.PulledAnnotations).
		Int("skipped_orphans", report.SkippedOrphans).
		Str("duration", report.Duration.String()).
		Msg("Sync completed")
	return report, nil
}

func (s *Service) push(ctx context.Context, docs []*models.Document, report *models.SyncReport) error {
	for _, doc := range docs {
		pushed, err := s.client.UpsertDocument(ctx, models.NewRemoteDocument(doc))
		if err != nil {
			return err
		}
		if pushed {
			report.PushedDocuments++
		}

		annotations, err := s.store.GetAnnotations(ctx, doc.ID)
		if err != nil {
			return err
		}
		for i := range annotations {
			pushed, err := s.client.UpsertAnnotation(ctx, models.NewRemoteAnnotation(&annotations[i]))
			if err != nil {
				return err
			}
			if pushed {
				report.PushedAnnotations++
			}
		}
	}
	return nil
}

func (s *Service) pull(ctx context.Context, docs []*models.Document, report *models.SyncReport) error {
	known := make(map[string]bool, len(docs))
	for _, doc := range docs {
		known[doc.ID] = true
	}

	remoteDocs, err := s.client.ListDocuments(ctx)
	if err != nil {
		return err
	}
	for _, remote := range remoteDocs {
		if remote.ID == "" || known[remote.ID] {
			continue
		}
		if err := s.store.PutDocument(ctx, remote.Document(s.now())); err != nil {
			return err
		}
		known[remote.ID] = true
		report.PulledDocuments++
	}

	remoteAnnotations, err := s.client.ListAnnotations(ctx)
	if err != nil {
		return err
	}

	// Group by owner, keeping server order within each document
	byDoc := make(map[string][]models.RemoteAnnotation)
	order := []string{}
	for _, remote := range remoteAnnotations {
		if remote.ID == "" {
			continue
		}
		if !known[remote.DocID] {
			report.SkippedOrphans++
			continue
		}
		if _, ok := byDoc[remote.DocID]; !ok {
			order = append(order, remote.DocID)
		}
		byDoc[remote.DocID] = append(byDoc[remote.DocID], remote)
	}

	for _, docID := range order {
		incoming := byDoc[docID]
		added := 0
		err := s.store.UpdateAnnotations(ctx, docID, func(current []models.Annotation) ([]models.Annotation, error) {
			seen := make(map[string]bool, len(current))
			for _, a := range current {
				seen[a.ID] = true
			}
			for _, remote := range incoming {
				if seen[remote.ID] {
					continue
				}
				seen[remote.ID] = true
				current = append(current, remote.Annotation(s.now()))
				added++
			}
			return current, nil
		})
		if err != nil {
			return err
		}
		report.PulledAnnotations += added
	}
	return nil
}
