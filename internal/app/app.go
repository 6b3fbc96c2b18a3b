package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/security"
	"github.com/ternarybob/studydesk/internal/services/bundle"
	"github.com/ternarybob/studydesk/internal/services/exporter"
	"github.com/ternarybob/studydesk/internal/services/extract"
	"github.com/ternarybob/studydesk/internal/services/library"
	"github.com/ternarybob/studydesk/internal/services/pdf"
	"github.com/ternarybob/studydesk/internal/services/reminders"
	"github.com/ternarybob/studydesk/internal/services/search"
	"github.com/ternarybob/studydesk/internal/services/sync"
	"github.com/ternarybob/studydesk/internal/services/webdav"
	"github.com/ternarybob/studydesk/internal/storage"
	"github.com/ternarybob/studydesk/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager *badger.Manager
	Vault          *security.Vault

	// Local store and content services
	Store     *library.Service
	Extractor *extract.Service
	PDF       *pdf.Service
	Search    *search.Service

	// Transfer services
	SyncClient *sync.Client
	Sync       *sync.Service
	Bundle     *bundle.Service
	WebDAV     *webdav.Client
	Exporter   *exporter.Service

	Reminders *reminders.Service
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initSecurity(); err != nil {
		app.StorageManager.Close()
		return nil, fmt.Errorf("failed to initialize security: %w", err)
	}

	app.initServices()

	documents, err := app.StorageManager.DocumentStorage().CountDocuments(context.Background())
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to count documents")
	}

	logger.Info().
		Str("storage_path", cfg.Storage.Badger.Path).
		Int("documents", documents).
		Bool("encryption", app.Vault.Enabled()).
		Bool("sync_configured", cfg.Sync.BaseURL != "").
		Msg("Application initialized")

	return app, nil
}

func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	ctx := context.Background()
	if err := a.StorageManager.SeedDefaults(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to seed default values")
	}

	// Variables file first, .env second so .env wins
	if a.Config.Storage.VariablesFile != "" {
		if n, err := a.StorageManager.LoadVariablesFromFile(ctx, a.Config.Storage.VariablesFile); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to load variables file")
		} else {
			a.Logger.Debug().Int("count", n).Msg("Loaded variables file")
		}
	}
	if err := a.StorageManager.LoadEnvFile(ctx, ".env"); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to load .env file")
	}

	// {key} references in config resolve against the kv store
	if err := common.ResolveConfigReferences(ctx, a.Config, a.StorageManager.KeyValueStorage(), a.Logger); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to resolve config references")
	}

	return nil
}

func (a *App) initSecurity() error {
	a.Vault = security.NewVault(a.StorageManager.KeyValueStorage(), a.Config.Security.PBKDF2Rounds, a.Logger)
	if err := a.Vault.Load(context.Background()); err != nil {
		return err
	}
	a.StorageManager.SetSealer(a.Vault)
	return nil
}

func (a *App) initServices() {
	kv := a.StorageManager.KeyValueStorage()

	a.Extractor = extract.NewService(a.Logger)
	a.PDF = pdf.NewService(a.Logger)
	a.Store = library.NewService(a.StorageManager, a.Extractor, a.PDF, a.Logger)
	a.Search = search.NewService(a.Store, a.Logger)

	a.Bundle = bundle.NewService(a.Store, a.Logger)
	a.SyncClient = sync.NewClientFromConfig(a.Config, kv, a.Logger)
	a.Sync = sync.NewService(a.SyncClient, a.Store, kv, a.Logger)
	a.WebDAV = webdav.NewClient(kv, a.Config, a.Logger)
	a.Exporter = exporter.NewService(a.Store, a.PDF, a.Bundle, a.Logger)

	lead := time.Duration(a.Config.Reminders.LeadMinutes) * time.Minute
	a.Reminders = reminders.NewService(a.Store, nil, lead, a.Logger)
}

// FileStorage exposes blob storage for re-sealing
func (a *App) FileStorage() interfaces.FileStorage {
	return a.StorageManager.FileStorage()
}

// Close releases all application resources
func (a *App) Close() error {
	if a.Reminders != nil {
		a.Reminders.Stop()
	}

	if a.Vault != nil {
		a.Vault.Lock()
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
