package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/app"
	"github.com/ternarybob/studydesk/internal/common"
)

var (
	// Command-line flags
	configFiles []string
	dataDir     string
	logLevel    string
	syncURL     string
	passphrase  string
	quiet       bool

	// Global state
	config      *common.Config
	logger      arbor.ILogger
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "studydesk",
	Short: "Local-first study companion",
	Long: `studydesk keeps documents, highlights, meeting notes and schedules in a
local database and syncs them with a remote service or a WebDAV share when asked.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (repeatable, later files override earlier ones)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Badger data directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&syncURL, "sync-url", "", "Sync service base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&passphrase, "passphrase", os.Getenv("STUDYDESK_PASSPHRASE"), "Passphrase for encrypted file storage")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the banner")

	rootCmd.AddCommand(
		docsCmd,
		annotationsCmd,
		notesCmd,
		scheduleCmd,
		favoritesCmd,
		bundleCmd,
		syncCmd,
		webdavCmd,
		exportCmd,
		remindCmd,
		searchCmd,
		securityCmd,
		versionCmd,
	)
}

// setup runs the startup sequence: config, flag overrides, logger, banner, app
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
		return nil
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("studydesk.toml"); err == nil {
			configFiles = append(configFiles, "studydesk.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(nil, configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	common.ApplyFlagOverrides(config, dataDir, logLevel, syncURL)
	if err := config.Validate(); err != nil {
		return err
	}

	logger = common.SetupLogger(config)
	common.SetupCrashDir(config)
	if !quiet {
		common.PrintBanner(common.GetVersion())
	}

	logger.Debug().
		Strs("config_files", configFiles).
		Str("storage_path", config.Storage.Badger.Path).
		Str("log_level", config.Logging.Level).
		Str("sync_url", config.Sync.BaseURL).
		Msg("Resolved configuration")

	application, err = app.New(config, logger)
	if err != nil {
		return err
	}

	if passphrase != "" && application.Vault.Enabled() {
		if err := application.Vault.Resume(cmd.Context(), passphrase); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	defer common.RecoverWithCrashFile()

	err := rootCmd.ExecuteContext(context.Background())

	// Close before exit so badger flushes on failed commands too
	if application != nil {
		if closeErr := application.Close(); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("Failed to close application")
		}
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
