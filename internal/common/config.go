package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studydesk/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment" validate:"omitempty,oneof=development production test"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Sync        SyncConfig      `toml:"sync"`
	WebDAV      WebDAVConfig    `toml:"webdav"`
	Reminders   RemindersConfig `toml:"reminders"`
	Security    SecurityConfig  `toml:"security"`
	Export      ExportConfig    `toml:"export"`
}

type StorageConfig struct {
	Type          string       `toml:"type" validate:"omitempty,oneof=badger"`
	Badger        BadgerConfig `toml:"badger"`
	VariablesFile string       `toml:"variables_file"` // Optional TOML file of key/value pairs seeded at startup
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Directory for the badger files
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Wipe the database before opening
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Output     []string `toml:"output" validate:"dive,oneof=console stdout file"`
	File       string   `toml:"file"` // Relative paths resolve against the badger directory's parent
	TimeFormat string   `toml:"time_format"`
}

// SyncConfig configures the remote sync client. Empty path lists keep the
// built-in candidate order for that operation.
type SyncConfig struct {
	BaseURL   string          `toml:"base_url" validate:"omitempty,url"`
	Timeout   string          `toml:"timeout"`    // e.g. "15s"
	RateLimit int             `toml:"rate_limit"` // Requests per second, 0 disables limiting
	Paths     SyncPathsConfig `toml:"paths"`
}

type SyncPathsConfig struct {
	Me              []string `toml:"me"`
	Login           []string `toml:"login"`
	Register        []string `toml:"register"`
	DocsList        []string `toml:"docs_list"`
	DocsUpsert      []string `toml:"docs_upsert"`
	AnnotationsList []string `toml:"annotations_list"`
	AnnotationsUp   []string `toml:"annotations_upsert"`
}

type WebDAVConfig struct {
	Endpoint   string `toml:"endpoint" validate:"omitempty,url"`
	Username   string `toml:"username"`
	Password   string `toml:"password"` // May reference a stored key, e.g. "{webdav_password}"
	RemotePath string `toml:"remote_path"`
	Timeout    string `toml:"timeout"`
}

type RemindersConfig struct {
	Enabled     bool `toml:"enabled"`
	LeadMinutes int  `toml:"lead_minutes" validate:"min=0,max=1440"`
}

type SecurityConfig struct {
	PBKDF2Rounds int `toml:"pbkdf2_rounds" validate:"min=10000"`
}

type ExportConfig struct {
	DefaultFormat string `toml:"default_format" validate:"oneof=markdown pdf json"`
	OutputDir     string `toml:"output_dir"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "production",
		Storage: StorageConfig{
			Type: "badger",
			Badger: BadgerConfig{
				Path: "./data/studydesk",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"console"},
			File:       "logs/studydesk.log",
			TimeFormat: "15:04:05",
		},
		Sync: SyncConfig{
			Timeout:   "15s",
			RateLimit: 5,
		},
		WebDAV: WebDAVConfig{
			RemotePath: "studydesk/bundle.json",
			Timeout:    "30s",
		},
		Reminders: RemindersConfig{
			Enabled:     false,
			LeadMinutes: 15,
		},
		Security: SecurityConfig{
			PBKDF2Rounds: 210000,
		},
		Export: ExportConfig{
			DefaultFormat: "markdown",
			OutputDir:     ".",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> files (in order) -> {key} references from kv storage -> .env -> environment.
// Later files override earlier ones. kvStorage may be nil.
func LoadFromFiles(kvStorage interfaces.KeyValueStorage, paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if kvStorage != nil {
		if err := ResolveConfigReferences(context.Background(), config, kvStorage, arbor.NewLogger()); err != nil {
			return nil, err
		}
	}

	// A missing .env is normal
	_ = godotenv.Load()

	applyEnvOverrides(config)

	return config, nil
}

// ResolveConfigReferences replaces {key} references in config strings with
// values from kv storage. Unresolved references are left as-is.
func ResolveConfigReferences(ctx context.Context, config *Config, kvStorage interfaces.KeyValueStorage, logger arbor.ILogger) error {
	kvMap, err := kvStorage.GetAll(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to fetch key/value map for config references, skipping")
		return nil
	}
	if err := ReplaceInStruct(config, kvMap, logger); err != nil {
		return fmt.Errorf("failed to resolve config references: %w", err)
	}
	return nil
}

func applyEnvOverrides(config *Config) {
	if env := os.Getenv("STUDYDESK_ENV"); env != "" {
		config.Environment = env
	}

	if badgerPath := os.Getenv("STUDYDESK_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if reset := os.Getenv("STUDYDESK_BADGER_RESET"); reset != "" {
		if b, err := strconv.ParseBool(reset); err == nil {
			config.Storage.Badger.ResetOnStartup = b
		}
	}

	if level := os.Getenv("STUDYDESK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("STUDYDESK_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if baseURL := os.Getenv("STUDYDESK_SYNC_BASE_URL"); baseURL != "" {
		config.Sync.BaseURL = baseURL
	}
	if timeout := os.Getenv("STUDYDESK_SYNC_TIMEOUT"); timeout != "" {
		config.Sync.Timeout = timeout
	}
	if rateLimit := os.Getenv("STUDYDESK_SYNC_RATE_LIMIT"); rateLimit != "" {
		if n, err := strconv.Atoi(rateLimit); err == nil {
			config.Sync.RateLimit = n
		}
	}

	if endpoint := os.Getenv("STUDYDESK_WEBDAV_ENDPOINT"); endpoint != "" {
		config.WebDAV.Endpoint = endpoint
	}
	if username := os.Getenv("STUDYDESK_WEBDAV_USERNAME"); username != "" {
		config.WebDAV.Username = username
	}
	if password := os.Getenv("STUDYDESK_WEBDAV_PASSWORD"); password != "" {
		config.WebDAV.Password = password
	}
	if remotePath := os.Getenv("STUDYDESK_WEBDAV_REMOTE_PATH"); remotePath != "" {
		config.WebDAV.RemotePath = remotePath
	}

	if enabled := os.Getenv("STUDYDESK_REMINDERS_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Reminders.Enabled = b
		}
	}
	if lead := os.Getenv("STUDYDESK_REMINDERS_LEAD_MINUTES"); lead != "" {
		if n, err := strconv.Atoi(lead); err == nil {
			config.Reminders.LeadMinutes = n
		}
	}

	if rounds := os.Getenv("STUDYDESK_PBKDF2_ROUNDS"); rounds != "" {
		if n, err := strconv.Atoi(rounds); err == nil {
			config.Security.PBKDF2Rounds = n
		}
	}

	if format := os.Getenv("STUDYDESK_EXPORT_FORMAT"); format != "" {
		config.Export.DefaultFormat = format
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// Command-line flags have highest priority.
func ApplyFlagOverrides(config *Config, dataDir string, logLevel string, syncURL string) {
	if dataDir != "" {
		config.Storage.Badger.Path = dataDir
	}
	if logLevel != "" {
		config.Logging.Level = logLevel
	}
	if syncURL != "" {
		config.Sync.BaseURL = syncURL
	}
}

var configValidator = validator.New()

// Validate checks struct tags and the duration fields
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for name, value := range map[string]string{
		"sync.timeout":   c.Sync.Timeout,
		"webdav.timeout": c.WebDAV.Timeout,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid configuration: %s: %w", name, err)
		}
	}
	return nil
}

// SyncTimeout returns the parsed sync timeout, defaulting to 15s
func (c *Config) SyncTimeout() time.Duration {
	return parseDurationOr(c.Sync.Timeout, 15*time.Second)
}

// WebDAVTimeout returns the parsed WebDAV timeout, defaulting to 30s
func (c *Config) WebDAVTimeout() time.Duration {
	return parseDurationOr(c.WebDAV.Timeout, 30*time.Second)
}

// LogFilePath resolves the log file against the data directory's parent
func (c *Config) LogFilePath() string {
	if c.Logging.File == "" || filepath.IsAbs(c.Logging.File) {
		return c.Logging.File
	}
	return filepath.Join(filepath.Dir(c.Storage.Badger.Path), c.Logging.File)
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
