package badger

import (
	"context"
	"errors"
	"io/fs"
	"sort"

	"github.com/joho/godotenv"
)

// LoadEnvFile copies the variables of a .env file into kv storage so
// config values can reference them as {KEY}. A missing file is not an
// error; empty values are skipped.
func (m *Manager) LoadEnvFile(ctx context.Context, filePath string) error {
	vars, err := godotenv.Read(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Debug().Str("file", filePath).Msg(".env file does not exist, skipping")
			return nil
		}
		m.logger.Warn().Err(err).Str("file", filePath).Msg("Failed to read .env file")
		return nil
	}

	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	loaded, skipped := 0, 0
	for _, key := range keys {
		value := vars[key]
		if value == "" {
			m.logger.Warn().Str("file", filePath).Str("key", key).Msg("Skipping variable with empty value")
			skipped++
			continue
		}
		if err := m.kv.Set(ctx, key, value, "Loaded from .env file"); err != nil {
			return err
		}
		loaded++
	}

	m.logger.Debug().
		Str("file", filePath).
		Int("loaded", loaded).
		Int("skipped", skipped).
		Msg("Finished loading variables from .env file")
	return nil
}
