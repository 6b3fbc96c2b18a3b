package badger

import (
	"context"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// VariableFile represents one entry of a variables TOML file:
//
//	[webdav_password]
//	value = "s3cret"
//	description = "WebDAV app password"
type VariableFile struct {
	Value       string `toml:"value"`
	Description string `toml:"description"`
}

// LoadVariablesFromFile seeds kv storage from a TOML file. Existing keys
// are overwritten. Returns the number of keys written.
func (m *Manager) LoadVariablesFromFile(ctx context.Context, filePath string) (int, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read variables file %s: %w", filePath, err)
	}

	var variables map[string]VariableFile
	if err := toml.Unmarshal(content, &variables); err != nil {
		return 0, fmt.Errorf("failed to parse variables file %s: %w", filePath, err)
	}

	loaded := 0
	for key, v := range variables {
		if v.Value == "" {
			m.logger.Warn().Str("key", key).Str("file", filePath).Msg("Skipping variable with empty value")
			continue
		}
		if err := m.kv.Set(ctx, key, v.Value, v.Description); err != nil {
			return loaded, err
		}
		loaded++
	}

	m.logger.Debug().Int("loaded", loaded).Str("file", filePath).Msg("Loaded variables from file")
	return loaded, nil
}
