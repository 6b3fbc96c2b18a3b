package security

import (
	"context"
	"fmt"

	"github.com/ternarybob/studydesk/internal/interfaces"
)

// Reseal reads every stored blob, applies change and writes the blobs back
// so they match the new vault state. Use it around Enable and Disable.
// Blobs are held in memory for the swap.
func Reseal(ctx context.Context, files interfaces.FileStorage, change func() error) (int, error) {
	keys, err := files.ListFileKeys(ctx)
	if err != nil {
		return 0, err
	}

	blobs := make(map[string][]byte, len(keys))
	for _, key := range keys {
		data, err := files.GetFile(ctx, key)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", key, err)
		}
		blobs[key] = data
	}

	if err := change(); err != nil {
		return 0, err
	}

	written := 0
	for key, data := range blobs {
		if err := files.SaveFile(ctx, key, data); err != nil {
			return written, fmt.Errorf("failed to rewrite %s: %w", key, err)
		}
		written++
	}
	return written, nil
}
