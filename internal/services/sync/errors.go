package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is recorded when the server answers 401
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrEndpointNotFound means every candidate path answered 404
	ErrEndpointNotFound = errors.New("endpoint not found")
)

// SyncError reports a failed remote operation. Status is the last HTTP
// status seen, or 0 for transport failures.
type SyncError struct {
	Op     string
	Status int
	Err    error
}

func (e *SyncError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("sync %s failed (HTTP %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("sync %s failed: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// IsSyncError reports whether err is or wraps a *SyncError
func IsSyncError(err error) bool {
	var syncErr *SyncError
	return errors.As(err, &syncErr)
}
