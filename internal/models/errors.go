package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDocument is returned when a document fails validation before save
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidScheduleKind is returned for schedule kinds other than midweek/weekend
	ErrInvalidScheduleKind = errors.New("invalid schedule kind")

	// ErrInvalidScheduleEntry is returned when a schedule entry has a bad day or time
	ErrInvalidScheduleEntry = errors.New("invalid schedule entry")
)

// StorageError is a failure of the underlying storage substrate
// (disk full, corruption, closed database). Not-found is never a StorageError.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err wraps a StorageError
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
