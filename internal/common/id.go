package common

import (
	"github.com/google/uuid"
)

// ID prefixes for generated record identifiers
const (
	DocumentIDPrefix    = "doc"
	AnnotationIDPrefix  = "ann"
	BookmarkIDPrefix    = "bm"
	MeetingNoteIDPrefix = "meet"
	SavedSearchIDPrefix = "search"
)

// GenerateID returns "<prefix>_<uuid>". A v4 UUID carries 122 random bits so
// no uniqueness check is made here.
func GenerateID(prefix string) string {
	return prefix + "_" + uuid.New().String()
}
