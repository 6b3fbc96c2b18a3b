package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/studydesk/internal/models"
)

func TestNoteBody(t *testing.T) {
	body, err := noteBody("my notes", "sermon")
	require.NoError(t, err)
	assert.Equal(t, "my notes", body)

	body, err = noteBody("", "")
	require.NoError(t, err)
	assert.Empty(t, body)

	body, err = noteBody("", "meeting")
	require.NoError(t, err)
	assert.Contains(t, body, "# Meeting Notes")

	_, err = noteBody("", "nope")
	assert.Error(t, err)
}

func TestLinkSources(t *testing.T) {
	sources, titles := linkSources(
		[]*models.MeetingNote{{ID: "meet_1", Title: "Midweek", Content: "[[Faith]]"}},
		[]*models.Document{
			{ID: "doc_1", Title: "Faith", Content: "[[Hope]]"},
			{ID: "doc_2", Title: "Imported.pdf"},
		},
	)

	require.Len(t, sources, 2)
	assert.Equal(t, "meet_1", sources[0].ID)
	assert.Equal(t, "doc_1", sources[1].ID)
	assert.Equal(t, map[string]string{"meet_1": "Midweek", "doc_1": "Faith"}, titles)
}
