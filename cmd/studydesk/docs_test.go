package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadContentFlag(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("from stdin\n"))

	got, err := readContentFlag(cmd, "inline")
	require.NoError(t, err)
	assert.Equal(t, "inline", got)

	got, err = readContentFlag(cmd, "-")
	require.NoError(t, err)
	assert.Equal(t, "from stdin\n", got)
}
