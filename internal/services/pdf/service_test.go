package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestConvertMarkdownToPDF(t *testing.T) {
	service := NewService(arbor.NewLogger())

	tests := []struct {
		name     string
		markdown string
	}{
		{"empty", ""},
		{"highlights", "# Study Companion Export\n\n## Romans\n\n> Faith comes from hearing\n\n- note one\n- note two\n"},
		{"ordered and nested", "1. first\n2. second\n   - inner\n"},
		{"table and code", "| Day | Time |\n|-----|------|\n| Wed | 19:00 |\n\n```\nplain block\n```\n"},
		{"styling", "Normal **Bold** *Italic* ***Both*** `code` ~~gone~~\n\n---\n"},
		{"frontmatter", "---\ntitle: x\n---\n# Heading\n"},
		{"accents", "Café – “quoted”"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdf, err := service.ConvertMarkdownToPDF(tt.markdown, "Study")
			require.NoError(t, err)
			assert.True(t, len(pdf) > 0)
			assert.Equal(t, "%PDF", string(pdf[:4]))
		})
	}
}

func TestInspect_GeneratedPDF(t *testing.T) {
	service := NewService(arbor.NewLogger())

	pdf, err := service.ConvertMarkdownToPDF("# One\n\nbody", "Single")
	require.NoError(t, err)

	info, err := service.Inspect(pdf)
	require.NoError(t, err)
	assert.Equal(t, 1, info.PageCount)
	assert.False(t, info.Encrypted)
	assert.NotEmpty(t, info.Version)
}

func TestInspect_RejectsGarbage(t *testing.T) {
	service := NewService(arbor.NewLogger())

	_, err := service.Inspect(nil)
	assert.Error(t, err)

	_, err = service.Inspect([]byte("not a pdf"))
	assert.Error(t, err)
}

func TestStripFrontmatter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"none", "# Title", "# Title"},
		{"block", "---\na: 1\n---\n# Title", "# Title"},
		{"unterminated", "---\na: 1\n# Title", "---\na: 1\n# Title"},
		{"crlf", "---\r\na: 1\r\n---\r\nbody", "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFrontmatter(tt.in))
		})
	}
}
