// Package notes converts meeting notes to and from markdown files with a
// YAML front matter header.
package notes

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/studydesk/internal/models"
	"gopkg.in/yaml.v3"
)

const fence = "---"

type frontMatter struct {
	ID    string             `yaml:"id,omitempty"`
	Title string             `yaml:"title,omitempty"`
	Date  string             `yaml:"date,omitempty"`
	Type  models.MeetingType `yaml:"type,omitempty"`
	Tags  []string           `yaml:"tags,omitempty"`
}

var (
	unsafeName = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	headingRe  = regexp.MustCompile(`(?m)^#\s+(.+?)\s*$`)
)

// Render writes the note as front matter followed by its markdown content
func Render(note *models.MeetingNote) ([]byte, error) {
	header, err := yaml.Marshal(frontMatter{
		ID:    note.ID,
		Title: note.Title,
		Date:  note.Date,
		Type:  note.Type,
		Tags:  note.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	buf.Write(header)
	buf.WriteString(fence + "\n\n")
	buf.WriteString(strings.TrimRight(note.Content, "\n"))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// Parse reads a note written by Render. Files without front matter are
// accepted: the first "# " heading becomes the title.
func Parse(data []byte) (*models.MeetingNote, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")

	note := &models.MeetingNote{}
	body := text
	if strings.HasPrefix(text, fence+"\n") {
		rest := text[len(fence)+1:]
		end := strings.Index(rest, "\n"+fence+"\n")
		closing := len(fence) + 2
		if end < 0 && strings.HasSuffix(rest, "\n"+fence) {
			end = len(rest) - len(fence) - 1
			closing = len(fence) + 1
		}
		if end < 0 {
			return nil, fmt.Errorf("unterminated front matter")
		}

		var fm frontMatter
		if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
			return nil, fmt.Errorf("failed to decode front matter: %w", err)
		}
		note.ID = fm.ID
		note.Title = fm.Title
		note.Date = fm.Date
		note.Type = fm.Type
		note.Tags = fm.Tags
		body = rest[end+closing:]
	}

	note.Content = strings.TrimSpace(body)
	if note.Title == "" {
		if m := headingRe.FindStringSubmatch(note.Content); m != nil {
			note.Title = m[1]
		}
	}
	return note, nil
}

// FileName builds a safe markdown file name from the note title
func FileName(note *models.MeetingNote) string {
	name := strings.Trim(unsafeName.ReplaceAllString(note.Title, "-"), "-")
	if name == "" {
		name = "note"
	}
	if note.Date != "" {
		name = note.Date + "-" + name
	}
	return name + ".md"
}
