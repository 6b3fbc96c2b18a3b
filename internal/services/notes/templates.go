package notes

import (
	"fmt"
	"strings"
)

// Template is a markdown skeleton for a new note
type Template struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

var templates = []Template{
	{
		ID:    "outline",
		Title: "Outline",
		Body:  "# Title\n\n## Main Points\n- \n- \n- \n\n## Takeaways\n- \n- \n",
	},
	{
		ID:    "study",
		Title: "Study Notes",
		Body:  "# Study Notes\n\n> Key Scripture: \n\n### Summary\n\n### Quotes\n- \n- \n\n### Application\n- \n- \n",
	},
	{
		ID:    "sermon",
		Title: "Sermon Outline",
		Body:  "# Sermon Outline\n\n**Theme:** \n**Speaker:** \n**Date:** \n\n## Introduction\n\n## Points\n1. \n2. \n3. \n\n## Scriptures\n- \n- \n- \n\n## Conclusion\n",
	},
	{
		ID:    "meeting",
		Title: "Meeting Notes",
		Body:  "# Meeting Notes\n\n**Type:** Midweek/Weekend\n**Date:** \n\n## Highlights\n- \n- \n\n## Scriptures\n- \n- \n\n## Tasks\n- [ ] \n- [ ] \n",
	},
}

// Templates returns the built-in note templates
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// TemplateByID looks up a template; a leading "/" is accepted
func TemplateByID(id string) (Template, error) {
	id = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(id), "/"))
	for _, t := range templates {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("unknown template %q", id)
}
