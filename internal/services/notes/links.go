package notes

import (
	"regexp"
	"strings"
)

var wikilinkRe = regexp.MustCompile(`\[\[([^\[\]]+?)\]\]`)

// Source is any text that can carry [[wiki links]]: a meeting note or a page
type Source struct {
	ID      string
	Title   string
	Content string
}

// Link is one [[Title]] reference found in a source
type Link struct {
	From    string `json:"from"`
	ToTitle string `json:"toTitle"`
}

// LinkIndex holds every link plus the IDs linking to each title
type LinkIndex struct {
	Links     []Link              `json:"links"`
	Backlinks map[string][]string `json:"backlinks"`
}

// ParseWikilinks returns the trimmed targets of every [[...]] in md, in order
func ParseWikilinks(md string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(md, -1)
	targets := make([]string, 0, len(matches))
	for _, m := range matches {
		if target := strings.TrimSpace(m[1]); target != "" {
			targets = append(targets, target)
		}
	}
	return targets
}

// BuildIndex collects the links of every source. A source linking the same
// title twice is listed once under that title's backlinks.
func BuildIndex(sources []Source) *LinkIndex {
	index := &LinkIndex{Links: []Link{}, Backlinks: map[string][]string{}}
	for _, src := range sources {
		seen := map[string]bool{}
		for _, title := range ParseWikilinks(src.Content) {
			index.Links = append(index.Links, Link{From: src.ID, ToTitle: title})
			if seen[title] {
				continue
			}
			seen[title] = true
			index.Backlinks[title] = append(index.Backlinks[title], src.ID)
		}
	}
	return index
}

// BacklinksTo returns the IDs linking to title, matched case-insensitively
func (idx *LinkIndex) BacklinksTo(title string) []string {
	result := []string{}
	seen := map[string]bool{}
	for target, ids := range idx.Backlinks {
		if !strings.EqualFold(target, strings.TrimSpace(title)) {
			continue
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				result = append(result, id)
			}
		}
	}
	return result
}
