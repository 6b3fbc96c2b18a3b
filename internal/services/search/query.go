package search

import (
	"strings"
	"unicode"
)

// parsedQuery is a parsed search string. Terms and phrases are lowercased and
// all of them must match; excluded terms must not.
type parsedQuery struct {
	terms    []string
	excluded []string
	filters  map[string]string
}

// qualifierKeys maps the key:value qualifiers accepted inline to filter
// names. Anything else containing a colon is an ordinary term, so
// references like "3:16" stay searchable.
var qualifierKeys = map[string]string{
	"type":       "type",
	"kind":       "kind",
	"tag":        "tag",
	"doc":        "documentId",
	"documentid": "documentId",
}

// parseQuery splits s on whitespace, keeping "quoted phrases" together.
// A leading - excludes a term; + is accepted and ignored since every term
// is required.
func parseQuery(s string) parsedQuery {
	q := parsedQuery{filters: map[string]string{}}

	var (
		current  strings.Builder
		inQuote  bool
		escaped  bool
		negated  bool
		isPhrase bool
	)
	flush := func() {
		if current.Len() == 0 {
			negated, isPhrase = false, false
			return
		}
		value := current.String()
		current.Reset()

		if !isPhrase {
			if key, v, ok := qualifier(value); ok && !negated {
				q.filters[key] = v
				negated = false
				return
			}
		}
		value = strings.ToLower(value)
		if negated {
			q.excluded = append(q.excluded, value)
		} else {
			q.terms = append(q.terms, value)
		}
		negated, isPhrase = false, false
	}

	for _, ch := range strings.TrimSpace(s) {
		switch {
		case escaped:
			current.WriteRune(ch)
			escaped = false
		case inQuote && ch == '\\':
			escaped = true
		case ch == '"':
			if inQuote {
				flush()
				inQuote = false
			} else {
				if current.Len() > 0 {
					flush()
				}
				inQuote, isPhrase = true, true
			}
		case inQuote:
			current.WriteRune(ch)
		case unicode.IsSpace(ch):
			flush()
		case current.Len() == 0 && ch == '-':
			negated = true
		case current.Len() == 0 && ch == '+':
		default:
			current.WriteRune(ch)
		}
	}
	flush()
	return q
}

func qualifier(token string) (string, string, bool) {
	key, value, ok := strings.Cut(token, ":")
	if !ok || key == "" || value == "" || strings.Contains(value, ":") {
		return "", "", false
	}
	filter, known := qualifierKeys[strings.ToLower(key)]
	if !known {
		return "", "", false
	}
	return filter, value, true
}
