package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		terms    []string
		excluded []string
		filters  map[string]string
	}{
		{"empty", "   ", nil, nil, map[string]string{}},
		{"words lowercased", "Faith  HOPE", []string{"faith", "hope"}, nil, map[string]string{}},
		{"phrase", `"faith comes" hearing`, []string{"faith comes", "hearing"}, nil, map[string]string{}},
		{"unclosed phrase", `"love is patient`, []string{"love is patient"}, nil, map[string]string{}},
		{"escaped quote", `"say \"amen\""`, []string{`say "amen"`}, nil, map[string]string{}},
		{"exclusion", "faith -works", []string{"faith"}, []string{"works"}, map[string]string{}},
		{"required prefix ignored", "+faith", []string{"faith"}, nil, map[string]string{}},
		{"qualifiers", "tag:hope kind:annotation doc:doc_1 endurance", []string{"endurance"}, nil,
			map[string]string{"tag": "hope", "kind": "annotation", "documentId": "doc_1"}},
		{"scripture reference is a term", "John 3:16", []string{"john", "3:16"}, nil, map[string]string{}},
		{"unknown key is a term", "author:paul", []string{"author:paul"}, nil, map[string]string{}},
		{"quoted qualifier is a phrase", `"type:pdf"`, []string{"type:pdf"}, nil, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := parseQuery(tt.input)
			assert.Equal(t, tt.terms, q.terms)
			assert.Equal(t, tt.excluded, q.excluded)
			assert.Equal(t, tt.filters, q.filters)
		})
	}
}
