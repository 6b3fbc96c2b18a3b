package sync

import "github.com/ternarybob/studydesk/internal/common"

// Paths holds the ordered candidate URL paths for each remote operation.
// The server's exact shape is unknown, so each is tried in turn.
type Paths struct {
	Me              []string
	Login           []string
	Register        []string
	DocsList        []string
	DocsUpsert      []string
	AnnotationsList []string
	AnnotationsUp   []string
}

// DefaultPaths returns the built-in candidate lists
func DefaultPaths() Paths {
	return Paths{
		Me:              []string{"/api/me", "/auth/me", "/api/auth/me", "/me"},
		Login:           []string{"/api/auth/login", "/auth/login", "/login", "/api/login"},
		Register:        []string{"/api/auth/register", "/auth/register", "/register", "/api/register"},
		DocsList:        []string{"/api/sync/docs", "/sync/docs", "/api/docs", "/docs"},
		DocsUpsert:      []string{"/api/sync/docs/upsert", "/sync/docs/upsert", "/api/docs/upsert", "/docs/upsert"},
		AnnotationsList: []string{"/api/sync/annotations", "/sync/annotations", "/api/annotations", "/annotations"},
		AnnotationsUp:   []string{"/api/sync/annotations/upsert", "/sync/annotations/upsert", "/api/annotations/upsert", "/annotations/upsert"},
	}
}

// PathsFromConfig overlays the configured lists onto the defaults. An empty
// list keeps the default for that operation.
func PathsFromConfig(cfg common.SyncPathsConfig) Paths {
	p := DefaultPaths()
	overlay := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = append([]string(nil), src...)
		}
	}
	overlay(&p.Me, cfg.Me)
	overlay(&p.Login, cfg.Login)
	overlay(&p.Register, cfg.Register)
	overlay(&p.DocsList, cfg.DocsList)
	overlay(&p.DocsUpsert, cfg.DocsUpsert)
	overlay(&p.AnnotationsList, cfg.AnnotationsList)
	overlay(&p.AnnotationsUp, cfg.AnnotationsUp)
	return p
}
