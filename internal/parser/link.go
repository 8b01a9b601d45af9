// internal/parser/link.go
package parser

import (
	"path"
	"strings"
)

// schemes we refuse to crawl
var badScheme = map[string]struct{}{
	"mailto":     {},
	"javascript": {},
	"tel":        {},
	"data":       {},
}

// DefaultSkipExtensions are binary assets never worth fetching as pages.
var DefaultSkipExtensions = []string{".pdf", ".jpg", ".jpeg", ".png", ".gif", ".zip"}

// acceptHref reports whether a raw href should be handed to the crawler.
func (h *HTML) acceptHref(raw string) bool {
	if raw == "" || strings.HasPrefix(raw, "#") {
		return false
	}
	lower := strings.ToLower(raw)

	if i := strings.IndexByte(lower, ':'); i > 0 {
		if _, bad := badScheme[lower[:i]]; bad {
			return false
		}
	}

	p := lower
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	ext := path.Ext(p)
	if ext == "" {
		return true
	}
	for _, skip := range h.skipExt {
		if ext == skip {
			return false
		}
	}
	return true
}
