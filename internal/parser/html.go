package parser

import (
	"bytes"
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkExtractor yields the raw anchor targets of a page. The sequence is
// finite and may be ranged over more than once.
type LinkExtractor interface {
	ExtractLinks(body []byte, base string) iter.Seq[string]
}

// HTML extracts <a href> targets with goquery. Hrefs are yielded raw, in
// document order, once per page; resolving them is the caller's job.
type HTML struct {
	skipExt []string
}

// Option configures an HTML extractor.
type Option func(*HTML)

// WithSkipExtensions replaces the list of path extensions to drop.
func WithSkipExtensions(exts ...string) Option {
	return func(h *HTML) {
		h.skipExt = make([]string, 0, len(exts))
		for _, e := range exts {
			e = strings.ToLower(strings.TrimSpace(e))
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			h.skipExt = append(h.skipExt, e)
		}
	}
}

// NewHTML returns an extractor with the default filters.
func NewHTML(opts ...Option) *HTML {
	h := &HTML{skipExt: DefaultSkipExtensions}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ExtractLinks parses body once and returns the accepted hrefs. This
// implementation does not resolve against the base URL.
func (h *HTML) ExtractLinks(body []byte, _ string) iter.Seq[string] {
	links := h.hrefs(body)
	return func(yield func(string) bool) {
		for _, l := range links {
			if !yield(l) {
				return
			}
		}
	}
}

func (h *HTML) hrefs(body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	links := make([]string, 0)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if !h.acceptHref(href) {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})
	return links
}
