// Package canon turns raw links into the canonical string form used as the
// crawl's identity key, and maps canonical URLs to their domain.
package canon

import (
	"path"
	"regexp"
	"strings"
)

const schemeSep = "://"

// Canonicalize resolves link against base and normalises the result:
// lowercase, no query, no fragment, no trailing slash, no dot segments and no
// repeated path separators. Scheme-less results default to http. It never
// fails; malformed input degrades to a best-effort string.
func Canonicalize(link, base string) string {
	s := normalise(link)
	if base != "" && !hasScheme(s) {
		s = resolve(s, normalise(base))
	}
	if !hasScheme(s) {
		s = "http" + schemeSep + s
	}
	return settle(s)
}

// normalise trims, drops the query and fragment, and lowercases. Trimming
// runs again after the suffixes go so that blanks before them do not survive.
func normalise(s string) string {
	return strings.ToLower(strings.TrimSpace(stripSuffixes(strings.TrimSpace(s))))
}

// settle cleans the path until another round changes nothing. Each round
// only shortens s.
func settle(s string) string {
	for {
		next := strings.TrimSpace(cleanPath(s))
		if next == s {
			return s
		}
		s = next
	}
}

// stripSuffixes drops the query string and fragment.
func stripSuffixes(s string) string {
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	return s
}

// resolve joins a relative link onto base. Rooted links keep only the base's
// scheme and host; other links replace the base's last path segment.
func resolve(link, base string) string {
	proto := strings.Index(base, schemeSep)

	if strings.HasPrefix(link, "/") {
		if proto < 0 {
			return link
		}
		hostStart := proto + len(schemeSep)
		if end := strings.IndexByte(base[hostStart:], '/'); end >= 0 {
			return base[:hostStart+end] + link
		}
		return base + link
	}

	last := strings.LastIndexByte(base, '/')
	if proto >= 0 && last > proto+len(schemeSep)-1 {
		return base[:last+1] + link
	}
	if proto < 0 && last >= 0 {
		return base[:last+1] + link
	}
	return base + "/" + link
}

// cleanPath normalises everything after the host. The scheme separator is
// left alone.
func cleanPath(s string) string {
	i := strings.Index(s, schemeSep)
	if i < 0 {
		return s
	}
	prefix, rest := s[:i+len(schemeSep)], s[i+len(schemeSep):]

	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return s
	}
	host, p := rest[:slash], path.Clean(rest[slash:])
	if p == "/" {
		p = ""
	}
	if host == "" && p == "" {
		// nothing but a scheme; keep the separator intact
		return prefix
	}
	return prefix + host + p
}

// hasScheme reports whether s starts with "<scheme>://".
func hasScheme(s string) bool {
	i := strings.Index(s, schemeSep)
	if i <= 0 {
		return false
	}
	for j, r := range s[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

var domainRE = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://(?:www\.)?([^/:?#]+)(?:[/:?#]|$)`)

// ExtractDomain returns the lowercased host of url with any leading "www."
// removed, or "" when no host can be found.
func ExtractDomain(url string) string {
	m := domainRE.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}
