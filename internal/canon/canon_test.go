package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		link string
		base string
		want string
	}{
		{"rooted relative", "/foo", "http://a.com/bar/baz", "http://a.com/foo"},
		{"sibling relative", "foo", "http://a.com/bar/baz", "http://a.com/bar/foo"},
		{"relative against bare host", "foo", "http://a.com", "http://a.com/foo"},
		{"rooted against bare host", "/foo", "http://a.com", "http://a.com/foo"},
		{"query and fragment", "http://A.com/Page?x=1#frag", "", "http://a.com/page"},
		{"fragment before query", "http://a.com/p#x?y", "", "http://a.com/p"},
		{"trailing slash", "http://a.com/p/", "", "http://a.com/p"},
		{"root slash", "http://a.com/", "", "http://a.com"},
		{"lone slash against base", "/", "https://a.com/x/y", "https://a.com"},
		{"missing scheme", "example.com/x", "", "http://example.com/x"},
		{"repeated separators", "http://a.com//x///y", "", "http://a.com/x/y"},
		{"dot segments", "../c/./d", "http://a.com/x/y/z", "http://a.com/x/c/d"},
		{"absolute ignores base", "HTTPS://B.org/Q", "http://a.com/x", "https://b.org/q"},
		{"whitespace", "  /x  ", "http://a.com", "http://a.com/x"},
		{"empty link resolves to base dir", "", "http://a.com/x/y", "http://a.com/x"},
		{"seed without base", "https://localhost", "", "https://localhost"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, c.want, Canonicalize(c.link, c.base))
		})
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"http://a.com//",
		"HTTP://WWW.Example.com/A/B/?q=1",
		"a.com/x/../y/",
		"https://a.com/./p//q/",
		"ftp://files.example.com/pub/",
		"/just/a/path/",
		"http://",
		"",
		"mailto:someone@example.com",
		"http://a.com/x ?q=1",
		"http://a.com/x #f",
		"http://a.com/x\t?q",
		" http://a.com/x/ ?q",
		"http://a.com/x /?q",
		"http://a.com/x/ /#top",
	}
	for _, in := range inputs {
		once := Canonicalize(in, "")
		assert.Equal(t, once, Canonicalize(once, ""), "input %q", in)
	}
}

func TestCanonicalizeBlanksBeforeSuffixes(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"http://a.com/x ?q=1",
		"http://a.com/x #f",
		"http://a.com/x\t?q",
		" http://a.com/x/ ?q",
		"http://a.com/x /?q",
	} {
		assert.Equal(t, "http://a.com/x", Canonicalize(in, ""), "input %q", in)
	}
	assert.Equal(t, "http://a.com/b/y", Canonicalize("y #frag", "http://a.com/b/c ?page=2"))
}

func TestExtractDomain(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"HTTP://WWW.Example.com/x":   "example.com",
		"https://a.com":              "a.com",
		"https://a.com:8443/p":       "a.com",
		"http://sub.a.com?x=1":       "sub.a.com",
		"http://www.a.com#top":       "a.com",
		"https://localhost":          "localhost",
		"ftp://files.example.com/x":  "files.example.com",
		"http:///no-host":            "",
		"example.com/no-scheme":      "",
		"":                           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ExtractDomain(in), "input %q", in)
	}
}
