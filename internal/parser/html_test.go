package parser

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

const page = `<html><head><title>t</title></head><body>
<a href="/a">A</a>
<a href=" b/c ">B</a>
<a href="https://other.com/x?q=1">X</a>
<a href="/a">duplicate</a>
<a href="#top">anchor</a>
<a href="">empty</a>
<a>no href</a>
<a href="mailto:me@example.com">mail</a>
<a href="JavaScript:void(0)">js</a>
<a href="tel:+100">call</a>
<a href="/doc/manual.PDF">pdf</a>
<a href="/img/logo.png?v=2">png</a>
<a href="/photo.jpg#x">jpg</a>
<a href="/pdf-guide">not a pdf</a>
</body></html>`

func TestExtractLinks(t *testing.T) {
	t.Parallel()

	got := slices.Collect(NewHTML().ExtractLinks([]byte(page), "http://a.com"))
	assert.Equal(t, []string{"/a", "b/c", "https://other.com/x?q=1", "/pdf-guide"}, got)
}

func TestExtractLinksRestartable(t *testing.T) {
	t.Parallel()

	seq := NewHTML().ExtractLinks([]byte(page), "http://a.com")
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)

	// early break stops iteration without panicking
	n := 0
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestExtractLinksCustomExtensions(t *testing.T) {
	t.Parallel()

	h := NewHTML(WithSkipExtensions("HTML", " .php", ""))
	body := `<a href="/x.html">1</a><a href="/y.php">2</a><a href="/z.pdf">3</a>`
	got := slices.Collect(h.ExtractLinks([]byte(body), ""))
	assert.Equal(t, []string{"/z.pdf"}, got)
}

func TestExtractLinksGarbage(t *testing.T) {
	t.Parallel()

	got := slices.Collect(NewHTML().ExtractLinks([]byte("\x00\x01 not html <<<"), ""))
	assert.Empty(t, got)
}
