package report

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLineFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Report(Progress{Count: 3, MaxPages: 5, Domain: "a.com", Depth: 1, URL: "http://a.com/x"})

	assert.Equal(t, "[3/5] Domain: a.com                Depth: 1 URL: http://a.com/x\n", buf.String())
}

func TestConsoleConcurrentLinesStayWhole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := NewConsole(&buf)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Report(Progress{Count: int64(i), MaxPages: 50, Domain: "b.com", URL: "http://b.com"})
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 50)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "["))
		assert.True(t, strings.HasSuffix(l, "URL: http://b.com"))
	}
}
