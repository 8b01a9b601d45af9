// Package report prints crawl progress for humans.
package report

import (
	"fmt"
	"io"
	"sync"
)

// Progress describes one recorded page.
type Progress struct {
	Count    int64
	MaxPages int
	Domain   string
	Depth    int
	URL      string
}

// Reporter receives one Progress per successfully fetched page.
type Reporter interface {
	Report(p Progress)
}

// Console writes one line per page to w.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Report(p Progress) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "[%d/%d] Domain: %-20s Depth: %d URL: %s\n", p.Count, p.MaxPages, p.Domain, p.Depth, p.URL)
}

// Discard drops every report.
type Discard struct{}

func (Discard) Report(Progress) {}
