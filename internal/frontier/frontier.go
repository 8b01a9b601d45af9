// Package frontier holds the crawl's shared state: the FIFO work queue, the
// visited set and the per-domain table. Every admission decision runs as one
// critical section over all three, so concurrent workers can never enqueue a
// URL twice or overshoot the domain budget.
package frontier

import (
	"context"
	"errors"
	"sync"

	"hopcrawler/internal/canon"
)

var (
	// ErrInvalidSeed is returned by Seed when the seed URL has no domain.
	ErrInvalidSeed = errors.New("frontier: seed url has no domain")

	// ErrClosed is returned by Take once the frontier has been closed.
	ErrClosed = errors.New("frontier: closed")

	// ErrExhausted is returned by Take when the queue is empty and no taken
	// entry is still being processed.
	ErrExhausted = errors.New("frontier: exhausted")
)

// Frontier is safe for concurrent use.
type Frontier struct {
	policy Policy

	mu       sync.Mutex
	queue    *queue
	visited  *visited
	domains  map[string]*DomainState
	hops     int
	inFlight int
	closed   bool
	// changed is closed and replaced whenever a waiter in Take may be able
	// to make progress.
	changed chan struct{}

	crossDomain int
}

// New returns an empty frontier governed by policy.
func New(policy Policy) *Frontier {
	return &Frontier{
		policy:  policy,
		queue:   newQueue(),
		visited: newVisited(),
		domains: make(map[string]*DomainState),
		changed: make(chan struct{}),
	}
}

// Seed admits the crawl's starting URL at depth 0 and pre-admits its domain
// at baseline 0 without consulting the domain budget.
func (f *Frontier) Seed(rawURL string) (Entry, error) {
	u := canon.Canonicalize(rawURL, "")
	domain := canon.ExtractDomain(u)
	if domain == "" {
		return Entry{}, ErrInvalidSeed
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.domains[domain]; !ok {
		f.domains[domain] = &DomainState{BaselineDepth: 0}
	}
	if !f.visited.add(u) {
		return Entry{}, ErrAlreadyVisited
	}
	e := Entry{URL: u, Depth: 0}
	f.pushLocked(e)
	return e, nil
}

// TryAdmit decides whether url, discovered on a page of sourceDomain, enters
// the crawl at candidate depth. On success the returned entry has already
// been queued. Same-domain and cross-domain links follow the same depth rule;
// only a brand-new domain resets the depth to 0.
func (f *Frontier) TryAdmit(url, sourceDomain string, depth int) (Entry, error) {
	domain := canon.ExtractDomain(url)
	if domain == "" {
		return Entry{}, ErrNoDomain
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return Entry{}, ErrClosed
	}

	state := f.domains[domain]
	d, err := f.policy.decide(state, f.hops, depth)
	if err != nil {
		return Entry{}, err
	}
	if f.visited.has(url) {
		return Entry{}, ErrAlreadyVisited
	}

	if d.newDomain {
		f.domains[domain] = &DomainState{BaselineDepth: 0}
		f.hops++
	}
	if domain != sourceDomain {
		f.crossDomain++
	}
	f.visited.add(url)
	e := Entry{URL: url, Depth: d.depth}
	f.pushLocked(e)
	return e, nil
}

// Take blocks until an entry is available and hands it out. The caller must
// call Done once it has finished with the entry, including after enqueueing
// the entry's links.
//
// Take returns ErrClosed after Close, ErrExhausted when nothing is queued and
// nothing is in flight (it also closes the frontier), or the context's error.
func (f *Frontier) Take(ctx context.Context) (Entry, error) {
	for {
		f.mu.Lock()
		if f.closed {
			f.mu.Unlock()
			return Entry{}, ErrClosed
		}
		if e, ok := f.queue.popFront(); ok {
			f.inFlight++
			f.mu.Unlock()
			return e, nil
		}
		if f.inFlight == 0 {
			f.closeLocked()
			f.mu.Unlock()
			return Entry{}, ErrExhausted
		}
		wait := f.changed
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return Entry{}, ctx.Err()
		case <-wait:
		}
	}
}

// Done marks one taken entry as finished.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight > 0 {
		f.inFlight--
	}
	f.broadcastLocked()
}

// Close raises the stop signal. Blocked and future Take calls return
// ErrClosed. Close is idempotent.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeLocked()
}

// Closed reports whether the stop signal has been raised.
func (f *Frontier) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Domain returns the recorded state for domain.
func (f *Frontier) Domain(domain string) (DomainState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.domains[domain]
	if !ok {
		return DomainState{}, false
	}
	return *s, true
}

// Stats is a point-in-time snapshot of the frontier.
type Stats struct {
	Queued      int
	InFlight    int
	Visited     int
	Domains     int
	TotalQueued int
	CrossDomain int
}

func (f *Frontier) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Stats{
		Queued:      f.queue.size(),
		InFlight:    f.inFlight,
		Visited:     f.visited.size(),
		Domains:     len(f.domains),
		TotalQueued: f.queue.totalQueued,
		CrossDomain: f.crossDomain,
	}
}

func (f *Frontier) pushLocked(e Entry) {
	f.queue.push(e)
	f.broadcastLocked()
}

func (f *Frontier) closeLocked() {
	if f.closed {
		return
	}
	f.closed = true
	f.broadcastLocked()
}

func (f *Frontier) broadcastLocked() {
	close(f.changed)
	f.changed = make(chan struct{})
}
