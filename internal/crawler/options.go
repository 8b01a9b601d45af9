package crawler

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hopcrawler/internal/fetch"
	"hopcrawler/internal/frontier"
	"hopcrawler/internal/parser"
	"hopcrawler/internal/report"
	"hopcrawler/internal/storage"
)

// ErrInvalidOptions wraps every Options validation failure.
var ErrInvalidOptions = errors.New("crawler: invalid options")

// Options are the crawl's budgets and resources.
type Options struct {
	MaxPages int
	Workers  int
	Policy   frontier.Policy

	// StatsInterval is how often frontier stats are logged. Zero disables it.
	StatsInterval time.Duration
	// MetricsAddr, when set, serves /metrics for the duration of the crawl.
	MetricsAddr string
}

func DefaultOptions() Options {
	return Options{
		MaxPages:      10000000,
		Workers:       12,
		Policy:        frontier.DefaultPolicy(),
		StatsInterval: time.Minute,
	}
}

func (o Options) Validate() error {
	switch {
	case o.MaxPages < 1:
		return fmt.Errorf("%w: max pages %d", ErrInvalidOptions, o.MaxPages)
	case o.Workers < 1:
		return fmt.Errorf("%w: workers %d", ErrInvalidOptions, o.Workers)
	case o.Policy.MaxDepthPerDomain < 0:
		return fmt.Errorf("%w: max depth %d", ErrInvalidOptions, o.Policy.MaxDepthPerDomain)
	case o.Policy.MaxDomainHops < 0:
		return fmt.Errorf("%w: max hops %d", ErrInvalidOptions, o.Policy.MaxDomainHops)
	case o.StatsInterval < 0:
		return fmt.Errorf("%w: stats interval %s", ErrInvalidOptions, o.StatsInterval)
	}
	return nil
}

type collaborators struct {
	fetcher  fetch.Fetcher
	links    parser.LinkExtractor
	sink     storage.Sink
	reporter report.Reporter
	logger   *zap.Logger
}

func defaultCollaborators() collaborators {
	return collaborators{
		fetcher:  fetch.NewHTTPFetcher(fetch.DefaultOptions()),
		links:    parser.NewHTML(),
		sink:     storage.Multi{},
		reporter: report.Discard{},
		logger:   zap.NewNop(),
	}
}

// Option replaces one of the engine's collaborators.
type Option func(*collaborators)

func WithFetcher(f fetch.Fetcher) Option {
	return func(c *collaborators) { c.fetcher = f }
}

func WithLinkExtractor(l parser.LinkExtractor) Option {
	return func(c *collaborators) { c.links = l }
}

func WithSink(s storage.Sink) Option {
	return func(c *collaborators) { c.sink = s }
}

func WithReporter(r report.Reporter) Option {
	return func(c *collaborators) { c.reporter = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *collaborators) { c.logger = l }
}
