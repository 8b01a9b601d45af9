// Package crawler runs a pool of workers over a shared frontier until the
// page budget is spent or nothing reachable is left.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hopcrawler/internal/frontier"
	"hopcrawler/internal/metrics"
)

// Engine coordinates one or more crawls. It holds no per-crawl state.
type Engine struct {
	opts Options
	collaborators
}

// New validates opts and applies the collaborator options.
func New(opts Options, options ...Option) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	c := defaultCollaborators()
	for _, o := range options {
		o(&c)
	}
	return &Engine{opts: opts, collaborators: c}, nil
}

// Summary describes a finished crawl.
type Summary struct {
	RunID           string
	DomainsVisited  int
	PagesDownloaded int64
	URLsDiscovered  int
	FetchFailures   int64
	Elapsed         time.Duration
}

// crawl is the state of a single Run.
type crawl struct {
	*Engine
	id       string
	frontier *frontier.Frontier
	log      *zap.Logger
	pages    atomic.Int64
	failures atomic.Int64
}

// Run crawls from seed until the page budget is reached, the frontier is
// exhausted or ctx is cancelled. Only an unusable seed is an error; every
// per-URL failure is absorbed by the workers.
func (e *Engine) Run(ctx context.Context, seed string) (Summary, error) {
	start := time.Now()

	fr := frontier.New(e.opts.Policy)
	first, err := fr.Seed(seed)
	if err != nil {
		return Summary{}, fmt.Errorf("seed %q: %w", seed, err)
	}

	c := &crawl{
		Engine:   e,
		id:       uuid.NewString(),
		frontier: fr,
	}
	c.log = e.logger.With(zap.String("run_id", c.id))
	c.log.Info("crawl started",
		zap.String("seed", first.URL),
		zap.Int("workers", e.opts.Workers),
		zap.Int("max_pages", e.opts.MaxPages),
		zap.Int("max_depth_per_domain", e.opts.Policy.MaxDepthPerDomain),
		zap.Int("max_domain_hops", e.opts.Policy.MaxDomainHops),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, fr.Close)
	defer stop()

	shutdownMetrics := c.serveMetrics()
	defer shutdownMetrics()

	tickerDone := make(chan struct{})
	go func() {
		defer close(tickerDone)
		c.statsLoop(ctx, start)
	}()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < e.opts.Workers; i++ {
		g.Go(func() error {
			return c.work(gctx, i)
		})
	}
	_ = g.Wait()
	fr.Close()
	cancel()
	<-tickerDone

	st := fr.Stats()
	c.publish(st)
	sum := Summary{
		RunID:           c.id,
		DomainsVisited:  st.Domains,
		PagesDownloaded: c.pages.Load(),
		URLsDiscovered:  st.Visited,
		FetchFailures:   c.failures.Load(),
		Elapsed:         time.Since(start),
	}
	c.log.Info("crawl finished",
		zap.Int("domains", sum.DomainsVisited),
		zap.Int64("pages", sum.PagesDownloaded),
		zap.Int("discovered", sum.URLsDiscovered),
		zap.Int("never_visited", st.Queued),
		zap.Int64("fetch_failures", sum.FetchFailures),
		zap.Duration("elapsed", sum.Elapsed),
	)
	return sum, nil
}

// statsLoop logs a progress line every StatsInterval until ctx ends.
func (c *crawl) statsLoop(ctx context.Context, start time.Time) {
	if c.opts.StatsInterval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(c.opts.StatsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			st := c.frontier.Stats()
			c.publish(st)
			c.log.Info("crawl stats",
				zap.Duration("elapsed", t.Sub(start).Round(time.Second)),
				zap.Int64("crawled", c.pages.Load()),
				zap.Int("queued", st.Queued),
				zap.Int("in_flight", st.InFlight),
				zap.Int("visited", st.Visited),
				zap.Int("domains", st.Domains),
			)
		}
	}
}

func (c *crawl) publish(st frontier.Stats) {
	metrics.FrontierQueued.Set(float64(st.Queued))
	metrics.FrontierInFlight.Set(float64(st.InFlight))
	metrics.FrontierVisited.Set(float64(st.Visited))
	metrics.FrontierDomains.Set(float64(st.Domains))
}

// serveMetrics starts the /metrics listener when configured and returns the
// function that stops it.
func (c *crawl) serveMetrics() func() {
	if c.opts.MetricsAddr == "" {
		return func() {}
	}
	srv := &http.Server{
		Addr:              c.opts.MetricsAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		c.log.Info("metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.log.Error("metrics server", zap.Error(err))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
