package crawler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"hopcrawler/internal/canon"
	"hopcrawler/internal/frontier"
	"hopcrawler/internal/metrics"
	"hopcrawler/internal/report"
	"hopcrawler/internal/storage"
)

// work takes entries until the frontier closes or is exhausted.
func (c *crawl) work(ctx context.Context, id int) error {
	log := c.log.With(zap.Int("worker", id))
	for {
		entry, err := c.frontier.Take(ctx)
		if err != nil {
			if errors.Is(err, frontier.ErrExhausted) {
				log.Debug("frontier exhausted")
			}
			return nil
		}
		c.visit(ctx, log, entry)
		c.frontier.Done()
	}
}

// visit fetches one entry, records it and offers its links to the frontier.
// All links are offered before the caller marks the entry done.
func (c *crawl) visit(ctx context.Context, log *zap.Logger, entry frontier.Entry) {
	body, err := c.fetcher.Fetch(ctx, entry.URL)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.failures.Add(1)
		metrics.FetchFailures.Inc()
		log.Debug("fetch failed", zap.String("url", entry.URL), zap.Error(err))
		return
	}

	n, ok := c.claimPage()
	if !ok {
		return
	}
	metrics.PagesFetched.Inc()

	domain := canon.ExtractDomain(entry.URL)
	rec := storage.Record{
		URL:       entry.URL,
		Domain:    domain,
		Depth:     entry.Depth,
		FetchedAt: time.Now(),
		RunID:     c.id,
	}
	// the page is already counted; a stop signal must not drop its record
	if err := c.sink.Append(context.WithoutCancel(ctx), rec); err != nil {
		metrics.SinkErrors.Inc()
		log.Error("record visited page", zap.String("url", entry.URL), zap.Error(err))
	}
	c.reporter.Report(report.Progress{
		Count:    n,
		MaxPages: c.opts.MaxPages,
		Domain:   domain,
		Depth:    entry.Depth,
		URL:      entry.URL,
	})

	if n >= int64(c.opts.MaxPages) {
		log.Info("page budget reached", zap.Int64("pages", n))
		c.frontier.Close()
		return
	}

	for raw := range c.links.ExtractLinks(body, entry.URL) {
		link := canon.Canonicalize(raw, entry.URL)
		_, err := c.frontier.TryAdmit(link, domain, entry.Depth+1)
		metrics.Admissions.WithLabelValues(outcome(err)).Inc()
		if errors.Is(err, frontier.ErrClosed) {
			return
		}
		if err != nil {
			log.Debug("link rejected", zap.String("url", link), zap.Error(err))
		}
	}
}

// claimPage reserves one slot of the page budget. It fails once the budget
// is spent, so concurrent workers never record more than MaxPages pages.
func (c *crawl) claimPage() (int64, bool) {
	limit := int64(c.opts.MaxPages)
	for {
		n := c.pages.Load()
		if n >= limit {
			return n, false
		}
		if c.pages.CompareAndSwap(n, n+1) {
			return n + 1, true
		}
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.AdmitAccepted
	case errors.Is(err, frontier.ErrNoDomain):
		return metrics.AdmitNoDomain
	case errors.Is(err, frontier.ErrDomainBudgetExhausted):
		return metrics.AdmitDomainBudget
	case errors.Is(err, frontier.ErrDepthBudgetExceeded):
		return metrics.AdmitDepthBudget
	case errors.Is(err, frontier.ErrAlreadyVisited):
		return metrics.AdmitAlreadyVisited
	default:
		return metrics.AdmitStopped
	}
}
