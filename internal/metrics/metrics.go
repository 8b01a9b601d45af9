package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Admission outcome labels.
const (
	AdmitAccepted       = "accepted"
	AdmitNoDomain       = "no_domain"
	AdmitDomainBudget   = "domain_budget"
	AdmitDepthBudget    = "depth_budget"
	AdmitAlreadyVisited = "already_visited"
	AdmitStopped        = "stopped"
)

var (
	PagesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_pages_fetched_total",
		Help: "Total number of pages successfully fetched",
	})
	BytesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_bytes_fetched_total",
		Help: "Total bytes downloaded",
	})
	FetchFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_fetch_failures_total",
		Help: "Fetches abandoned after a transport or HTTP error",
	})
	Admissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_link_admissions_total",
		Help: "Discovered links by admission outcome",
	}, []string{"outcome"})
	SinkErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_sink_errors_total",
		Help: "Failed writes to the result sink",
	})

	FrontierQueued = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "crawler_frontier_queued",
		Help: "Entries waiting in the frontier queue",
	})
	FrontierInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "crawler_frontier_in_flight",
		Help: "Entries taken by workers and not yet finished",
	})
	FrontierVisited = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "crawler_frontier_visited",
		Help: "Distinct URLs ever admitted",
	})
	FrontierDomains = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "crawler_frontier_domains",
		Help: "Distinct domains admitted",
	})
)

func init() {
	prometheus.MustRegister(
		PagesFetched, BytesFetched, FetchFailures, Admissions, SinkErrors,
		FrontierQueued, FrontierInFlight, FrontierVisited, FrontierDomains,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
