package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	PagesScrapedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docs_pages_scraped_total",
			Help: "Total number of pages fetched and extracted.",
		},
		[]string{"mode"}, // crawl, single
	)

	PageFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docs_page_failures_total",
			Help: "Total number of per-page failures.",
		},
		[]string{"kind"}, // timeout, navigation, invalid_url, storage, unknown
	)

	LinksFilteredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docs_links_filtered_total",
			Help: "Discovered links by filter verdict.",
		},
		[]string{"verdict"},
	)

	CrawlDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docs_crawl_duration_seconds",
			Help:    "Duration of complete crawl jobs.",
			Buckets: []float64{1, 10, 30, 60, 300, 900, 1800, 3600},
		},
		[]string{"domain"},
	)

	PageRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docs_page_render_duration_seconds",
			Help:    "Duration of single page renders.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"domain"},
	)

	ActiveCrawls = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docs_active_crawls",
			Help: "Number of crawl jobs currently running.",
		},
	)

	URLsInFrontier = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docs_urls_in_frontier",
			Help: "Pending URLs across the frontiers of running crawl jobs.",
		},
	)
)
