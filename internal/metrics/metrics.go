// file: internal/metrics/metrics.go
// version: 1.1.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	feedRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookfeed",
		Name:      "feed_requests_total",
		Help:      "Total number of feed requests served by route",
	}, []string{"route"})
	feedErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookfeed",
		Name:      "feed_errors_total",
		Help:      "Total number of feed request failures by error kind",
	}, []string{"kind"})
	publicationsServed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bookfeed",
		Name:      "publications_served_total",
		Help:      "Total number of publication entries rendered into feed pages",
	})
	downloadsServed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookfeed",
		Name:      "downloads_total",
		Help:      "Total number of book file downloads by quality",
	}, []string{"quality"})
	feedDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookfeed",
		Name:      "feed_duration_seconds",
		Help:      "Histogram of feed assembly durations in seconds by route",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // ~5ms up to a few seconds
	}, []string{"route"})

	booksGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bookfeed",
		Name:      "books_total",
		Help:      "Current total number of books in the catalog",
	})
	authorsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bookfeed",
		Name:      "authors_total",
		Help:      "Current total number of authors in the catalog",
	})
	filesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bookfeed",
		Name:      "book_files_total",
		Help:      "Current total number of book files in the catalog",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(feedRequests, feedErrors, publicationsServed, downloadsServed, feedDuration,
			booksGauge, authorsGauge, filesGauge)
	})
}

// Request lifecycle helpers
func IncFeedRequest(route string) { feedRequests.WithLabelValues(route).Inc() }
func IncFeedError(kind string)    { feedErrors.WithLabelValues(kind).Inc() }
func AddPublicationsServed(n int) { publicationsServed.Add(float64(n)) }
func IncDownload(quality string)  { downloadsServed.WithLabelValues(quality).Inc() }
func ObserveFeedDuration(route string, d time.Duration) {
	feedDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Gauges
func SetBooks(n int)   { booksGauge.Set(float64(n)) }
func SetAuthors(n int) { authorsGauge.Set(float64(n)) }
func SetFiles(n int)   { filesGauge.Set(float64(n)) }
