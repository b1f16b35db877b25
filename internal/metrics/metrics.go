// Package metrics объявляет метрики Prometheus сервиса поиска новостей.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crypto_news_http_requests_total",
		Help: "Processed HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crypto_news_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crypto_news_upstream_requests_total",
		Help: "Requests to news providers by provider and result.",
	}, []string{"provider", "result"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crypto_news_upstream_duration_seconds",
		Help:    "Provider fetch latency including retries.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	SearchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crypto_news_search_results",
		Help:    "Number of merged items returned per search.",
		Buckets: []float64{0, 1, 2, 5, 10, 15, 25},
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crypto_news_cache_lookups_total",
		Help: "Search cache lookups by result (hit/miss).",
	}, []string{"result"})

	ArchiveTasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crypto_news_archive_tasks_total",
		Help: "Archive queue tasks by outcome (published/dropped/done/failed).",
	}, []string{"outcome"})
)

// Handler отдаёт метрики в формате Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
