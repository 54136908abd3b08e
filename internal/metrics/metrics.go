package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by route pattern, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogosphere_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})

	// HTTPRequestDuration records request latency by route pattern and method.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blogosphere_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// AuthFailuresTotal counts rejected tokens and logins by reason.
	AuthFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogosphere_auth_failures_total",
		Help: "Total number of authentication failures",
	}, []string{"reason"})

	// ThumbnailUploadsTotal counts thumbnail uploads by outcome.
	ThumbnailUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogosphere_thumbnail_uploads_total",
		Help: "Total number of post thumbnail uploads",
	}, []string{"outcome"})
)
