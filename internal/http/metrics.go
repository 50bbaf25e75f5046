package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "daftar_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "daftar_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "daftar_mutations_total",
		Help: "Successful create/update/delete operations by entity and action.",
	}, []string{"entity", "action"})

	exportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "daftar_dashboard_exports_total",
		Help: "Dashboard CSV exports served.",
	})

	rateLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "daftar_rate_limit_hits_total",
		Help: "Mutating requests rejected by the rate limiter.",
	})

	suspiciousRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "daftar_suspicious_requests_total",
		Help: "Requests matching a known probing pattern.",
	})
)
