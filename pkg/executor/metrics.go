package executor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mure_requests_total",
		Help: "Total requests by method and outcome (status code, cached, failure)",
	}, []string{"method", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mure_request_duration_seconds",
		Help:    "Request duration in seconds by method",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"method"})

	transportFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mure_transport_failures_total",
		Help: "Total requests that failed before an HTTP response was received",
	})

	batchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mure_batches_total",
		Help: "Total executed batches",
	})

	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mure_batch_duration_seconds",
		Help:    "Batch execution duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})
)
