package iterator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mure_responses_delivered_total",
		Help: "Total responses handed to callers",
	})

	prefetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mure_prefetched_batches_total",
		Help: "Total batches started in the background",
	})

	nextWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mure_next_wait_seconds",
		Help:    "Time Next blocked waiting for an in-flight batch",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})
)
