package core

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Transform and cache metrics, served by the HTTP API on /metrics.
var (
	transformCount    *prometheus.CounterVec
	transformDuration prometheus.Histogram
	cacheLookupCount  *prometheus.CounterVec
)

func init() {
	transformCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qapulse",
			Name:      "transform_total",
			Help:      "Total number of workbook transforms by resulting data source",
		},
		[]string{"source"}, // source: excel, fallback
	)
	prometheus.MustRegister(transformCount)

	transformDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "qapulse",
			Name:      "transform_duration_seconds",
			Help:      "Duration of workbook transforms in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
	prometheus.MustRegister(transformDuration)

	cacheLookupCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qapulse",
			Name:      "cache_lookup_total",
			Help:      "Total number of document cache lookups by result",
		},
		[]string{"result"}, // result: hit, miss, bypass
	)
	prometheus.MustRegister(cacheLookupCount)
}
