package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop stages used as the "stage" label of SearchesDropped
const (
	StageAggregate = "aggregate"
	StageEnrich    = "enrich"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	InputsRead       prometheus.Counter
	LinesMalformed   prometheus.Counter
	SearchesRead     prometheus.Counter
	SearchesEnriched prometheus.Counter
	SearchesDropped  *prometheus.CounterVec
	SinkErrors       *prometheus.CounterVec
	ProcessingTime   prometheus.Histogram
}

// NewMetrics creates new prometheus metrics registered on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		InputsRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inputs_read_total",
			Help:      "The total number of input units pulled from the source",
		}),
		LinesMalformed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_malformed_total",
			Help:      "The total number of raw lines skipped because they could not be decoded",
		}),
		SearchesRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_read_total",
			Help:      "The total number of searches handed to aggregation",
		}),
		SearchesEnriched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_enriched_total",
			Help:      "The total number of enriched searches emitted",
		}),
		SearchesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_dropped_total",
			Help:      "The total number of searches dropped, by failing stage",
		}, []string{"stage"}),
		SinkErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "The total number of failed writes, by sink",
		}, []string{"sink"}),
		ProcessingTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_processing_time_seconds",
			Help:      "Time taken to aggregate and enrich one search",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
