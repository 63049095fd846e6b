package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEvaluationMetrics() {
	r.EvaluationsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "habitat_evaluations_total",
			Help: "Total number of whole-building noise evaluations",
		},
	)

	r.EvaluationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "habitat_evaluation_duration_seconds",
			Help:    "Whole-building evaluation latency in seconds",
			Buckets: []float64{.00001, .0001, .001, .01, .1, 1},
		},
	)

	r.EvaluationWarningsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitat_evaluation_warnings_total",
			Help: "Skipped noise contributions by warning kind",
		},
		[]string{"kind"},
	)

	r.SpaceNoise = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "habitat_space_noise",
			Help: "Noise reaching each space at the last evaluation",
		},
		[]string{"space"},
	)

	r.SpaceThreshold = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "habitat_space_threshold",
			Help: "Noise threshold of each space; absent when unset",
		},
		[]string{"space"},
	)

	r.SpacesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "habitat_spaces_total",
			Help: "Number of spaces in the building",
		},
	)

	r.SpacesHabitable = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "habitat_spaces_habitable",
			Help: "Number of spaces within their noise threshold",
		},
	)
}
