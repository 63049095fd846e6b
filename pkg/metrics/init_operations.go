package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initColoringMetrics() {
	r.ColoringsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitat_colorings_total",
			Help: "Graph colouring runs by status",
		},
		[]string{"status"},
	)

	r.ColorsUsed = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "habitat_colors_used",
			Help: "Distinct colours used by the last successful colouring",
		},
	)
}

func (r *Registry) initRepairMetrics() {
	r.RepairRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitat_repair_runs_total",
			Help: "Repair runs by outcome (changed, unchanged, error)",
		},
		[]string{"outcome"},
	)

	r.RepairActionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitat_repair_actions_total",
			Help: "Spaces repaired by phase",
		},
		[]string{"phase"},
	)

	r.RepairDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "habitat_repair_duration_seconds",
			Help:    "Repair latency in seconds",
			Buckets: []float64{.0001, .001, .01, .1, 1},
		},
	)
}

func (r *Registry) initBuildingMetrics() {
	r.MutationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitat_building_mutations_total",
			Help: "Building mutations by operation",
		},
		[]string{"operation"},
	)

	r.InputRejectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitat_input_rejections_total",
			Help: "Rejected user input by field",
		},
		[]string{"field"},
	)
}

func (r *Registry) initEventMetrics() {
	r.EventsPublishedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitat_events_published_total",
			Help: "Events published by topic",
		},
		[]string{"topic"},
	)

	r.EventsDroppedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitat_events_dropped_total",
			Help: "Events dropped for slow subscribers by topic",
		},
		[]string{"topic"},
	)
}
