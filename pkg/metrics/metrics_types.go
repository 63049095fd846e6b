package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Evaluation Metrics
	EvaluationsTotal        prometheus.Counter
	EvaluationDuration      prometheus.Histogram
	EvaluationWarningsTotal *prometheus.CounterVec
	SpaceNoise              *prometheus.GaugeVec
	SpaceThreshold          *prometheus.GaugeVec
	SpacesTotal             prometheus.Gauge
	SpacesHabitable         prometheus.Gauge

	// Colouring Metrics
	ColoringsTotal *prometheus.CounterVec
	ColorsUsed     prometheus.Gauge

	// Repair Metrics
	RepairRunsTotal    *prometheus.CounterVec
	RepairActionsTotal *prometheus.CounterVec
	RepairDuration     prometheus.Histogram

	// Building Metrics
	MutationsTotal       *prometheus.CounterVec
	InputRejectionsTotal *prometheus.CounterVec

	// Event Metrics
	EventsPublishedTotal *prometheus.CounterVec
	EventsDroppedTotal   *prometheus.CounterVec

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.Mutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initHTTPMetrics()
	r.initEvaluationMetrics()
	r.initColoringMetrics()
	r.initRepairMetrics()
	r.initBuildingMetrics()
	r.initEventMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
