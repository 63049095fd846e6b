package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal not initialized")
	}
	if r.EvaluationsTotal == nil {
		t.Error("EvaluationsTotal not initialized")
	}
	if r.RepairRunsTotal == nil {
		t.Error("RepairRunsTotal not initialized")
	}
	if r.EventsDroppedTotal == nil {
		t.Error("EventsDroppedTotal not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()

	r.RecordHTTPRequest("GET", "/spaces", "200", 100*time.Millisecond)
	r.RecordHTTPRequest("POST", "/repair", "200", 200*time.Millisecond)
	r.RecordHTTPRequest("GET", "/spaces", "200", 50*time.Millisecond)

	counter, err := r.HTTPRequestsTotal.GetMetricWithLabelValues("GET", "/spaces", "200")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if v := counterValue(t, counter); v != 2 {
		t.Errorf("Counter value = %v, want 2", v)
	}
}

func TestRecordEvaluation(t *testing.T) {
	r := NewRegistry()

	samples := []SpaceSample{
		{SpaceID: "H1", Noise: 36, Threshold: ptr(70), Habitable: true},
		{SpaceID: "S", Noise: 48.6, Threshold: ptr(35), Habitable: false},
		{SpaceID: "Attic", Noise: 0, Habitable: true},
	}
	r.RecordEvaluation(samples, map[string]int{"UnknownMaterialReference": 2}, time.Millisecond)

	if v := counterValue(t, r.EvaluationsTotal); v != 1 {
		t.Errorf("EvaluationsTotal = %v, want 1", v)
	}
	if v := gaugeValue(t, r.SpacesTotal); v != 3 {
		t.Errorf("SpacesTotal = %v, want 3", v)
	}
	if v := gaugeValue(t, r.SpacesHabitable); v != 2 {
		t.Errorf("SpacesHabitable = %v, want 2", v)
	}
	if v := gaugeValue(t, r.SpaceNoise.WithLabelValues("S")); v != 48.6 {
		t.Errorf("SpaceNoise{S} = %v, want 48.6", v)
	}
	if v := counterValue(t, r.EvaluationWarningsTotal.WithLabelValues("UnknownMaterialReference")); v != 2 {
		t.Errorf("warnings = %v, want 2", v)
	}

	// Unset thresholds produce no series.
	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "habitat_space_threshold" {
			continue
		}
		if len(mf.GetMetric()) != 2 {
			t.Errorf("Expected 2 threshold series, got %d", len(mf.GetMetric()))
		}
	}

	// A second evaluation replaces per-space series.
	r.RecordEvaluation(samples[:1], nil, time.Millisecond)
	families, _ = r.GetPrometheusRegistry().Gather()
	for _, mf := range families {
		if mf.GetName() == "habitat_space_noise" && len(mf.GetMetric()) != 1 {
			t.Errorf("Expected 1 noise series, got %d", len(mf.GetMetric()))
		}
	}
}

func TestRecordColoring(t *testing.T) {
	r := NewRegistry()

	r.RecordColoring("success", 3)
	r.RecordColoring("palette_exhausted", 99)

	if v := gaugeValue(t, r.ColorsUsed); v != 3 {
		t.Errorf("ColorsUsed = %v, want 3", v)
	}
	if v := counterValue(t, r.ColoringsTotal.WithLabelValues("palette_exhausted")); v != 1 {
		t.Errorf("palette_exhausted = %v, want 1", v)
	}
}

func TestRecordRepair(t *testing.T) {
	r := NewRegistry()

	r.RecordRepair("changed", map[string]int{"material": 1, "threshold": 2}, time.Millisecond)
	r.RecordRepair("unchanged", nil, time.Millisecond)

	if v := counterValue(t, r.RepairRunsTotal.WithLabelValues("changed")); v != 1 {
		t.Errorf("changed runs = %v, want 1", v)
	}
	if v := counterValue(t, r.RepairActionsTotal.WithLabelValues("threshold")); v != 2 {
		t.Errorf("threshold actions = %v, want 2", v)
	}
}

func TestMutationAndEventCounters(t *testing.T) {
	r := NewRegistry()

	r.RecordMutation("update_noise_source")
	r.RecordInputRejection("Intensity")
	r.RecordEventPublished("building.updated")
	r.RecordEventDropped("building.updated")
	r.RecordEventDropped("building.updated")

	tests := []struct {
		name     string
		counter  prometheus.Counter
		expected float64
	}{
		{"mutations", r.MutationsTotal.WithLabelValues("update_noise_source"), 1},
		{"rejections", r.InputRejectionsTotal.WithLabelValues("Intensity"), 1},
		{"published", r.EventsPublishedTotal.WithLabelValues("building.updated"), 1},
		{"dropped", r.EventsDroppedTotal.WithLabelValues("building.updated"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v := counterValue(t, tt.counter); v != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, v, tt.expected)
			}
		})
	}
}

func TestUpdateSystemMetrics(t *testing.T) {
	r := NewRegistry()
	r.UpdateSystemMetrics(time.Now().Add(-time.Minute))

	if v := gaugeValue(t, r.UptimeSeconds); v < 60 {
		t.Errorf("UptimeSeconds = %v, want >= 60", v)
	}
	if v := gaugeValue(t, r.GoRoutines); v < 1 {
		t.Errorf("GoRoutines = %v, want >= 1", v)
	}
}

func TestMetricNamesArePrefixed(t *testing.T) {
	r := NewRegistry()
	r.RecordHTTPRequest("GET", "/health", "200", time.Millisecond)
	r.RecordMutation("reset")

	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "habitat_") {
			t.Errorf("Metric %s lacks habitat_ prefix", mf.GetName())
		}
	}
}

func ptr(v float64) *float64 { return &v }
