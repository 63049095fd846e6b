package metrics

import (
	"runtime"
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordResponseSize observes an HTTP response body size.
func (r *Registry) RecordResponseSize(method, path string, size float64) {
	r.HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(size)
}

// IncHTTPRequestsInFlight marks a request as started.
func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight marks a request as finished.
func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}

// SpaceSample is one space's state at an evaluation.
type SpaceSample struct {
	SpaceID   string
	Noise     float64
	Threshold *float64
	Habitable bool
}

// RecordEvaluation records a whole-building evaluation. Per-space gauges
// are replaced so spaces no longer present disappear.
func (r *Registry) RecordEvaluation(samples []SpaceSample, warnings map[string]int, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.EvaluationsTotal.Inc()
	r.EvaluationDuration.Observe(duration.Seconds())

	r.SpaceNoise.Reset()
	r.SpaceThreshold.Reset()
	habitable := 0
	for _, s := range samples {
		r.SpaceNoise.WithLabelValues(s.SpaceID).Set(s.Noise)
		if s.Threshold != nil {
			r.SpaceThreshold.WithLabelValues(s.SpaceID).Set(*s.Threshold)
		}
		if s.Habitable {
			habitable++
		}
	}
	r.SpacesTotal.Set(float64(len(samples)))
	r.SpacesHabitable.Set(float64(habitable))

	for kind, n := range warnings {
		r.EvaluationWarningsTotal.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordColoring records a colouring run. colorsUsed is ignored on failure.
func (r *Registry) RecordColoring(status string, colorsUsed int) {
	r.ColoringsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		r.ColorsUsed.Set(float64(colorsUsed))
	}
}

// RecordRepair records a repair run and the spaces fixed per phase.
func (r *Registry) RecordRepair(outcome string, actions map[string]int, duration time.Duration) {
	r.RepairRunsTotal.WithLabelValues(outcome).Inc()
	r.RepairDuration.Observe(duration.Seconds())
	for phase, n := range actions {
		r.RepairActionsTotal.WithLabelValues(phase).Add(float64(n))
	}
}

// RecordMutation counts a building mutation.
func (r *Registry) RecordMutation(operation string) {
	r.MutationsTotal.WithLabelValues(operation).Inc()
}

// RecordInputRejection counts rejected user input.
func (r *Registry) RecordInputRejection(field string) {
	r.InputRejectionsTotal.WithLabelValues(field).Inc()
}

// RecordEventPublished counts a published event.
func (r *Registry) RecordEventPublished(topic string) {
	r.EventsPublishedTotal.WithLabelValues(topic).Inc()
}

// RecordEventDropped counts an event a slow subscriber missed.
func (r *Registry) RecordEventDropped(topic string) {
	r.EventsDroppedTotal.WithLabelValues(topic).Inc()
}

// UpdateSystemMetrics refreshes uptime and runtime gauges.
func (r *Registry) UpdateSystemMetrics(startedAt time.Time) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	r.UptimeSeconds.Set(time.Since(startedAt).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(mem.Alloc))
	r.MemorySysBytes.Set(float64(mem.Sys))
}
