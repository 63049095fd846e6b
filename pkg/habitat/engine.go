// Package habitat serves the core building operations behind one lock.
package habitat

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dd0wney/cluso-habitat/pkg/acoustics"
	"github.com/dd0wney/cluso-habitat/pkg/algorithms"
	"github.com/dd0wney/cluso-habitat/pkg/building"
	"github.com/dd0wney/cluso-habitat/pkg/config"
	"github.com/dd0wney/cluso-habitat/pkg/constraints"
	"github.com/dd0wney/cluso-habitat/pkg/logging"
	"github.com/dd0wney/cluso-habitat/pkg/metrics"
	"github.com/dd0wney/cluso-habitat/pkg/pubsub"
	"github.com/dd0wney/cluso-habitat/pkg/repair"
	"github.com/dd0wney/cluso-habitat/pkg/validation"
	"github.com/dd0wney/cluso-habitat/pkg/visualization"
)

// Options configures an Engine.
type Options struct {
	Evaluator acoustics.Config
	Repair    repair.Config
	// Palette is the default colouring palette; empty means
	// config.DefaultPalette.
	Palette []string
	Logger  logging.Logger
	// Metrics may be nil.
	Metrics *metrics.Registry
}

// Engine owns a building and serialises every operation on it.
type Engine struct {
	mu        sync.Mutex
	b         *building.Building
	baseline  *building.Building
	evaluator *acoustics.Evaluator
	repairer  *repair.Repairer
	palette   []string

	logger  logging.Logger
	metrics *metrics.Registry
	events  *pubsub.Broker[Event]
}

// New creates an engine for b. The building as passed becomes the Reset
// baseline.
func New(b *building.Building, opts Options) *Engine {
	logger := logging.OrNop(opts.Logger)
	evaluator := acoustics.NewEvaluator(opts.Evaluator, logger)

	palette := opts.Palette
	if len(palette) == 0 {
		palette = config.DefaultPalette
	}

	e := &Engine{
		b:         b,
		baseline:  b.Clone(),
		evaluator: evaluator,
		repairer:  repair.NewRepairer(opts.Repair, evaluator, logger),
		palette:   append([]string(nil), palette...),
		logger:    logger.With(logging.Component("habitat")),
		metrics:   opts.Metrics,
	}

	brokerOpts := []pubsub.Option{pubsub.WithLogger(logger)}
	if e.metrics != nil {
		brokerOpts = append(brokerOpts, pubsub.WithDropHook(e.metrics.RecordEventDropped))
	}
	e.events = pubsub.New[Event](brokerOpts...)
	return e
}

// NewFromConfig builds the configured building and wraps it.
func NewFromConfig(cfg *config.Config, logger logging.Logger, reg *metrics.Registry) (*Engine, error) {
	b, err := cfg.Build(logger)
	if err != nil {
		return nil, err
	}
	return New(b, Options{
		Evaluator: cfg.EvaluatorConfig(),
		Repair:    cfg.RepairConfig(),
		Palette:   cfg.PaletteOrDefault(),
		Logger:    logger,
		Metrics:   reg,
	}), nil
}

// Events returns the broker carrying TopicBuildingUpdated and
// TopicEvaluated events.
func (e *Engine) Events() *pubsub.Broker[Event] {
	return e.events
}

// Close shuts down event delivery.
func (e *Engine) Close() {
	e.events.Shutdown()
}

// Palette returns the default palette.
func (e *Engine) Palette() []string {
	return append([]string(nil), e.palette...)
}

// Name returns the building name.
func (e *Engine) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.b.Name
}

// EvaluateNoise returns the total noise reaching spaceID.
func (e *Engine) EvaluateNoise(spaceID string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.evaluator.EvaluateBuilding(e.b, spaceID)
	if err != nil {
		return 0, err
	}
	return res.Total, nil
}

// IsHabitable reports whether spaceID is within its threshold.
func (e *Engine) IsHabitable(spaceID string) (bool, error) {
	v, err := e.Space(spaceID)
	if err != nil {
		return false, err
	}
	return v.Habitable, nil
}

// Space returns one space with its verdict.
func (e *Engine) Space(spaceID string) (SpaceView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	space, ok := e.b.Space(spaceID)
	if !ok {
		return SpaceView{}, building.NewError("Space").Space(spaceID).Cause(building.ErrSpaceNotFound).Build()
	}
	res, _ := e.evaluator.EvaluateBuilding(e.b, spaceID)
	return e.view(space, res), nil
}

// ListSpaces returns every space in registration order.
func (e *Engine) ListSpaces() []SpaceView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.evaluateLocked().Spaces
}

// Evaluate evaluates every space, records metrics and publishes the result.
func (e *Engine) Evaluate() Evaluation {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	ev := e.evaluateLocked()
	e.recordEvaluation(ev, time.Since(start))
	e.publishLocked(pubsub.TopicEvaluated, EventEvaluated, ev)
	return ev
}

// Check runs the habitability, material reference and frequency band
// constraints.
func (e *Engine) Check() (*constraints.ValidationResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := constraints.NewDefaultValidator(&constraints.HabitabilityConstraint{Evaluator: e.evaluator})
	return v.Validate(e.b)
}

// ColorGraph colours the adjacency graph. An empty palette uses the
// engine's default.
func (e *Engine) ColorGraph(palette []string) (*algorithms.Coloring, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(palette) == 0 {
		palette = e.palette
	}

	c, err := algorithms.WelchPowell(e.b, palette)
	if err != nil {
		e.logger.Warn("colouring failed", logging.Error(err), logging.Count(len(palette)))
		if e.metrics != nil {
			status := "error"
			if errors.Is(err, algorithms.ErrPaletteExhausted) {
				status = "palette_exhausted"
			}
			e.metrics.RecordColoring(status, 0)
		}
		return nil, err
	}

	e.logger.Info("coloured building", logging.Int("colors_used", c.ColorsUsed), logging.Count(len(c.Assignments)))
	if e.metrics != nil {
		e.metrics.RecordColoring("success", c.ColorsUsed)
	}
	return c, nil
}

// Repair makes every space habitable. The returned report says whether
// anything changed.
func (e *Engine) Repair() (*repair.Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	report, err := e.repairer.Repair(e.b)
	if err != nil {
		e.logger.Error("repair failed", logging.Error(err))
		if e.metrics != nil {
			e.metrics.RecordRepair("error", nil, 0)
		}
		return nil, err
	}

	if e.metrics != nil {
		outcome := "unchanged"
		if report.Changed {
			outcome = "changed"
		}
		e.metrics.RecordRepair(outcome, map[string]int{
			repair.PhaseMaterial.String():  report.Count(repair.PhaseMaterial),
			repair.PhaseNeighbor.String():  report.Count(repair.PhaseNeighbor),
			repair.PhaseThreshold.String(): report.Count(repair.PhaseThreshold),
		}, report.Duration)
	}

	if report.Changed {
		e.mutatedLocked("repair", EventRepaired)
	}
	return report, nil
}

// UpdateNoiseSource validates a raw edit, applies it and re-evaluates.
// Invalid input wraps validation.ErrInvalidNumericInput, or
// validation.ErrInvalidIdentifier for a bad ID, and changes nothing.
func (e *Engine) UpdateNoiseSource(in validation.NoiseSourceInput) (Evaluation, error) {
	upd, err := validation.ParseNoiseSourceInput(in)
	if err != nil {
		var ie *validation.InputError
		if e.metrics != nil && errors.As(err, &ie) {
			e.metrics.RecordInputRejection(ie.Field)
		}
		e.logger.Warn("rejected noise source input", logging.SourceID(in.ID), logging.Error(err))
		return Evaluation{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.b.UpdateNoiseSource(upd.ID, upd.Frequency, upd.Intensity); err != nil {
		return Evaluation{}, err
	}
	if !building.SupportsBand(upd.Frequency) {
		e.logger.Warn("noise source frequency has no absorption band",
			logging.SourceID(upd.ID), logging.Frequency(upd.Frequency))
	}
	e.logger.Info("updated noise source",
		logging.SourceID(upd.ID), logging.Frequency(upd.Frequency), logging.Float64("intensity", upd.Intensity))
	return e.mutatedLocked("update_noise_source", EventNoiseSourceUpdated), nil
}

// Reset restores the building captured at construction or last Replace.
func (e *Engine) Reset() Evaluation {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.b = e.baseline.Clone()
	e.logger.Info("building reset")
	return e.mutatedLocked("reset", EventReset)
}

// Replace swaps in a new building, which also becomes the Reset baseline.
func (e *Engine) Replace(b *building.Building) Evaluation {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.b = b
	e.baseline = b.Clone()
	e.logger.Info("building replaced", logging.String("building", b.Name))
	return e.mutatedLocked("replace", EventReloaded)
}

// Snapshot returns a plain-data copy of the building.
func (e *Engine) Snapshot() building.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.b.Snapshot()
}

// Scene builds a render scene. ModeColoring colours with the default
// palette and fails if it is exhausted.
func (e *Engine) Scene(mode visualization.Mode) (visualization.Scene, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ev := e.evaluateLocked()
	scene := visualization.Scene{Title: e.b.Name, Mode: mode}

	var colors map[string]string
	if mode == visualization.ModeColoring {
		c, err := algorithms.WelchPowell(e.b, e.palette)
		if err != nil {
			return visualization.Scene{}, err
		}
		colors = c.Assignments
	}

	for _, s := range ev.Spaces {
		scene.Nodes = append(scene.Nodes, visualization.Node{
			ID:        s.ID,
			Position:  s.Position,
			Noise:     s.Noise,
			Threshold: s.Threshold,
			Habitable: s.Habitable,
			Color:     colors[s.ID],
		})
	}
	for _, w := range e.b.Walls() {
		scene.Edges = append(scene.Edges, visualization.Edge{A: w.Key.A, B: w.Key.B, Material: w.MaterialID})
	}
	return scene, nil
}

// Render draws the building to path; the extension picks the format.
func (e *Engine) Render(mode visualization.Mode, path string) error {
	scene, err := e.Scene(mode)
	if err != nil {
		return err
	}
	if err := visualization.NewRenderer(nil).Save(scene, path); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	e.logger.Info("rendered building", logging.Path(path), logging.String("mode", mode.String()))
	return nil
}

func (e *Engine) view(space building.Space, res acoustics.Result) SpaceView {
	v := acoustics.Classify(space, res)
	return SpaceView{
		ID:        space.ID,
		Position:  space.Position,
		Activity:  space.Activity,
		Threshold: space.Threshold,
		Noise:     v.Noise,
		Habitable: v.Habitable,
		Degree:    e.b.Degree(space.ID),
	}
}

func (e *Engine) evaluateLocked() Evaluation {
	ev := Evaluation{
		Building:    e.b.Name,
		Spaces:      make([]SpaceView, 0),
		EvaluatedAt: time.Now(),
	}
	for _, res := range e.evaluator.EvaluateAll(e.b) {
		space, _ := e.b.Space(res.SpaceID)
		v := e.view(space, res)
		ev.Spaces = append(ev.Spaces, v)
		ev.Warnings = append(ev.Warnings, res.Warnings...)
		if v.Habitable {
			ev.Habitable++
		}
	}
	ev.AllHabitable = ev.Habitable == len(ev.Spaces)
	return ev
}

func (e *Engine) recordEvaluation(ev Evaluation, d time.Duration) {
	if e.metrics == nil {
		return
	}
	samples := make([]metrics.SpaceSample, 0, len(ev.Spaces))
	for _, s := range ev.Spaces {
		samples = append(samples, metrics.SpaceSample{
			SpaceID:   s.ID,
			Noise:     s.Noise,
			Threshold: s.Threshold,
			Habitable: s.Habitable,
		})
	}
	warnings := make(map[string]int)
	for _, w := range ev.Warnings {
		warnings[w.Kind.String()]++
	}
	e.metrics.RecordEvaluation(samples, warnings, d)
}

// mutatedLocked re-evaluates after a mutation, records it and publishes
// a TopicBuildingUpdated event.
func (e *Engine) mutatedLocked(operation string, kind EventKind) Evaluation {
	start := time.Now()
	ev := e.evaluateLocked()
	if e.metrics != nil {
		e.metrics.RecordMutation(operation)
	}
	e.recordEvaluation(ev, time.Since(start))
	e.publishLocked(pubsub.TopicBuildingUpdated, kind, ev)
	return ev
}

func (e *Engine) publishLocked(topic string, kind EventKind, ev Evaluation) {
	e.events.Publish(topic, Event{
		Kind:       kind,
		At:         time.Now(),
		Snapshot:   e.b.Snapshot(),
		Evaluation: ev,
	})
	if e.metrics != nil {
		e.metrics.RecordEventPublished(topic)
	}
}
