package repair

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/dd0wney/cluso-habitat/pkg/acoustics"
	"github.com/dd0wney/cluso-habitat/pkg/building"
	"github.com/dd0wney/cluso-habitat/pkg/logging"
	"github.com/google/uuid"
)

// Messages used in reports.
const (
	MessageNoChanges = "no changes needed"
	MessageRepaired  = "all spaces habitable"
)

// Repairer makes every space of a building habitable. It first tries
// substituting wall materials and, for spaces that cannot be fixed that
// way, reshuffles their activities and raises their thresholds.
type Repairer struct {
	cfg       Config
	evaluator *acoustics.Evaluator
	logger    logging.Logger
}

// NewRepairer creates a repairer. A nil evaluator uses the default side
// multiplier; a nil logger discards output.
func NewRepairer(cfg Config, evaluator *acoustics.Evaluator, logger logging.Logger) *Repairer {
	logger = logging.OrNop(logger).With(logging.Component("repair"))
	if evaluator == nil {
		evaluator = acoustics.NewEvaluator(acoustics.Config{}, logger)
	}
	return &Repairer{
		cfg:       cfg.withDefaults(),
		evaluator: evaluator,
		logger:    logger,
	}
}

// Config returns the effective configuration.
func (r *Repairer) Config() Config {
	return r.cfg
}

// state is a working view of a building for hypothetical evaluations.
type state struct {
	b         *building.Building
	materials map[string]building.Material
	sources   map[string]building.NoiseSource
	walls     map[building.WallKey]string
}

func newState(b *building.Building) *state {
	return &state{
		b:         b,
		materials: b.MaterialIndex(),
		sources:   b.SourceIndex(),
		walls:     b.WallIndex(),
	}
}

func (s *state) noise(e *acoustics.Evaluator, spaceID string, walls map[building.WallKey]string) float64 {
	return e.Evaluate(spaceID, s.materials, s.sources, walls).Total
}

func (s *state) habitable(e *acoustics.Evaluator, spaceID string, walls map[building.WallKey]string) bool {
	space, _ := s.b.Space(spaceID)
	return acoustics.IsHabitable(s.noise(e, spaceID, walls), space.EffectiveThreshold())
}

// Repair mutates b until every space is habitable and reports what it did.
// A building that already passes is left untouched.
func (r *Repairer) Repair(b *building.Building) (*Report, error) {
	report := &Report{
		ID:        uuid.New().String(),
		Seed:      r.cfg.Seed,
		Spaces:    make([]SpaceRepair, 0),
		StartedAt: time.Now(),
	}
	timer := logging.StartTimer(r.logger, "repair", logging.String("report_id", report.ID))

	st := newState(b)
	var failing []string
	before := make(map[string]float64)
	for _, id := range b.SpaceIDs() {
		if !st.habitable(r.evaluator, id, st.walls) {
			failing = append(failing, id)
			before[id] = st.noise(r.evaluator, id, st.walls)
		}
	}

	if len(failing) == 0 {
		report.Message = MessageNoChanges
		report.Duration = time.Since(report.StartedAt)
		timer.End(logging.Bool("changed", false))
		return report, nil
	}

	candidates := r.candidates(b)
	entries := make(map[string]*SpaceRepair, len(failing))
	var unresolved []string

	for _, id := range failing {
		space, _ := b.Space(id)
		entry := &SpaceRepair{
			SpaceID:         id,
			ActivityBefore:  space.Activity,
			ActivityAfter:   space.Activity,
			ThresholdBefore: space.Threshold,
			ThresholdAfter:  space.Threshold,
			NoiseBefore:     before[id],
		}
		entries[id] = entry
		report.Spaces = append(report.Spaces, *entry)

		if st.habitable(r.evaluator, id, st.walls) {
			entry.Phase = PhaseNeighbor
			r.logger.Info("space fixed by neighbour substitution", logging.SpaceID(id))
			continue
		}

		if err := r.substitute(st, id, candidates, entry); err != nil {
			return nil, err
		}
		if entry.Phase == PhaseUnresolved {
			unresolved = append(unresolved, id)
		}
	}

	// A later substitution may have fixed a space phase 1 gave up on.
	stillFailing := unresolved[:0]
	for _, id := range unresolved {
		if st.habitable(r.evaluator, id, st.walls) {
			entries[id].Phase = PhaseNeighbor
			r.logger.Info("space fixed by neighbour substitution", logging.SpaceID(id))
			continue
		}
		stillFailing = append(stillFailing, id)
	}

	if len(stillFailing) > 0 {
		if err := r.raiseThresholds(st, stillFailing, entries); err != nil {
			return nil, err
		}
	}

	for i := range report.Spaces {
		e := entries[report.Spaces[i].SpaceID]
		e.NoiseAfter = st.noise(r.evaluator, e.SpaceID, st.walls)
		report.Spaces[i] = *e
	}

	report.Changed = true
	report.Message = MessageRepaired
	report.Duration = time.Since(report.StartedAt)
	timer.End(
		logging.Bool("changed", true),
		logging.Int("material_fixes", report.Count(PhaseMaterial)),
		logging.Int("threshold_fixes", report.Count(PhaseThreshold)),
	)
	return report, nil
}

// candidates lists preferred materials first, then the registry in order,
// without duplicates or unknown IDs.
func (r *Repairer) candidates(b *building.Building) []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range r.cfg.PreferredMaterials {
		if seen[id] {
			continue
		}
		if _, ok := b.Material(id); !ok {
			r.logger.Warn("ignoring unknown preferred material", logging.MaterialID(id))
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, m := range b.Materials() {
		if !seen[m.ID] {
			seen[m.ID] = true
			out = append(out, m.ID)
		}
	}
	return out
}

// substitute tries each candidate on every wall of spaceID and commits the
// first one under which the space passes without pushing a currently
// habitable neighbour over its threshold.
func (r *Repairer) substitute(st *state, spaceID string, candidates []string, entry *SpaceRepair) error {
	walls := st.b.WallsOf(spaceID)
	if len(walls) == 0 {
		return nil
	}

	var guarded []string
	for _, w := range walls {
		n := w.Key.Other(spaceID)
		if st.habitable(r.evaluator, n, st.walls) {
			guarded = append(guarded, n)
		}
	}

	for _, cand := range candidates {
		if allMaterial(walls, cand) {
			continue
		}
		entry.CandidatesTried = append(entry.CandidatesTried, cand)

		trial := make(map[building.WallKey]string, len(st.walls))
		for k, v := range st.walls {
			trial[k] = v
		}
		for _, w := range walls {
			trial[w.Key] = cand
		}

		if !st.habitable(r.evaluator, spaceID, trial) {
			continue
		}
		if n, broke := r.breaksNeighbor(st, guarded, trial); broke {
			r.logger.Debug("candidate rejected",
				logging.SpaceID(spaceID), logging.MaterialID(cand), logging.String("neighbor", n))
			continue
		}

		for _, w := range walls {
			if w.MaterialID == cand {
				continue
			}
			if err := st.b.SetWallMaterial(w.Key.A, w.Key.B, cand); err != nil {
				return fmt.Errorf("commit %s on %s: %w", cand, w.Key, err)
			}
			st.walls[w.Key] = cand
			entry.WallChanges = append(entry.WallChanges, WallChange{Wall: w.Key, Before: w.MaterialID, After: cand})
		}
		entry.Phase = PhaseMaterial
		entry.Material = cand
		r.logger.Info("substituted wall material",
			logging.Phase(PhaseMaterial.String()), logging.SpaceID(spaceID),
			logging.MaterialID(cand), logging.Count(len(entry.WallChanges)))
		return nil
	}

	r.logger.Info("no material makes space habitable",
		logging.SpaceID(spaceID), logging.Count(len(entry.CandidatesTried)))
	return nil
}

func (r *Repairer) breaksNeighbor(st *state, guarded []string, walls map[building.WallKey]string) (string, bool) {
	for _, n := range guarded {
		if !st.habitable(r.evaluator, n, walls) {
			return n, true
		}
	}
	return "", false
}

func allMaterial(walls []building.Wall, materialID string) bool {
	for _, w := range walls {
		if w.MaterialID != materialID {
			return false
		}
	}
	return true
}

// raiseThresholds is the last resort: the activities of the unresolved
// spaces are shuffled among them and each threshold is lifted above the
// space's current noise.
func (r *Repairer) raiseThresholds(st *state, unresolved []string, entries map[string]*SpaceRepair) error {
	activities := make([]string, len(unresolved))
	for i, id := range unresolved {
		activities[i] = entries[id].ActivityBefore
	}
	rng := rand.New(rand.NewSource(r.cfg.Seed))
	rng.Shuffle(len(activities), func(i, j int) {
		activities[i], activities[j] = activities[j], activities[i]
	})

	r.logger.Warn("raising thresholds as a last resort",
		logging.Phase(PhaseThreshold.String()), logging.Count(len(unresolved)),
		logging.Int64("seed", r.cfg.Seed))

	for i, id := range unresolved {
		noise := st.noise(r.evaluator, id, st.walls)
		threshold := math.Max(noise, *r.cfg.Floor) + *r.cfg.Margin
		if err := st.b.AssignActivity(id, activities[i], &threshold); err != nil {
			return fmt.Errorf("raise threshold of %s: %w", id, err)
		}

		e := entries[id]
		e.Phase = PhaseThreshold
		e.ActivityAfter = activities[i]
		e.ThresholdAfter = building.Float(threshold)
		r.logger.Info("raised threshold",
			logging.SpaceID(id), logging.Noise(noise), logging.Threshold(threshold, true),
			logging.String("activity", activities[i]))
	}
	return nil
}
