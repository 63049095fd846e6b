package constraints

import (
	"fmt"

	"github.com/dd0wney/cluso-habitat/pkg/acoustics"
)

// HabitabilityConstraint reports every space whose noise exceeds its threshold.
type HabitabilityConstraint struct {
	Evaluator *acoustics.Evaluator
}

// Name returns the constraint name
func (hc *HabitabilityConstraint) Name() string {
	return "HabitabilityConstraint"
}

// Validate evaluates every space and flags the failing ones as errors.
func (hc *HabitabilityConstraint) Validate(b BuildingReader) ([]Violation, error) {
	if hc.Evaluator == nil {
		return nil, fmt.Errorf("habitability constraint has no evaluator")
	}

	materials, sources, walls := b.MaterialIndex(), b.SourceIndex(), b.WallIndex()
	violations := make([]Violation, 0)

	for _, space := range b.Spaces() {
		res := hc.Evaluator.Evaluate(space.ID, materials, sources, walls)
		if acoustics.IsHabitable(res.Total, space.EffectiveThreshold()) {
			continue
		}
		violations = append(violations, Violation{
			Type:       NoiseExceeded,
			Severity:   Error,
			SpaceID:    space.ID,
			Constraint: hc.Name(),
			Message: fmt.Sprintf("Space %s noise %.2f exceeds threshold %.2f",
				space.ID, res.Total, *space.Threshold),
			Details: map[string]any{
				"noise":     res.Total,
				"threshold": *space.Threshold,
				"activity":  space.Activity,
			},
		})
	}

	return violations, nil
}
