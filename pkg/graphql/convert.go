package graphql

import (
	"strconv"
	"time"

	"github.com/dd0wney/cluso-habitat/pkg/acoustics"
	"github.com/dd0wney/cluso-habitat/pkg/algorithms"
	"github.com/dd0wney/cluso-habitat/pkg/building"
	"github.com/dd0wney/cluso-habitat/pkg/constraints"
	"github.com/dd0wney/cluso-habitat/pkg/habitat"
	"github.com/dd0wney/cluso-habitat/pkg/repair"
)

// Resolvers hand maps to the default field resolver so field names stay
// independent of Go struct names.

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func spaceToMap(s habitat.SpaceView) map[string]any {
	return map[string]any{
		"id": s.ID,
		"position": map[string]any{
			"x": s.Position.X,
			"y": s.Position.Y,
			"z": s.Position.Z,
		},
		"activity":  s.Activity,
		"threshold": floatOrNil(s.Threshold),
		"noise":     s.Noise,
		"habitable": s.Habitable,
		"degree":    s.Degree,
	}
}

func spacesToList(spaces []habitat.SpaceView) []any {
	out := make([]any, 0, len(spaces))
	for _, s := range spaces {
		out = append(out, spaceToMap(s))
	}
	return out
}

func materialToMap(m building.Material) map[string]any {
	return map[string]any{
		"id":             m.ID,
		"absorption500":  m.Absorption500,
		"absorption2000": m.Absorption2000,
	}
}

func sourceToMap(s building.NoiseSource) map[string]any {
	return map[string]any{
		"id":        s.ID,
		"frequency": s.Frequency,
		"intensity": s.Intensity,
	}
}

func wallToMap(w building.Wall) map[string]any {
	return map[string]any{
		"a":        w.Key.A,
		"b":        w.Key.B,
		"material": w.MaterialID,
	}
}

func warningToMap(w acoustics.Warning) map[string]any {
	return map[string]any{
		"kind":     w.Kind.String(),
		"spaceId":  w.SpaceID,
		"wall":     w.Wall.String(),
		"material": w.MaterialID,
		"source":   w.SourceID,
		"message":  w.String(),
	}
}

func evaluationToMap(ev habitat.Evaluation) map[string]any {
	warnings := make([]any, 0, len(ev.Warnings))
	for _, w := range ev.Warnings {
		warnings = append(warnings, warningToMap(w))
	}
	failing := ev.Failing()
	if failing == nil {
		failing = []string{}
	}
	return map[string]any{
		"building":     ev.Building,
		"spaces":       spacesToList(ev.Spaces),
		"warnings":     warnings,
		"habitable":    ev.Habitable,
		"allHabitable": ev.AllHabitable,
		"failing":      failing,
	}
}

// coloringToMap lists assignments in colouring order.
func coloringToMap(c *algorithms.Coloring) map[string]any {
	assignments := make([]any, 0, len(c.Order))
	for _, id := range c.Order {
		assignments = append(assignments, map[string]any{
			"space": id,
			"color": c.Assignments[id],
		})
	}
	return map[string]any{
		"assignments": assignments,
		"colorsUsed":  c.ColorsUsed,
	}
}

func checkToMap(res *constraints.ValidationResult) map[string]any {
	violations := make([]any, 0, len(res.Violations))
	for _, v := range res.Violations {
		violations = append(violations, map[string]any{
			"type":       v.Type.String(),
			"severity":   v.Severity.String(),
			"spaceId":    v.SpaceID,
			"constraint": v.Constraint,
			"message":    v.Message,
		})
	}
	return map[string]any{
		"valid":      res.Valid,
		"violations": violations,
	}
}

func reportToMap(r *repair.Report) map[string]any {
	spaces := make([]any, 0, len(r.Spaces))
	for _, s := range r.Spaces {
		changes := make([]any, 0, len(s.WallChanges))
		for _, c := range s.WallChanges {
			changes = append(changes, map[string]any{
				"wall":   c.Wall.String(),
				"before": c.Before,
				"after":  c.After,
			})
		}
		spaces = append(spaces, map[string]any{
			"spaceId":         s.SpaceID,
			"phase":           s.Phase.String(),
			"candidatesTried": s.CandidatesTried,
			"material":        s.Material,
			"wallChanges":     changes,
			"activityBefore":  s.ActivityBefore,
			"activityAfter":   s.ActivityAfter,
			"thresholdBefore": floatOrNil(s.ThresholdBefore),
			"thresholdAfter":  floatOrNil(s.ThresholdAfter),
			"noiseBefore":     s.NoiseBefore,
			"noiseAfter":      s.NoiseAfter,
		})
	}
	return map[string]any{
		"id":         r.ID,
		"changed":    r.Changed,
		"message":    r.Message,
		"seed":       strconv.FormatInt(r.Seed, 10),
		"durationMs": float64(r.Duration) / float64(time.Millisecond),
		"spaces":     spaces,
	}
}
