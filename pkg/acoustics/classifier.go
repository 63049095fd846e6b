package acoustics

import "github.com/dd0wney/cluso-habitat/pkg/building"

// IsHabitable reports whether total noise stays within threshold. Pass
// math.Inf(1) for an unset threshold.
func IsHabitable(total, threshold float64) bool {
	return total <= threshold
}

// Verdict pairs a space's noise with its threshold.
type Verdict struct {
	SpaceID   string   `json:"space_id"`
	Noise     float64  `json:"noise"`
	Threshold *float64 `json:"threshold,omitempty"`
	Habitable bool     `json:"habitable"`
}

// Classify builds the verdict for a space from an evaluation result.
func Classify(space building.Space, res Result) Verdict {
	return Verdict{
		SpaceID:   space.ID,
		Noise:     res.Total,
		Threshold: space.Threshold,
		Habitable: IsHabitable(res.Total, space.EffectiveThreshold()),
	}
}
