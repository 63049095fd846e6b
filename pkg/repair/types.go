package repair

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-habitat/pkg/building"
)

// Defaults for the threshold-raising fallback.
const (
	DefaultFloor  = 40.0
	DefaultMargin = 5.0
)

// Config controls a Repairer.
type Config struct {
	// Seed drives the activity shuffle of the fallback phase.
	Seed int64
	// Floor and Margin set raised thresholds to max(noise, Floor) + Margin.
	// Nil means the default; zero is a legal value for both.
	Floor  *float64
	Margin *float64
	// PreferredMaterials are tried before the rest of the registry.
	PreferredMaterials []string
}

func (c Config) withDefaults() Config {
	if c.Floor == nil {
		c.Floor = building.Float(DefaultFloor)
	}
	if c.Margin == nil {
		c.Margin = building.Float(DefaultMargin)
	}
	return c
}

// Phase names how a space was handled.
type Phase int

const (
	// PhaseUnresolved: still failing (only visible mid-run).
	PhaseUnresolved Phase = iota
	// PhaseMaterial: fixed by substituting the material of its walls.
	PhaseMaterial
	// PhaseNeighbor: fixed as a side effect of a neighbour's substitution.
	PhaseNeighbor
	// PhaseThreshold: activity reshuffled and threshold raised.
	PhaseThreshold
)

func (p Phase) String() string {
	switch p {
	case PhaseMaterial:
		return "material"
	case PhaseNeighbor:
		return "neighbor"
	case PhaseThreshold:
		return "threshold"
	default:
		return "unresolved"
	}
}

// MarshalText serialises the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase name written by MarshalText.
func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{PhaseUnresolved, PhaseMaterial, PhaseNeighbor, PhaseThreshold} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown repair phase %q", text)
}

// WallChange is one committed material substitution.
type WallChange struct {
	Wall   building.WallKey `json:"wall"`
	Before string           `json:"before"`
	After  string           `json:"after"`
}

// SpaceRepair records what happened to one initially failing space.
type SpaceRepair struct {
	SpaceID         string       `json:"space_id"`
	Phase           Phase        `json:"phase"`
	CandidatesTried []string     `json:"candidates_tried,omitempty"`
	Material        string       `json:"material,omitempty"`
	WallChanges     []WallChange `json:"wall_changes,omitempty"`
	ActivityBefore  string       `json:"activity_before,omitempty"`
	ActivityAfter   string       `json:"activity_after,omitempty"`
	ThresholdBefore *float64     `json:"threshold_before,omitempty"`
	ThresholdAfter  *float64     `json:"threshold_after,omitempty"`
	NoiseBefore     float64      `json:"noise_before"`
	NoiseAfter      float64      `json:"noise_after"`
}

// Report is the outcome of one Repair call.
type Report struct {
	ID        string        `json:"id"`
	Changed   bool          `json:"changed"`
	Message   string        `json:"message"`
	Seed      int64         `json:"seed"`
	Spaces    []SpaceRepair `json:"spaces"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Count returns how many spaces ended in phase p.
func (r *Report) Count(p Phase) int {
	n := 0
	for _, s := range r.Spaces {
		if s.Phase == p {
			n++
		}
	}
	return n
}

// Space returns the record for spaceID, if the space was repaired.
func (r *Report) Space(spaceID string) (SpaceRepair, bool) {
	for _, s := range r.Spaces {
		if s.SpaceID == spaceID {
			return s, true
		}
	}
	return SpaceRepair{}, false
}
