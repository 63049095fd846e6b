package habitat

import (
	"time"

	"github.com/dd0wney/cluso-habitat/pkg/acoustics"
	"github.com/dd0wney/cluso-habitat/pkg/building"
)

// SpaceView is a space with its current noise verdict.
type SpaceView struct {
	ID        string            `json:"id"`
	Position  building.Position `json:"position"`
	Activity  string            `json:"activity,omitempty"`
	Threshold *float64          `json:"threshold,omitempty"`
	Noise     float64           `json:"noise"`
	Habitable bool              `json:"habitable"`
	Degree    int               `json:"degree"`
}

// Evaluation is the state of every space at one moment.
type Evaluation struct {
	Building     string              `json:"building"`
	Spaces       []SpaceView         `json:"spaces"`
	Warnings     []acoustics.Warning `json:"warnings,omitempty"`
	Habitable    int                 `json:"habitable"`
	AllHabitable bool                `json:"all_habitable"`
	EvaluatedAt  time.Time           `json:"evaluated_at"`
}

// Failing returns the IDs of spaces over their threshold.
func (e Evaluation) Failing() []string {
	var out []string
	for _, s := range e.Spaces {
		if !s.Habitable {
			out = append(out, s.ID)
		}
	}
	return out
}

// EventKind names what changed.
type EventKind string

const (
	EventEvaluated          EventKind = "evaluated"
	EventNoiseSourceUpdated EventKind = "noise_source_updated"
	EventRepaired           EventKind = "repaired"
	EventReset              EventKind = "reset"
	EventReloaded           EventKind = "reloaded"
)

// Event is published after mutations and evaluations.
type Event struct {
	Kind       EventKind         `json:"kind"`
	At         time.Time         `json:"at"`
	Snapshot   building.Snapshot `json:"snapshot"`
	Evaluation Evaluation        `json:"evaluation"`
}
