package constraints

import (
	"github.com/dd0wney/cluso-habitat/pkg/building"
)

// BuildingReader defines the read-only operations needed for constraint
// validation. *building.Building satisfies it.
type BuildingReader interface {
	Spaces() []building.Space
	Walls() []building.Wall
	NoiseSources() []building.NoiseSource
	Material(id string) (building.Material, bool)

	MaterialIndex() map[string]building.Material
	SourceIndex() map[string]building.NoiseSource
	WallIndex() map[building.WallKey]string
}

// Severity indicates the importance of a violation
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// MarshalText serialises the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ViolationType categorizes the type of constraint violation
type ViolationType int

const (
	NoiseExceeded ViolationType = iota
	UnknownMaterialReference
	UnsupportedFrequencyBand
)

func (vt ViolationType) String() string {
	switch vt {
	case NoiseExceeded:
		return "NoiseExceeded"
	case UnknownMaterialReference:
		return "UnknownMaterialReference"
	case UnsupportedFrequencyBand:
		return "UnsupportedFrequencyBand"
	default:
		return "Unknown"
	}
}

// MarshalText serialises the type by name.
func (vt ViolationType) MarshalText() ([]byte, error) {
	return []byte(vt.String()), nil
}

// Violation represents a constraint violation
type Violation struct {
	Type       ViolationType     `json:"type"`
	Severity   Severity          `json:"severity"`
	SpaceID    string            `json:"space_id,omitempty"`
	Wall       *building.WallKey `json:"wall,omitempty"`
	SourceID   string            `json:"source_id,omitempty"`
	Constraint string            `json:"constraint"`
	Message    string            `json:"message"`
	Details    map[string]any    `json:"details,omitempty"`
}

// Constraint is the interface that all constraint types must implement.
type Constraint interface {
	// Validate checks the constraint against the building
	// Returns a list of violations (empty if valid)
	Validate(b BuildingReader) ([]Violation, error)

	// Name returns a human-readable name for the constraint
	Name() string
}
