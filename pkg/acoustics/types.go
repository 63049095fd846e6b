package acoustics

import (
	"fmt"

	"github.com/dd0wney/cluso-habitat/pkg/building"
)

// DefaultSideMultiplier counts both faces of a shared wall. Every total
// scales linearly with it.
const DefaultSideMultiplier = 2.0

// Config configures an Evaluator.
type Config struct {
	// SideMultiplier scales every wall/source contribution. Zero means
	// DefaultSideMultiplier, so a multiplier of zero cannot be requested.
	SideMultiplier float64
}

// WarningKind categorises a recovered data problem.
type WarningKind int

const (
	// UnknownMaterialReference: a wall names a material not in the registry.
	UnknownMaterialReference WarningKind = iota
	// UnsupportedFrequencyBand: a source frequency has no absorption band.
	UnsupportedFrequencyBand
)

func (k WarningKind) String() string {
	switch k {
	case UnknownMaterialReference:
		return "UnknownMaterialReference"
	case UnsupportedFrequencyBand:
		return "UnsupportedFrequencyBand"
	default:
		return "Unknown"
	}
}

// MarshalText lets warnings serialise by name.
func (k WarningKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Warning describes a skipped contribution.
type Warning struct {
	Kind       WarningKind      `json:"kind"`
	SpaceID    string           `json:"space_id"`
	Wall       building.WallKey `json:"wall"`
	MaterialID string           `json:"material_id"`
	SourceID   string           `json:"source_id,omitempty"`
	Frequency  int              `json:"frequency_hz,omitempty"`
}

func (w Warning) String() string {
	switch w.Kind {
	case UnknownMaterialReference:
		return fmt.Sprintf("wall %s references unknown material %q", w.Wall, w.MaterialID)
	case UnsupportedFrequencyBand:
		return fmt.Sprintf("material %q has no absorption band for source %q at %d Hz",
			w.MaterialID, w.SourceID, w.Frequency)
	default:
		return "unknown warning"
	}
}

// Contribution is one wall/source term of a total.
type Contribution struct {
	Wall       building.WallKey `json:"wall"`
	MaterialID string           `json:"material_id"`
	SourceID   string           `json:"source_id"`
	Intensity  float64          `json:"intensity"`
	Absorption float64          `json:"absorption"`
	Value      float64          `json:"value"`
}

// Result is the noise reaching one space.
type Result struct {
	SpaceID       string         `json:"space_id"`
	Total         float64        `json:"total"`
	Contributions []Contribution `json:"contributions,omitempty"`
	Warnings      []Warning      `json:"warnings,omitempty"`
}
