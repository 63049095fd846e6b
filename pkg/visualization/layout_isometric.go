package visualization

import (
	"math"

	"github.com/dd0wney/cluso-habitat/pkg/building"
)

var (
	isoCos = math.Cos(math.Pi / 6)
	isoSin = math.Sin(math.Pi / 6)
)

// Project maps building coordinates to the plane with a 30 degree
// isometric projection. Z points straight up.
func Project(p building.Position) Point {
	return Point{
		X: (p.X - p.Y) * isoCos,
		Y: (p.X+p.Y)*isoSin + p.Z,
	}
}

// IsometricLayout places spaces by projecting their positions.
type IsometricLayout struct {
	config *LayoutConfig
}

// NewIsometricLayout creates a new isometric layout
func NewIsometricLayout(config *LayoutConfig) *IsometricLayout {
	return &IsometricLayout{config: defaultConfig(config)}
}

// ComputeLayout projects and normalises node positions.
func (il *IsometricLayout) ComputeLayout(nodes []Node) map[string]Point {
	positions := make(map[string]Point, len(nodes))
	for _, n := range nodes {
		positions[n.ID] = Project(n.Position)
	}
	return normalizePositions(positions, il.config.Width, il.config.Height, il.config.Padding)
}
