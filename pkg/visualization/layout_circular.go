package visualization

import (
	"math"
)

// CircularLayout arranges spaces in a circle, in scene order. It suits
// buildings whose positions overlap.
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	return &CircularLayout{config: defaultConfig(config)}
}

// ComputeLayout arranges nodes in a circle
func (cl *CircularLayout) ComputeLayout(nodes []Node) map[string]Point {
	positions := make(map[string]Point, len(nodes))

	if len(nodes) == 0 {
		return positions
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	radius := math.Min(centerX, centerY) - cl.config.Padding

	angleStep := 2 * math.Pi / float64(len(nodes))

	for i, n := range nodes {
		angle := float64(i) * angleStep
		positions[n.ID] = Point{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions
}
