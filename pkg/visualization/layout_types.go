// Package visualization renders buildings as annotated graphs.
package visualization

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-habitat/pkg/building"
)

// Point represents a 2D coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width   float64 // Canvas width
	Height  float64 // Canvas height
	Padding float64 // Padding from edges
}

// Layout places scene nodes on a plane.
type Layout interface {
	ComputeLayout(nodes []Node) map[string]Point
}

// Mode selects how spaces are coloured.
type Mode int

const (
	// ModeHabitability: green when habitable, red otherwise.
	ModeHabitability Mode = iota
	// ModeGradient: red-yellow-green by noise over threshold.
	ModeGradient
	// ModeColoring: the space's graph colouring.
	ModeColoring
)

func (m Mode) String() string {
	switch m {
	case ModeHabitability:
		return "habitability"
	case ModeGradient:
		return "gradient"
	case ModeColoring:
		return "coloring"
	default:
		return "unknown"
	}
}

// ParseMode resolves a mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "habitability", "habitable":
		return ModeHabitability, nil
	case "gradient":
		return ModeGradient, nil
	case "coloring", "colouring", "color":
		return ModeColoring, nil
	default:
		return 0, fmt.Errorf("unknown render mode %q", s)
	}
}

// Node is a space as drawn.
type Node struct {
	ID        string
	Position  building.Position
	Noise     float64
	Threshold *float64
	Habitable bool
	// Color is a palette name; only ModeColoring reads it.
	Color string
}

// Edge is a wall as drawn.
type Edge struct {
	A, B     string
	Material string
}

// Scene is everything a renderer needs.
type Scene struct {
	Title string
	Mode  Mode
	Nodes []Node
	Edges []Edge
}
