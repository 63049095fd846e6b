package algorithms

import (
	"errors"
	"fmt"
	"sort"
)

// ErrPaletteExhausted is returned when a space has no free palette colour.
var ErrPaletteExhausted = errors.New("palette exhausted")

// PaletteExhaustedError names the space that could not be coloured.
type PaletteExhaustedError struct {
	SpaceID        string
	PaletteSize    int
	NeighborColors int
}

func (e *PaletteExhaustedError) Error() string {
	return fmt.Sprintf("%v: space %q has %d distinct neighbour colours, palette has %d",
		ErrPaletteExhausted, e.SpaceID, e.NeighborColors, e.PaletteSize)
}

func (e *PaletteExhaustedError) Unwrap() error {
	return ErrPaletteExhausted
}

// Graph is the read-only view the colouring needs. SpaceIDs must return a
// stable order; it breaks degree ties.
type Graph interface {
	SpaceIDs() []string
	Neighbors(spaceID string) []string
}

// Coloring maps each space to a palette colour.
type Coloring struct {
	Assignments map[string]string `json:"assignments"`
	// Order is the degree-descending visiting order actually used.
	Order      []string `json:"order"`
	ColorsUsed int      `json:"colors_used"`
}

// WelchPowell colours the graph greedily: spaces are visited by descending
// degree (ties keep the graph's SpaceIDs order) and each takes the first
// palette colour none of its already-coloured neighbours has.
func WelchPowell(g Graph, palette []string) (*Coloring, error) {
	ids := g.SpaceIDs()

	neighbors := make(map[string]map[string]bool, len(ids))
	for _, id := range ids {
		set := make(map[string]bool)
		for _, n := range g.Neighbors(id) {
			if n != id {
				set[n] = true
			}
		}
		neighbors[id] = set
	}

	order := append([]string(nil), ids...)
	sort.SliceStable(order, func(i, j int) bool {
		return len(neighbors[order[i]]) > len(neighbors[order[j]])
	})

	assigned := make(map[string]string, len(ids))
	used := make(map[string]bool)
	for _, id := range order {
		taken := make(map[string]bool)
		for n := range neighbors[id] {
			if c, ok := assigned[n]; ok {
				taken[c] = true
			}
		}

		color, ok := firstFree(palette, taken)
		if !ok {
			return nil, &PaletteExhaustedError{
				SpaceID:        id,
				PaletteSize:    len(palette),
				NeighborColors: len(taken),
			}
		}
		assigned[id] = color
		used[color] = true
	}

	return &Coloring{
		Assignments: assigned,
		Order:       order,
		ColorsUsed:  len(used),
	}, nil
}

func firstFree(palette []string, taken map[string]bool) (string, bool) {
	for _, c := range palette {
		if !taken[c] {
			return c, true
		}
	}
	return "", false
}

// IsProperColoring reports whether every space is coloured and no two
// neighbours share a colour.
func IsProperColoring(g Graph, assignments map[string]string) bool {
	for _, id := range g.SpaceIDs() {
		c, ok := assignments[id]
		if !ok {
			return false
		}
		for _, n := range g.Neighbors(id) {
			if n != id && assignments[n] == c {
				return false
			}
		}
	}
	return true
}

// MaxDegree returns the largest number of distinct neighbours of any space.
func MaxDegree(g Graph) int {
	max := 0
	for _, id := range g.SpaceIDs() {
		set := make(map[string]bool)
		for _, n := range g.Neighbors(id) {
			if n != id {
				set[n] = true
			}
		}
		if len(set) > max {
			max = len(set)
		}
	}
	return max
}
