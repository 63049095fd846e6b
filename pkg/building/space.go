package building

import "math"

// Position is a point in building coordinates. It only feeds renderers.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Space is a room: a node of the adjacency graph.
type Space struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Activity string   `json:"activity,omitempty"`
	// Threshold is the maximum tolerated noise; nil means unlimited.
	Threshold *float64 `json:"threshold,omitempty"`
	Seq       uint64   `json:"seq"`
}

// EffectiveThreshold returns the threshold, or +Inf when none is set.
func (s Space) EffectiveThreshold() float64 {
	if s.Threshold == nil {
		return math.Inf(1)
	}
	return *s.Threshold
}

// HasThreshold reports whether a threshold is set.
func (s Space) HasThreshold() bool {
	return s.Threshold != nil
}

func (s Space) clone() Space {
	if s.Threshold != nil {
		v := *s.Threshold
		s.Threshold = &v
	}
	return s
}

// Float returns a pointer to v, for building thresholds inline.
func Float(v float64) *float64 {
	return &v
}
