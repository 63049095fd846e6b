package building

// Snapshot is a read-only, plain-data copy of a building for presentation
// layers. Slices are in registration order.
type Snapshot struct {
	Name         string        `json:"name"`
	Materials    []Material    `json:"materials"`
	NoiseSources []NoiseSource `json:"noise_sources"`
	Spaces       []Space       `json:"spaces"`
	Walls        []Wall        `json:"walls"`
}

// Snapshot copies the current state.
func (b *Building) Snapshot() Snapshot {
	return Snapshot{
		Name:         b.Name,
		Materials:    b.Materials(),
		NoiseSources: b.NoiseSources(),
		Spaces:       b.Spaces(),
		Walls:        b.Walls(),
	}
}

// Stats summarises registry sizes.
type Stats struct {
	Materials    int `json:"materials"`
	NoiseSources int `json:"noise_sources"`
	Spaces       int `json:"spaces"`
	Walls        int `json:"walls"`
}

// Stats returns registry sizes.
func (b *Building) Stats() Stats {
	return Stats{
		Materials:    len(b.materials.order),
		NoiseSources: len(b.sources.order),
		Spaces:       len(b.spaces.order),
		Walls:        len(b.wallOrder),
	}
}
