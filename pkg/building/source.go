package building

// NoiseSource is an external emitter. Frequency must resolve to a material
// band for the source to contribute anything.
type NoiseSource struct {
	ID        string  `json:"id"`
	Frequency int     `json:"frequency_hz"`
	Intensity float64 `json:"intensity"`
	Seq       uint64  `json:"seq"`
}
