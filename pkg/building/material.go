package building

// Supported absorption bands, in Hz.
const (
	Band500Hz  = 500
	Band2000Hz = 2000
)

// Bands lists the supported frequency bands in ascending order.
var Bands = []int{Band500Hz, Band2000Hz}

// Material is a wall construction type with an absorption coefficient per
// supported band. The coefficient multiplies a source's intensity, so lower
// values let less noise through.
type Material struct {
	ID             string  `json:"id"`
	Absorption500  float64 `json:"absorption_500hz"`
	Absorption2000 float64 `json:"absorption_2000hz"`
	Seq            uint64  `json:"seq"`
}

// Absorption returns the coefficient for the band matching freq. The second
// result is false when freq is not one of Bands.
func (m Material) Absorption(freq int) (float64, bool) {
	switch freq {
	case Band500Hz:
		return m.Absorption500, true
	case Band2000Hz:
		return m.Absorption2000, true
	default:
		return 0, false
	}
}

// SupportsBand reports whether freq resolves to an absorption band.
func SupportsBand(freq int) bool {
	return freq == Band500Hz || freq == Band2000Hz
}
