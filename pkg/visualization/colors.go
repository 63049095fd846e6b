package visualization

import (
	"hash/fnv"
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/plot/palette/brewer"
)

var (
	habitableColor   = color.RGBA{R: 26, G: 152, B: 80, A: 255}
	uninhabitableRed = color.RGBA{R: 215, G: 48, B: 39, A: 255}

	// gradientStops runs from red to green.
	gradientStops = mustBrewer("RdYlGn", 11)
)

func mustBrewer(name string, n int) []color.RGBA {
	p, err := brewer.GetPalette(brewer.TypeAny, name, n)
	if err != nil {
		panic(err)
	}
	colors := p.Colors()
	out := make([]color.RGBA, len(colors))
	for i, c := range colors {
		out[i] = color.RGBAModel.Convert(c).(color.RGBA)
	}
	return out
}

var paletteColors = map[string]color.RGBA{
	"red":    {R: 228, G: 26, B: 28, A: 255},
	"blue":   {R: 55, G: 126, B: 184, A: 255},
	"green":  {R: 77, G: 175, B: 74, A: 255},
	"yellow": {R: 255, G: 217, B: 47, A: 255},
	"purple": {R: 152, G: 78, B: 163, A: 255},
	"orange": {R: 255, G: 127, B: 0, A: 255},
	"brown":  {R: 166, G: 86, B: 40, A: 255},
	"pink":   {R: 247, G: 129, B: 191, A: 255},
	"grey":   {R: 153, G: 153, B: 153, A: 255},
	"gray":   {R: 153, G: 153, B: 153, A: 255},
}

// PaletteColor resolves a palette name. Unknown names get a stable colour
// derived from the name, and ok is false.
func PaletteColor(name string) (c color.RGBA, ok bool) {
	if c, ok := paletteColors[strings.ToLower(name)]; ok {
		return c, true
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	sum := h.Sum32()
	return color.RGBA{R: uint8(sum >> 16), G: uint8(sum >> 8), B: uint8(sum), A: 255}, false
}

// GradientRatio is min(noise/threshold, 1), or 0 for an unset threshold.
func GradientRatio(noise float64, threshold *float64) float64 {
	if threshold == nil {
		return 0
	}
	if *threshold <= 0 {
		if noise <= 0 {
			return 0
		}
		return 1
	}
	return math.Max(0, math.Min(noise / *threshold, 1))
}

// Gradient maps a ratio in [0, 1] onto the RdYlGn scale read backwards:
// 0 is its green end and 1 its red end.
func Gradient(ratio float64) color.RGBA {
	ratio = math.Max(0, math.Min(ratio, 1))
	pos := (1 - ratio) * float64(len(gradientStops)-1)
	i := int(math.Floor(pos))
	if i >= len(gradientStops)-1 {
		return gradientStops[len(gradientStops)-1]
	}
	return lerp(gradientStops[i], gradientStops[i+1], pos-float64(i))
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// NodeColor returns the fill for a node under mode.
func NodeColor(mode Mode, n Node) color.RGBA {
	switch mode {
	case ModeGradient:
		return Gradient(GradientRatio(n.Noise, n.Threshold))
	case ModeColoring:
		c, _ := PaletteColor(n.Color)
		return c
	default:
		if n.Habitable {
			return habitableColor
		}
		return uninhabitableRed
	}
}
