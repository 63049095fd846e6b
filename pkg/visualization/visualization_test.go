package visualization

import (
	"bytes"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/dd0wney/cluso-habitat/pkg/building"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScene(mode Mode) Scene {
	return Scene{
		Title: "sample",
		Mode:  mode,
		Nodes: []Node{
			{ID: "A", Position: building.Position{X: 0, Y: 0, Z: 0}, Noise: 10, Threshold: building.Float(20), Habitable: true, Color: "red"},
			{ID: "B", Position: building.Position{X: 4, Y: 0, Z: 0}, Noise: 30, Threshold: building.Float(20), Habitable: false, Color: "blue"},
			{ID: "C", Position: building.Position{X: 0, Y: 4, Z: 4}, Noise: 5, Habitable: true, Color: "red"},
		},
		Edges: []Edge{{A: "A", B: "B", Material: "Brick"}, {A: "A", B: "C", Material: "Tile"}},
	}
}

func TestProject(t *testing.T) {
	origin := Project(building.Position{})
	assert.Equal(t, Point{}, origin)

	// Raising a space moves it straight up.
	up := Project(building.Position{Z: 3})
	assert.InDelta(t, 0, up.X, 1e-12)
	assert.InDelta(t, 3, up.Y, 1e-12)

	// X and Y axes go right and left.
	x := Project(building.Position{X: 1})
	y := Project(building.Position{Y: 1})
	assert.InDelta(t, math.Sqrt(3)/2, x.X, 1e-12)
	assert.InDelta(t, -math.Sqrt(3)/2, y.X, 1e-12)
	assert.InDelta(t, x.Y, y.Y, 1e-12)
}

func TestIsometricLayout_FitsBounds(t *testing.T) {
	layout := NewIsometricLayout(&LayoutConfig{Width: 200, Height: 100, Padding: 10})
	positions := layout.ComputeLayout(sampleScene(ModeHabitability).Nodes)

	require.Len(t, positions, 3)
	for id, p := range positions {
		assert.True(t, p.X >= 10 && p.X <= 190, "%s x=%v", id, p.X)
		assert.True(t, p.Y >= 10 && p.Y <= 90, "%s y=%v", id, p.Y)
	}
}

func TestCircularLayout(t *testing.T) {
	layout := NewCircularLayout(&LayoutConfig{Width: 100, Height: 100, Padding: 10})
	positions := layout.ComputeLayout(sampleScene(ModeHabitability).Nodes)

	require.Len(t, positions, 3)
	for _, p := range positions {
		dist := math.Hypot(p.X-50, p.Y-50)
		assert.InDelta(t, 40, dist, 1e-9)
	}
	assert.Empty(t, layout.ComputeLayout(nil))
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeHabitability},
		{"habitability", ModeHabitability},
		{"Gradient", ModeGradient},
		{"colouring", ModeColoring},
		{"coloring", ModeColoring},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseMode("sepia")
	assert.Error(t, err)
}

func TestGradientRatio(t *testing.T) {
	assert.Equal(t, 0.0, GradientRatio(100, nil))
	assert.InDelta(t, 0.5, GradientRatio(10, building.Float(20)), 1e-12)
	assert.Equal(t, 1.0, GradientRatio(50, building.Float(20)))
	assert.Equal(t, 1.0, GradientRatio(1, building.Float(0)))
	assert.Equal(t, 0.0, GradientRatio(0, building.Float(0)))
}

func TestGradient_Endpoints(t *testing.T) {
	green := color.RGBA{R: 0x00, G: 0x68, B: 0x37, A: 0xff}
	red := color.RGBA{R: 0xa5, G: 0x00, B: 0x26, A: 0xff}

	require.Len(t, gradientStops, 11)
	assert.Equal(t, green, Gradient(0))
	assert.Equal(t, green, Gradient(-3))
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xbf, A: 0xff}, Gradient(0.5))
	assert.Equal(t, red, Gradient(1))
	assert.Equal(t, red, Gradient(7))

	// Stops sit every tenth; 0.9 is the second stop from the red end.
	assert.Equal(t, uninhabitableRed, Gradient(0.9))
	assert.Equal(t, habitableColor, Gradient(0.1))
}

func TestGradient_Interpolates(t *testing.T) {
	// Halfway between 0xa50026 and 0xd73027.
	assert.Equal(t, color.RGBA{R: 0xbe, G: 0x18, B: 0x27, A: 0xff}, Gradient(0.95))
}

func TestNodeColor(t *testing.T) {
	scene := sampleScene(ModeHabitability)

	assert.Equal(t, habitableColor, NodeColor(ModeHabitability, scene.Nodes[0]))
	assert.Equal(t, uninhabitableRed, NodeColor(ModeHabitability, scene.Nodes[1]))

	// Unset threshold is fully green.
	assert.Equal(t, Gradient(0), NodeColor(ModeGradient, scene.Nodes[2]))

	blue, ok := PaletteColor("blue")
	require.True(t, ok)
	assert.Equal(t, blue, NodeColor(ModeColoring, scene.Nodes[1]))
}

func TestPaletteColor_UnknownIsStable(t *testing.T) {
	a, okA := PaletteColor("teal-ish")
	b, okB := PaletteColor("teal-ish")
	assert.False(t, okA || okB)
	assert.Equal(t, a, b)
}

func TestRenderer_Save(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(nil)

	for _, mode := range []Mode{ModeHabitability, ModeGradient, ModeColoring} {
		path := filepath.Join(dir, mode.String()+".png")
		require.NoError(t, r.Save(sampleScene(mode), path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	assert.Error(t, r.Save(sampleScene(ModeGradient), filepath.Join(dir, "out.bmp")))
}

func TestRenderer_WriteTo(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(NewCircularLayout(nil))

	require.NoError(t, r.WriteTo(&buf, sampleScene(ModeHabitability), "svg"))
	assert.Contains(t, buf.String(), "<svg")

	assert.Error(t, r.WriteTo(&buf, sampleScene(ModeHabitability), "gif"))
}

func TestRenderer_EmptyScene(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(nil).WriteTo(&buf, Scene{Title: "empty"}, "png"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}
