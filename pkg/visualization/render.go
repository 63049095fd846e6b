package visualization

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Canvas size of rendered images.
var (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

var wallColor = color.RGBA{R: 120, G: 120, B: 120, A: 255}

// Renderer draws scenes with gonum/plot.
type Renderer struct {
	Layout Layout
	Width  vg.Length
	Height vg.Length
}

// NewRenderer creates a renderer. A nil layout projects isometrically.
func NewRenderer(layout Layout) *Renderer {
	if layout == nil {
		layout = NewIsometricLayout(nil)
	}
	return &Renderer{Layout: layout, Width: DefaultWidth, Height: DefaultHeight}
}

// Plot builds the plot for a scene: walls as lines, spaces as filled
// circles labelled with their ID and noise.
func (r *Renderer) Plot(scene Scene) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s)", scene.Title, scene.Mode)
	p.HideAxes()

	positions := r.Layout.ComputeLayout(scene.Nodes)

	for _, e := range scene.Edges {
		a, okA := positions[e.A]
		b, okB := positions[e.B]
		if !okA || !okB {
			continue
		}
		line, err := plotter.NewLine(plotter.XYs{{X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}})
		if err != nil {
			return nil, fmt.Errorf("wall %s|%s: %w", e.A, e.B, err)
		}
		line.LineStyle.Color = wallColor
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
	}

	labels := plotter.XYLabels{}
	for _, n := range scene.Nodes {
		pos := positions[n.ID]
		sc, err := plotter.NewScatter(plotter.XYs{{X: pos.X, Y: pos.Y}})
		if err != nil {
			return nil, fmt.Errorf("space %s: %w", n.ID, err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(9)
		sc.GlyphStyle.Color = NodeColor(scene.Mode, n)
		p.Add(sc)

		labels.XYs = append(labels.XYs, plotter.XY{X: pos.X, Y: pos.Y})
		labels.Labels = append(labels.Labels, fmt.Sprintf("%s %.1f", n.ID, n.Noise))
	}

	if len(labels.XYs) > 0 {
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return nil, fmt.Errorf("labels: %w", err)
		}
		for i := range l.TextStyle {
			l.TextStyle[i].XAlign = text.XCenter
			l.TextStyle[i].YAlign = text.YTop
		}
		l.Offset = vg.Point{Y: -vg.Points(11)}
		p.Add(l)
	}

	return p, nil
}

// Formats accepted by Save and WriteTo.
var Formats = []string{"png", "svg", "pdf", "jpg", "jpeg", "tif", "tiff", "eps"}

// Save renders scene to path; the extension picks the format.
func (r *Renderer) Save(scene Scene, path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !supported(format) {
		return fmt.Errorf("unsupported image format %q", format)
	}
	p, err := r.Plot(scene)
	if err != nil {
		return err
	}
	return p.Save(r.Width, r.Height, path)
}

// WriteTo renders scene to w in the given format.
func (r *Renderer) WriteTo(w io.Writer, scene Scene, format string) error {
	format = strings.ToLower(format)
	if !supported(format) {
		return fmt.Errorf("unsupported image format %q", format)
	}
	p, err := r.Plot(scene)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(r.Width, r.Height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func supported(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
