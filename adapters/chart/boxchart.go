package chart

import (
	"fmt"
	"image/color"
	"math/rand"
	"os"

	"gostai/ports"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	defaultWidth  = 10 * vg.Inch
	defaultHeight = 6 * vg.Inch
	boxWidth      = 1.2 * vg.Centimeter
	jitterSpread  = 0.16
)

// BoxChartRenderer draws box plots with overlaid jittered observations to PNG
type BoxChartRenderer struct {
	seed   int64
	dpi    int
	width  vg.Length
	height vg.Length
}

// NewBoxChartRenderer creates a renderer. Every chart reseeds its jitter from seed,
// so a chart looks the same regardless of how many were drawn before it.
func NewBoxChartRenderer(seed int64, dpi int) *BoxChartRenderer {
	if dpi <= 0 {
		dpi = 96
	}
	return &BoxChartRenderer{seed: seed, dpi: dpi, width: defaultWidth, height: defaultHeight}
}

// RenderBoxChart implements ports.ChartRenderer
func (r *BoxChartRenderer) RenderBoxChart(path string, chart ports.BoxChart) error {
	if len(chart.Groups) == 0 {
		return fmt.Errorf("chart %q has no groups", chart.Title)
	}

	p, err := r.build(chart)
	if err != nil {
		return err
	}

	canvas := vgimg.NewWith(vgimg.UseWH(r.width, r.height), vgimg.UseDPI(r.dpi))
	p.Draw(draw.New(canvas))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func (r *BoxChartRenderer) build(chart ports.BoxChart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = chart.Title
	p.Y.Label.Text = chart.YLabel

	rng := rand.New(rand.NewSource(r.seed))
	names := make([]string, len(chart.Groups))
	var all []float64
	means := make(plotter.XYs, 0, len(chart.Groups))

	for i, g := range chart.Groups {
		if len(g.Values) == 0 {
			return nil, fmt.Errorf("chart group %q is empty", g.Label)
		}
		names[i] = fmt.Sprintf("%s\n(n=%d)", g.Label, len(g.Values))
		all = append(all, g.Values...)

		box, err := plotter.NewBoxPlot(boxWidth, float64(i), plotter.Values(g.Values))
		if err != nil {
			return nil, fmt.Errorf("box plot for %q: %w", g.Label, err)
		}
		box.FillColor = withAlpha(plotutil.Color(i), 0x60)
		p.Add(box)

		points := make(plotter.XYs, len(g.Values))
		for j, v := range g.Values {
			points[j].X = float64(i) + (rng.Float64()-0.5)*jitterSpread
			points[j].Y = v
		}
		scatter, err := plotter.NewScatter(points)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(3)
		scatter.GlyphStyle.Color = color.RGBA{A: 0xb0}
		p.Add(scatter)

		means = append(means, plotter.XY{X: float64(i), Y: stat.Mean(g.Values, nil)})
	}

	meanMarkers, err := plotter.NewScatter(means)
	if err != nil {
		return nil, err
	}
	meanMarkers.GlyphStyle.Shape = draw.PyramidGlyph{}
	meanMarkers.GlyphStyle.Radius = vg.Points(5)
	meanMarkers.GlyphStyle.Color = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	p.Add(meanMarkers)
	p.Legend.Add("Mean", meanMarkers)
	p.Legend.Top = true

	if chart.ZeroLine {
		zero := plotter.NewFunction(func(float64) float64 { return 0 })
		zero.Color = color.Gray{Y: 0x80}
		zero.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(zero)
	}

	p.NominalX(names...)
	p.X.Min = -0.5
	p.X.Max = float64(len(chart.Groups)) - 0.5

	if chart.Annotation != "" {
		top := floats.Max(all)
		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: -0.45, Y: top}},
			Labels: []string{chart.Annotation},
		})
		if err != nil {
			return nil, err
		}
		p.Add(labels)
	}

	return p, nil
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}
