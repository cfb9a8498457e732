// Package figure renders simulation output as SVG charts suitable for
// dropping into a site's static directory, so posts can embed the
// exact figures their numbers came from.
package figure

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ovenbird/crumb/pkg/cashflow"
)

var (
	// ErrNoData is returned when there is nothing to draw.
	ErrNoData = errors.New("figure: no data")

	// ErrBadExtension is returned when the output path is not .svg.
	ErrBadExtension = errors.New("figure: output must be .svg")

	// ErrBadStep is returned when the x step is not positive.
	ErrBadStep = errors.New("figure: dx must be positive")

	// ErrLengthMismatch is returned when series disagree on length.
	ErrLengthMismatch = errors.New("figure: series lengths differ")
)

// Line is one named series. An empty name keeps it off the legend.
type Line struct {
	Name string
	Ys   []float64
}

const (
	chartWidth  = 6 * vg.Inch
	chartHeight = 4 * vg.Inch
)

// palette cycles for multi-line charts.
var palette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
}

// WriteLines draws the series on shared axes, x advancing by dx per
// sample, and saves the chart to path.
func WriteLines(path, title, xlabel, ylabel string, dx float64, lines []Line) error {
	if err := checkExtension(path); err != nil {
		return err
	}
	if dx <= 0 {
		return ErrBadStep
	}
	if len(lines) == 0 || len(lines[0].Ys) == 0 {
		return ErrNoData
	}
	n := len(lines[0].Ys)
	for _, l := range lines {
		if len(l.Ys) != n {
			return fmt.Errorf("%w: %q has %d points, want %d", ErrLengthMismatch, l.Name, len(l.Ys), n)
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())

	for i, l := range lines {
		ln, err := plotter.NewLine(series(dx, l.Ys))
		if err != nil {
			return fmt.Errorf("figure: build line %q: %w", l.Name, err)
		}
		ln.Color = palette[i%len(palette)]
		ln.Width = vg.Points(1.5)
		p.Add(ln)
		if l.Name != "" {
			p.Legend.Add(l.Name, ln)
		}
	}
	p.Legend.Top = true

	return save(p, path)
}

// WriteFan draws a simulation result as a fan chart: the outermost
// quantile band shaded, every quantile as a thin line, and the mean
// dashed on top.
func WriteFan(path, title string, result *cashflow.Result) error {
	if err := checkExtension(path); err != nil {
		return err
	}
	if result == nil || len(result.Mean) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "month"
	p.Y.Label.Text = "net worth"
	p.Add(plotter.NewGrid())

	bands := append([]cashflow.Band(nil), result.Bands...)
	sort.Slice(bands, func(i, j int) bool { return bands[i].P < bands[j].P })

	if len(bands) >= 2 {
		lo, hi := bands[0], bands[len(bands)-1]
		if len(lo.Series) != len(result.Mean) || len(hi.Series) != len(result.Mean) {
			return ErrLengthMismatch
		}
		poly, err := plotter.NewPolygon(ring(lo.Series, hi.Series))
		if err != nil {
			return fmt.Errorf("figure: build band: %w", err)
		}
		poly.Color = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0x30}
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	for i, b := range bands {
		if len(b.Series) != len(result.Mean) {
			return ErrLengthMismatch
		}
		ln, err := plotter.NewLine(series(1, b.Series))
		if err != nil {
			return fmt.Errorf("figure: build quantile line: %w", err)
		}
		ln.Color = palette[i%len(palette)]
		ln.Width = vg.Points(1)
		p.Add(ln)
		p.Legend.Add(fmt.Sprintf("p%g", b.P*100), ln)
	}

	mean, err := plotter.NewLine(series(1, result.Mean))
	if err != nil {
		return fmt.Errorf("figure: build mean line: %w", err)
	}
	mean.Color = color.Black
	mean.Width = vg.Points(1.5)
	mean.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(mean)
	p.Legend.Add("mean", mean)
	p.Legend.Top = true

	return save(p, path)
}

func checkExtension(path string) error {
	if filepath.Ext(path) != ".svg" {
		return fmt.Errorf("%w: got %q", ErrBadExtension, filepath.Ext(path))
	}
	return nil
}

func series(dx float64, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(ys))
	for i, y := range ys {
		pts[i].X = float64(i) * dx
		pts[i].Y = y
	}
	return pts
}

// ring closes lo and hi into one polygon: lo left to right, then hi
// right to left.
func ring(lo, hi []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, 2*len(lo))
	for i, y := range lo {
		pts = append(pts, plotter.XY{X: float64(i), Y: y})
	}
	for i := len(hi) - 1; i >= 0; i-- {
		pts = append(pts, plotter.XY{X: float64(i), Y: hi[i]})
	}
	return pts
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return fmt.Errorf("figure: save %s: %w", path, err)
	}
	return nil
}
