// Package sink renders resolved charts to output formats.
//
// SVG is assembled directly; PNG is drawn on a raster canvas. Both share the
// pixel layout computed by layoutChart so the formats stay visually
// identical.
package sink

import (
	"github.com/tsalign/tsplot/pkg/plot"
)

// Plot area margins in pixels.
const (
	marginLeft   = 70.0
	marginRight  = 20.0
	marginTop    = 45.0
	marginBottom = 55.0
)

// palette holds the series colors, assigned in order.
var palette = []string{
	"#1f77b4", // blue
	"#ff7f0e", // orange
	"#2ca02c", // green
	"#d62728", // red
	"#9467bd", // purple
	"#8c564b", // brown
	"#e377c2", // pink
	"#7f7f7f", // grey
}

type xy struct {
	X, Y float64
}

type pixelTick struct {
	Pos   float64
	Label string
}

type pixelSeries struct {
	Label  string
	Color  string
	Mean   []xy
	Median []xy
	// Band is the min..max polygon: max values left to right,
	// then min values right to left.
	Band []xy
}

// frame is a chart projected into pixel coordinates.
type frame struct {
	Width, Height float64
	Title         string
	XLabel        string
	YLabel        string
	XTicks        []pixelTick
	YTicks        []pixelTick
	Series        []pixelSeries
}

func (f *frame) plotLeft() float64   { return marginLeft }
func (f *frame) plotRight() float64  { return f.Width - marginRight }
func (f *frame) plotTop() float64    { return marginTop }
func (f *frame) plotBottom() float64 { return f.Height - marginBottom }

// layoutChart projects a chart into a pixel frame of the given size.
func layoutChart(c *plot.Chart, width, height float64) (*frame, error) {
	f := &frame{
		Width:  width,
		Height: height,
		Title:  c.Title,
		XLabel: c.XLabel,
		YLabel: c.YLabel,
	}

	px := func(v float64) (float64, error) {
		n, err := c.XScale.Normalize(v)
		if err != nil {
			return 0, err
		}
		return f.plotLeft() + n*(f.plotRight()-f.plotLeft()), nil
	}
	py := func(v float64) (float64, error) {
		n, err := c.YScale.Normalize(v)
		if err != nil {
			return 0, err
		}
		return f.plotBottom() - n*(f.plotBottom()-f.plotTop()), nil
	}

	for _, t := range c.XTicks {
		pos, err := px(t.Value)
		if err != nil {
			return nil, err
		}
		if pos < f.plotLeft() || pos > f.plotRight() {
			continue
		}
		f.XTicks = append(f.XTicks, pixelTick{Pos: pos, Label: t.Label})
	}
	for _, t := range c.YTicks {
		pos, err := py(t.Value)
		if err != nil {
			return nil, err
		}
		if pos < f.plotTop() || pos > f.plotBottom() {
			continue
		}
		f.YTicks = append(f.YTicks, pixelTick{Pos: pos, Label: t.Label})
	}

	for i, s := range c.Series {
		ps := pixelSeries{
			Label: s.Label,
			Color: palette[i%len(palette)],
		}
		for _, p := range s.Points {
			x, err := px(p.X)
			if err != nil {
				return nil, err
			}
			mean, err := py(p.Mean)
			if err != nil {
				return nil, err
			}
			median, err := py(p.Median)
			if err != nil {
				return nil, err
			}
			hi, err := py(p.Max)
			if err != nil {
				return nil, err
			}
			ps.Mean = append(ps.Mean, xy{x, mean})
			ps.Median = append(ps.Median, xy{x, median})
			ps.Band = append(ps.Band, xy{x, hi})
		}
		// Close the band polygon with the min values in reverse.
		for j := len(s.Points) - 1; j >= 0; j-- {
			x := ps.Mean[j].X
			lo, err := py(s.Points[j].Min)
			if err != nil {
				return nil, err
			}
			ps.Band = append(ps.Band, xy{x, lo})
		}
		f.Series = append(f.Series, ps)
	}

	return f, nil
}
