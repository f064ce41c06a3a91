package sink

import (
	"bytes"

	"github.com/fogleman/gg"

	"github.com/tsalign/tsplot/pkg/plot"
)

// PNGOption configures PNG chart rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	width   float64
	height  float64
	scale   float64
	band    bool
	markers bool
}

// WithPNGSize sets the chart dimensions in pixels (before scaling).
func WithPNGSize(width, height float64) PNGOption {
	return func(r *pngRenderer) { r.width, r.height = width, height }
}

// WithPNGScale sets the raster scale factor (default 2.0 for 2x resolution).
func WithPNGScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGBand shades the min..max range around each mean line.
func WithPNGBand() PNGOption { return func(r *pngRenderer) { r.band = true } }

// WithPNGMarkers draws median markers on each aggregated point.
func WithPNGMarkers() PNGOption { return func(r *pngRenderer) { r.markers = true } }

// RenderPNG rasterizes the chart to PNG. The drawing mirrors [RenderSVG];
// both share the same pixel layout.
func RenderPNG(c *plot.Chart, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{width: plot.DefaultWidth, height: plot.DefaultHeight, scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}

	f, err := layoutChart(c, r.width, r.height)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(int(r.width*r.scale), int(r.height*r.scale))
	dc.Scale(r.scale, r.scale)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	drawGrid(dc, f)
	if r.band {
		drawBands(dc, f)
	}
	drawLines(dc, f)
	if r.markers {
		drawMarkers(dc, f)
	}
	drawAxes(dc, f)
	drawLegend(dc, f)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawGrid(dc *gg.Context, f *frame) {
	dc.SetHexColor("#e0e0e0")
	dc.SetLineWidth(1)
	for _, t := range f.XTicks {
		dc.DrawLine(t.Pos, f.plotTop(), t.Pos, f.plotBottom())
		dc.Stroke()
	}
	for _, t := range f.YTicks {
		dc.DrawLine(f.plotLeft(), t.Pos, f.plotRight(), t.Pos)
		dc.Stroke()
	}
}

func drawBands(dc *gg.Context, f *frame) {
	for _, s := range f.Series {
		if len(s.Band) < 3 {
			continue
		}
		dc.SetHexColor(s.Color + "26") // ~15% alpha
		dc.MoveTo(s.Band[0].X, s.Band[0].Y)
		for _, p := range s.Band[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
		dc.Fill()
	}
}

func drawLines(dc *gg.Context, f *frame) {
	dc.SetLineWidth(2)
	for _, s := range f.Series {
		dc.SetHexColor(s.Color)
		if len(s.Mean) == 1 {
			dc.DrawCircle(s.Mean[0].X, s.Mean[0].Y, 3)
			dc.Fill()
			continue
		}
		dc.MoveTo(s.Mean[0].X, s.Mean[0].Y)
		for _, p := range s.Mean[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.Stroke()
	}
}

func drawMarkers(dc *gg.Context, f *frame) {
	for _, s := range f.Series {
		for _, p := range s.Median {
			dc.SetRGB(1, 1, 1)
			dc.DrawCircle(p.X, p.Y, 2.5)
			dc.FillPreserve()
			dc.SetHexColor(s.Color)
			dc.SetLineWidth(1.5)
			dc.Stroke()
		}
	}
}

func drawAxes(dc *gg.Context, f *frame) {
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)

	dc.DrawLine(f.plotLeft(), f.plotTop(), f.plotLeft(), f.plotBottom())
	dc.Stroke()
	dc.DrawLine(f.plotLeft(), f.plotBottom(), f.plotRight(), f.plotBottom())
	dc.Stroke()

	for _, t := range f.XTicks {
		dc.DrawLine(t.Pos, f.plotBottom(), t.Pos, f.plotBottom()+5)
		dc.Stroke()
		dc.DrawStringAnchored(t.Label, t.Pos, f.plotBottom()+14, 0.5, 0.5)
	}
	for _, t := range f.YTicks {
		dc.DrawLine(f.plotLeft()-5, t.Pos, f.plotLeft(), t.Pos)
		dc.Stroke()
		dc.DrawStringAnchored(t.Label, f.plotLeft()-8, t.Pos, 1, 0.5)
	}

	dc.DrawStringAnchored(f.Title, f.Width/2, marginTop/2, 0.5, 0.5)
	dc.DrawStringAnchored(f.XLabel, (f.plotLeft()+f.plotRight())/2, f.Height-16, 0.5, 0.5)

	cy := (f.plotTop() + f.plotBottom()) / 2
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), 16, cy)
	dc.DrawStringAnchored(f.YLabel, 16, cy, 0.5, 0.5)
	dc.Pop()
}

func drawLegend(dc *gg.Context, f *frame) {
	x := f.plotLeft() + 10
	y := f.plotTop() + 12
	for _, s := range f.Series {
		dc.SetHexColor(s.Color)
		dc.SetLineWidth(2)
		dc.DrawLine(x, y-4, x+18, y-4)
		dc.Stroke()
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(s.Label, x+24, y-4, 0, 0.5)
		y += 16
	}
}
