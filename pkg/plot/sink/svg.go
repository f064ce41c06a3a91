package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/tsalign/tsplot/pkg/plot"
)

// SVGOption configures SVG chart rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width   float64
	height  float64
	band    bool
	markers bool
}

// WithSize sets the chart dimensions in pixels.
func WithSize(width, height float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = width, height }
}

// WithBand shades the min..max range around each mean line.
func WithBand() SVGOption { return func(r *svgRenderer) { r.band = true } }

// WithMarkers draws median markers on each aggregated point.
func WithMarkers() SVGOption { return func(r *svgRenderer) { r.markers = true } }

// RenderSVG renders the chart as a standalone SVG document.
// Output is deterministic for a fixed chart.
func RenderSVG(c *plot.Chart, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{width: plot.DefaultWidth, height: plot.DefaultHeight}
	for _, opt := range opts {
		opt(&r)
	}

	f, err := layoutChart(c, r.width, r.height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="Helvetica, Arial, sans-serif">`+"\n",
		f.Width, f.Height, f.Width, f.Height)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="white"/>`+"\n", f.Width, f.Height)

	renderGrid(&buf, f)
	if r.band {
		renderBands(&buf, f)
	}
	renderLines(&buf, f)
	if r.markers {
		renderMarkers(&buf, f)
	}
	renderAxes(&buf, f)
	renderLegend(&buf, f)

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func renderGrid(buf *bytes.Buffer, f *frame) {
	for _, t := range f.XTicks {
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#e0e0e0" stroke-width="1"/>`+"\n",
			t.Pos, f.plotTop(), t.Pos, f.plotBottom())
	}
	for _, t := range f.YTicks {
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#e0e0e0" stroke-width="1"/>`+"\n",
			f.plotLeft(), t.Pos, f.plotRight(), t.Pos)
	}
}

func renderBands(buf *bytes.Buffer, f *frame) {
	for _, s := range f.Series {
		if len(s.Band) < 3 {
			continue
		}
		fmt.Fprintf(buf, `  <polygon points="%s" fill="%s" fill-opacity="0.15" stroke="none"/>`+"\n",
			pointList(s.Band), s.Color)
	}
}

func renderLines(buf *bytes.Buffer, f *frame) {
	for _, s := range f.Series {
		if len(s.Mean) == 1 {
			p := s.Mean[0]
			fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`+"\n", p.X, p.Y, s.Color)
			continue
		}
		fmt.Fprintf(buf, `  <polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
			pointList(s.Mean), s.Color)
	}
}

func renderMarkers(buf *bytes.Buffer, f *frame) {
	for _, s := range f.Series {
		for _, p := range s.Median {
			fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="2.5" fill="white" stroke="%s" stroke-width="1.5"/>`+"\n",
				p.X, p.Y, s.Color)
		}
	}
}

func renderAxes(buf *bytes.Buffer, f *frame) {
	fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black" stroke-width="1"/>`+"\n",
		f.plotLeft(), f.plotTop(), f.plotLeft(), f.plotBottom())
	fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black" stroke-width="1"/>`+"\n",
		f.plotLeft(), f.plotBottom(), f.plotRight(), f.plotBottom())

	for _, t := range f.XTicks {
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black" stroke-width="1"/>`+"\n",
			t.Pos, f.plotBottom(), t.Pos, f.plotBottom()+5)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="11" text-anchor="middle">%s</text>`+"\n",
			t.Pos, f.plotBottom()+18, escape(t.Label))
	}
	for _, t := range f.YTicks {
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black" stroke-width="1"/>`+"\n",
			f.plotLeft()-5, t.Pos, f.plotLeft(), t.Pos)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="11" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
			f.plotLeft()-8, t.Pos, escape(t.Label))
	}

	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="15" font-weight="bold" text-anchor="middle">%s</text>`+"\n",
		f.Width/2, marginTop/2+5, escape(f.Title))
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="12" text-anchor="middle">%s</text>`+"\n",
		(f.plotLeft()+f.plotRight())/2, f.Height-12, escape(f.XLabel))
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="12" text-anchor="middle" transform="rotate(-90 %.1f %.1f)">%s</text>`+"\n",
		16.0, (f.plotTop()+f.plotBottom())/2, 16.0, (f.plotTop()+f.plotBottom())/2, escape(f.YLabel))
}

func renderLegend(buf *bytes.Buffer, f *frame) {
	x := f.plotLeft() + 10
	y := f.plotTop() + 12
	for _, s := range f.Series {
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
			x, y-4, x+18, y-4, s.Color)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="11">%s</text>`+"\n",
			x+24, y, escape(s.Label))
		y += 16
	}
}

func pointList(points []xy) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
