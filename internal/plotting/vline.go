package plotting

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// VLine is a vertical reference line spanning the whole data area.
type VLine struct {
	X      float64
	Label  string
	Color  color.Color
	Dashed bool
	// Inline draws the label next to the line instead of in the legend.
	Inline bool
}

func (v VLine) style() draw.LineStyle {
	sty := draw.LineStyle{Color: v.Color, Width: vg.Points(1)}
	if sty.Color == nil {
		sty.Color = Gray
	}
	if v.Dashed {
		sty.Dashes = plotutil.Dashes(2)
	}
	return sty
}

// Plot implements plot.Plotter.
func (v VLine) Plot(c draw.Canvas, p *plot.Plot) {
	trX, _ := p.Transforms(&c)
	x := trX(v.X)
	if x < c.Min.X || x > c.Max.X {
		return
	}
	c.StrokeLine2(v.style(), x, c.Min.Y, x, c.Max.Y)

	if v.Inline && v.Label != "" {
		sty := p.Y.Label.TextStyle
		sty.Color = v.style().Color
		sty.Font.Size = vg.Points(9)
		sty.Rotation = math.Pi / 2
		sty.XAlign = draw.XRight
		sty.YAlign = draw.YBottom
		c.FillText(sty, vg.Point{X: x - vg.Points(2), Y: c.Max.Y - vg.Points(4)}, v.Label)
	}
}

// Thumbnail implements plot.Thumbnailer.
func (v VLine) Thumbnail(c *draw.Canvas) {
	y := (c.Min.Y + c.Max.Y) / 2
	c.StrokeLine2(v.style(), c.Min.X, y, c.Max.X, y)
}
