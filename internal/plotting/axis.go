package plotting

import (
	"image/color"
	"math"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Scale selects how an axis maps data values.
type Scale int

const (
	// Linear is the default axis scale.
	Linear Scale = iota
	// Log2 is a logarithmic axis with power-of-two ticks.
	Log2
	// Log10 is a logarithmic axis with power-of-ten ticks.
	Log10
)

// ParseScale converts "linear", "log", "log2" or "log10" into a Scale.
func ParseScale(s string) Scale {
	switch s {
	case "log2":
		return Log2
	case "log", "log10":
		return Log10
	default:
		return Linear
	}
}

// Axis describes the presentation of one chart axis.
type Axis struct {
	Label string
	Scale Scale
	// Ticks, if set, are the only tick positions.
	Ticks []float64
	// Format renders tick labels; nil uses the shortest number format.
	Format func(float64) string
	// Categories, if set, label the positions 0..len-1.
	Categories []string
	// Rotate tilts the tick labels.
	Rotate bool
}

// apply configures a gonum axis for the given data values. It reports false
// if a log scale was requested for data that is not strictly positive, in
// which case the axis falls back to a linear scale.
func (a Axis) apply(ax *plot.Axis, values []float64) (ok bool) {
	ok = true
	ax.Label.Text = a.Label
	if a.Rotate {
		ax.Tick.Label.Rotation = math.Pi / 6
		ax.Tick.Label.XAlign = draw.XRight
		ax.Tick.Label.YAlign = draw.YTop
	}

	if len(a.Categories) > 0 {
		ticks := make([]plot.Tick, len(a.Categories))
		for i, c := range a.Categories {
			ticks[i] = plot.Tick{Value: float64(i), Label: c}
		}
		ax.Tick.Marker = plot.ConstantTicks(ticks)
		ax.Min = -0.5
		ax.Max = float64(len(a.Categories)) - 0.5
		return ok
	}

	scale := a.Scale
	if scale != Linear && !allPositive(values) {
		scale, ok = Linear, false
	}
	format := a.Format
	if format == nil {
		format = FormatFloat
	}

	switch {
	case len(a.Ticks) > 0:
		ax.Tick.Marker = constantTicks(a.Ticks, format)
	case scale == Log2:
		ax.Tick.Marker = constantTicks(powersOfTwo(values), format)
	case scale == Log10:
		ax.Tick.Marker = plot.LogTicks{Prec: -1}
	case a.Format != nil:
		ax.Tick.Marker = formattedTicks{Ticker: hplot.Ticks{N: 10}, format: format}
	default:
		ax.Tick.Marker = hplot.Ticks{N: 10}
	}
	if scale != Linear {
		ax.Scale = plot.LogScale{}
	}
	return ok
}

func constantTicks(values []float64, format func(float64) string) plot.ConstantTicks {
	ticks := make([]plot.Tick, len(values))
	for i, v := range values {
		ticks[i] = plot.Tick{Value: v, Label: format(v)}
	}
	return ticks
}

// formattedTicks relabels the major ticks of another ticker.
type formattedTicks struct {
	plot.Ticker
	format func(float64) string
}

func (t formattedTicks) Ticks(min, max float64) []plot.Tick {
	ticks := t.Ticker.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = t.format(ticks[i].Value)
		}
	}
	return ticks
}

func allPositive(values []float64) bool {
	for _, v := range values {
		if v <= 0 {
			return false
		}
	}
	return true
}

func powersOfTwo(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	var ticks []float64
	for e := math.Floor(math.Log2(lo)); e <= math.Ceil(math.Log2(hi)); e++ {
		ticks = append(ticks, math.Exp2(e))
	}
	return ticks
}

// addGrid adds the light dashed grid used on every chart.
func addGrid(p *plot.Plot) {
	grid := plotter.NewGrid()
	grid.Horizontal.Color = color.Gray{Y: 200}
	grid.Horizontal.Dashes = plotutil.Dashes(2)
	grid.Vertical.Color = color.Gray{Y: 200}
	grid.Vertical.Dashes = plotutil.Dashes(2)
	p.Add(grid)
}

// newPlot returns a plot with a title and the standard grid.
func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Title.Padding = vg.Points(8)
	addGrid(p)
	return p
}
