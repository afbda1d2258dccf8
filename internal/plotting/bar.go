package plotting

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DefaultBarWidth is the width of one bar in data units; a group spans 1.
const DefaultBarWidth = 0.15

// BarSeries is one bar per group, drawn in one colour.
type BarSeries struct {
	Label string
	// Values holds one value per group; NaN leaves the slot empty.
	Values []float64
	Color  color.Color
}

// GroupedBarChart draws, for every group on the x axis, one bar per series
// side by side.
type GroupedBarChart struct {
	Title       string
	XLabel      string
	YLabel      string
	LegendTitle string
	Groups      []string
	Bars        []BarSeries
	// ValueLabels writes each bar's value above it.
	ValueLabels bool
	// LabelFormat renders value labels; nil uses two decimals.
	LabelFormat func(float64) string
	// BarWidth defaults to DefaultBarWidth.
	BarWidth float64
	// RotateGroups tilts the group labels.
	RotateGroups bool
}

// Plot builds the gonum plot for the chart.
func (c *GroupedBarChart) Plot() (*plot.Plot, error) {
	var values []float64
	for _, s := range c.Bars {
		if len(s.Values) != len(c.Groups) {
			return nil, fmt.Errorf("bar series %q has %d values for %d groups", s.Label, len(s.Values), len(c.Groups))
		}
		for _, v := range s.Values {
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: %w", c.Title, ErrNoData)
	}

	p := newPlot(c.Title)
	Axis{Label: c.XLabel, Categories: c.Groups, Rotate: c.RotateGroups}.apply(&p.X, nil)
	Axis{Label: c.YLabel}.apply(&p.Y, values)

	bars := &groupedBars{
		series: c.Bars,
		groups: len(c.Groups),
		width:  c.BarWidth,
		labels: c.ValueLabels,
		format: c.LabelFormat,
	}
	if bars.width <= 0 {
		bars.width = DefaultBarWidth
	}
	if bars.format == nil {
		bars.format = func(v float64) string { return fmt.Sprintf("%.2f", v) }
	}
	p.Add(bars)

	if len(c.Bars) > 1 || c.Bars[0].Label != "" {
		if c.LegendTitle != "" {
			p.Legend.Add(c.LegendTitle)
		}
		for _, s := range c.Bars {
			p.Legend.Add(s.Label, barThumb{s.Color})
		}
		p.Legend.Top = true
	}
	return p, nil
}

// Draw draws the chart onto c.
func (c *GroupedBarChart) Draw(dc draw.Canvas) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}
	p.Draw(dc)
	return nil
}

// Records returns the bar values as group,series,value rows.
func (c *GroupedBarChart) Records() [][]string {
	records := [][]string{{"group", "series", "value"}}
	for j, g := range c.Groups {
		for _, s := range c.Bars {
			if j < len(s.Values) && !math.IsNaN(s.Values[j]) {
				records = append(records, []string{g, s.Label, FormatFloat(s.Values[j])})
			}
		}
	}
	return records
}

// BarChart is a single-series bar chart with one bar per category.
type BarChart struct {
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Values     []float64
	Color      color.Color
	// Rotate tilts the category labels.
	Rotate bool
}

func (c *BarChart) grouped() *GroupedBarChart {
	clr := c.Color
	if clr == nil {
		clr = SteelBlue
	}
	return &GroupedBarChart{
		Title:        c.Title,
		XLabel:       c.XLabel,
		YLabel:       c.YLabel,
		Groups:       c.Categories,
		Bars:         []BarSeries{{Values: c.Values, Color: clr}},
		BarWidth:     0.6,
		RotateGroups: c.Rotate,
	}
}

// Plot builds the gonum plot for the chart.
func (c *BarChart) Plot() (*plot.Plot, error) { return c.grouped().Plot() }

// Draw draws the chart onto c.
func (c *BarChart) Draw(dc draw.Canvas) error { return c.grouped().Draw(dc) }

// Records returns the bar values as group,series,value rows.
func (c *BarChart) Records() [][]string { return c.grouped().Records() }

// groupedBars is the plot.Plotter behind GroupedBarChart. Bar i of n in
// group j is centred at j + (i - n/2 + 0.5) * width.
type groupedBars struct {
	series []BarSeries
	groups int
	width  float64
	labels bool
	format func(float64) string
}

func (b *groupedBars) center(i, j int) float64 {
	n := float64(len(b.series))
	return float64(j) + (float64(i)-n/2+0.5)*b.width
}

// Plot implements plot.Plotter.
func (b *groupedBars) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	base := math.Max(0, p.Y.Min)

	for i, s := range b.series {
		for j, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			x := b.center(i, j)
			x0, x1 := trX(x-b.width/2), trX(x+b.width/2)
			y0, y1 := trY(base), trY(v)
			rect := []vg.Point{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}}
			c.FillPolygon(s.Color, c.ClipPolygonXY(rect))

			if !b.labels || v == 0 {
				continue
			}
			sty := p.Y.Tick.Label
			sty.Font.Size = vg.Points(7)
			sty.Rotation = math.Pi / 2
			sty.XAlign = draw.XLeft
			sty.YAlign = draw.YCenter
			top := math.Max(float64(y0), float64(y1))
			c.FillText(sty, vg.Point{X: (x0 + x1) / 2, Y: vg.Length(top) + vg.Points(2)}, b.format(v))
		}
	}
}

// DataRange implements plot.DataRanger.
func (b *groupedBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = -0.5, float64(b.groups)-0.5
	for _, s := range b.series {
		for _, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			ymin = math.Min(ymin, v)
			ymax = math.Max(ymax, v)
		}
	}
	if b.labels {
		// leave room for the rotated value labels
		ymax *= 1.15
	}
	return xmin, xmax, ymin, ymax
}

type barThumb struct {
	color color.Color
}

// Thumbnail implements plot.Thumbnailer.
func (t barThumb) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(t.color, pts)
}

// ChartTitle returns the chart title.
func (c *GroupedBarChart) ChartTitle() string { return c.Title }

// ChartTitle returns the chart title.
func (c *BarChart) ChartTitle() string { return c.Title }
