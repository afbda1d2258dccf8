package plotting

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/dfsalloc/allocplot/logging"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("no data to plot")

// Marker selects the glyph drawn at each data point.
type Marker int

const (
	MarkerCircle Marker = iota
	MarkerSquare
	MarkerTriangle
	MarkerNone
)

func (m Marker) glyph() draw.GlyphDrawer {
	switch m {
	case MarkerSquare:
		return draw.SquareGlyph{}
	case MarkerTriangle:
		return draw.TriangleGlyph{}
	default:
		return draw.CircleGlyph{}
	}
}

// LineSeries is one line of a LineChart.
type LineSeries struct {
	Label string
	Data  plotter.XYer
	// Color defaults to the plotutil colour at the series index.
	Color  color.Color
	Dashed bool
	Marker Marker
}

// LineChart plots one or more series against a shared x axis.
type LineChart struct {
	Title   string
	X       Axis
	Y       Axis
	Series  []LineSeries
	Markers []VLine
	// LegendTitle is shown above the legend entries.
	LegendTitle string
	// Logger receives warnings about presentation fallbacks; it may be nil.
	Logger logging.Logger
}

// Plot builds the gonum plot for the chart.
func (c *LineChart) Plot() (*plot.Plot, error) {
	var xs, ys []float64
	for _, s := range c.Series {
		for i := 0; i < s.Data.Len(); i++ {
			x, y := s.Data.XY(i)
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("%s: %w", c.Title, ErrNoData)
	}

	p := newPlot(c.Title)
	if !c.X.apply(&p.X, xs) {
		c.warnf("%s: x values are not all positive, using a linear scale", c.Title)
	}
	if !c.Y.apply(&p.Y, ys) {
		c.warnf("%s: y values are not all positive, using a linear scale", c.Title)
	}

	if c.LegendTitle != "" {
		p.Legend.Add(c.LegendTitle)
	}
	for i, s := range c.Series {
		if s.Data.Len() == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(s.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to add line plot %q: %w", s.Label, err)
		}
		clr := s.Color
		if clr == nil {
			clr = plotutil.Color(i)
		}
		line.Color = clr
		line.Width = vg.Points(1.5)
		if s.Dashed {
			line.Dashes = plotutil.Dashes(2)
		}
		p.Add(line)
		thumbs := []plot.Thumbnailer{line}
		if s.Marker != MarkerNone {
			points.Color = clr
			points.Shape = s.Marker.glyph()
			points.Radius = vg.Points(3)
			p.Add(points)
			thumbs = append(thumbs, points)
		}
		if s.Label != "" {
			p.Legend.Add(s.Label, thumbs...)
		}
	}

	for _, m := range c.Markers {
		p.Add(m)
		if m.Label != "" && !m.Inline {
			p.Legend.Add(m.Label, m)
		}
	}
	p.Legend.Top = true
	return p, nil
}

// Draw draws the chart onto c.
func (c *LineChart) Draw(dc draw.Canvas) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}
	p.Draw(dc)
	return nil
}

// Records returns the plotted points as series,x,y rows.
func (c *LineChart) Records() [][]string {
	records := [][]string{{"series", "x", "y"}}
	for _, s := range c.Series {
		for i := 0; i < s.Data.Len(); i++ {
			x, y := s.Data.XY(i)
			records = append(records, []string{s.Label, FormatFloat(x), FormatFloat(y)})
		}
	}
	return records
}

func (c *LineChart) warnf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Warnf(format, args...)
	}
}

// ChartTitle returns the chart title.
func (c *LineChart) ChartTitle() string { return c.Title }
