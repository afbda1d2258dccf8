// Package aggregate groups result table rows by experiment key and turns them
// into ordered series and pivot tables ready for plotting.
package aggregate

import (
	"cmp"
	"slices"

	"github.com/dfsalloc/allocplot/internal/table"
)

// Point is an (x, y) observation.
type Point struct {
	X float64
	Y float64
}

// Series is the ordered sequence of points for one key. It implements
// plotter.XYer.
type Series struct {
	Key    Key
	Label  string
	Points []Point
}

// Len returns the number of x, y pairs.
func (s Series) Len() int {
	return len(s.Points)
}

// XY returns an x, y pair.
func (s Series) XY(i int) (x, y float64) {
	p := s.Points[i]
	return p.X, p.Y
}

// Xs returns the x values.
func (s Series) Xs() []float64 {
	xs := make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i] = p.X
	}
	return xs
}

// Ys returns the y values.
func (s Series) Ys() []float64 {
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		ys[i] = p.Y
	}
	return ys
}

// Group builds one series per key with the metric column plotted against
// xCol. Rows with the same key and x value are resolved by keeping the last
// one, and points are sorted by x.
func Group(t *table.Table, keyFn KeyFunc, xCol, metric string) ([]Series, error) {
	if err := t.Require(metric, xCol); err != nil {
		return nil, err
	}
	points := make(map[Key]map[float64]float64)
	for _, row := range t.Rows() {
		k, err := keyFn(row)
		if err != nil {
			return nil, err
		}
		x, err := row.Float(xCol)
		if err != nil {
			return nil, err
		}
		y, err := row.Float(metric)
		if err != nil {
			return nil, err
		}
		if points[k] == nil {
			points[k] = make(map[float64]float64)
		}
		points[k][x] = y
	}

	series := make([]Series, 0, len(points))
	for k, byX := range points {
		s := Series{Key: k, Label: k.Label(), Points: make([]Point, 0, len(byX))}
		for x, y := range byX {
			s.Points = append(s.Points, Point{X: x, Y: y})
		}
		slices.SortFunc(s.Points, func(a, b Point) int { return cmp.Compare(a.X, b.X) })
		series = append(series, s)
	}
	sortSeries(series)
	return series, nil
}

// GroupByIndex builds one series per key where x is the position of the row
// among the rows with the same key.
func GroupByIndex(t *table.Table, keyFn KeyFunc, metric string) ([]Series, error) {
	if err := t.Require(metric); err != nil {
		return nil, err
	}
	index := make(map[Key]int)
	var series []Series
	for _, row := range t.Rows() {
		k, err := keyFn(row)
		if err != nil {
			return nil, err
		}
		y, err := row.Float(metric)
		if err != nil {
			return nil, err
		}
		i, ok := index[k]
		if !ok {
			i = len(series)
			index[k] = i
			series = append(series, Series{Key: k, Label: k.Label()})
		}
		s := &series[i]
		s.Points = append(s.Points, Point{X: float64(len(s.Points)), Y: y})
	}
	sortSeries(series)
	return series, nil
}

// Merge concatenates the series from several tables and orders them by key.
func Merge(lists ...[]Series) []Series {
	var all []Series
	for _, l := range lists {
		all = append(all, l...)
	}
	sortSeries(all)
	return all
}

func sortSeries(series []Series) {
	slices.SortStableFunc(series, func(a, b Series) int { return Compare(a.Key, b.Key) })
}
