package report

import (
	"io"
	"math"
	"path/filepath"
	"strconv"

	"github.com/dfsalloc/allocplot/internal/aggregate"
	"github.com/dfsalloc/allocplot/internal/plotting"
	"github.com/dfsalloc/allocplot/internal/table"
	"github.com/olekukonko/tablewriter"
)

// SummaryOptions selects what Summary prints.
type SummaryOptions struct {
	// File is the result table; relative paths are below the results directory.
	File string
	// Keys are the key columns: policy, distribution or num_nodes.
	Keys   []string
	X      string
	Metric string
}

// Summary prints the metric of a result table as a key by x pivot followed by
// per-key statistics.
func Summary(e *Env, w io.Writer, opts SummaryOptions) error {
	path := opts.File
	if !filepath.IsAbs(path) {
		path = e.Input(path)
	}
	t, err := table.Load(e.FS, path)
	if err != nil {
		return err
	}
	if t.Len() == 0 {
		return table.ErrEmpty
	}
	series, err := aggregate.Group(t, aggregate.ByColumns(opts.Keys...), opts.X, opts.Metric)
	if err != nil {
		return err
	}

	xs := uniqueSorted(allXs(series))
	pivot := tablewriter.NewWriter(w)
	pivot.SetAutoFormatHeaders(false)
	header := []string{"series"}
	for _, x := range xs {
		header = append(header, opts.X+"="+plotting.FormatFloat(x))
	}
	pivot.SetHeader(header)
	for _, s := range series {
		row := []string{s.Label}
		byX := make(map[float64]float64, s.Len())
		for _, p := range s.Points {
			byX[p.X] = p.Y
		}
		for _, x := range xs {
			if y, ok := byX[x]; ok {
				row = append(row, plotting.FormatFloat(y))
			} else {
				row = append(row, "")
			}
		}
		pivot.Append(row)
	}
	pivot.Render()

	stats := tablewriter.NewWriter(w)
	stats.SetAutoFormatHeaders(false)
	stats.SetHeader([]string{"series", "n", "mean", "std dev", "min", "max", "last"})
	for _, st := range aggregate.Summarize(series) {
		stats.Append([]string{
			st.Label,
			strconv.Itoa(st.N),
			formatStat(st.Mean),
			formatStat(st.StdDev),
			formatStat(st.Min),
			formatStat(st.Max),
			formatStat(st.Last),
		})
	}
	stats.Render()
	return nil
}

func allXs(series []aggregate.Series) []float64 {
	var xs []float64
	for _, s := range series {
		xs = append(xs, s.Xs()...)
	}
	return xs
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}
