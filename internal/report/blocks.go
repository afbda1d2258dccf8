package report

import (
	"errors"
	"io/fs"
	"slices"

	"github.com/dfsalloc/allocplot/internal/aggregate"
	"github.com/dfsalloc/allocplot/internal/config"
	"github.com/dfsalloc/allocplot/internal/discovery"
	"github.com/dfsalloc/allocplot/internal/plotting"
	"github.com/dfsalloc/allocplot/internal/table"
	"gonum.org/v1/plot/plotutil"
)

const colBlockSize = "block_size_bytes"

var blockMetrics = []config.Metric{
	{Column: "write_throughput_mbps"},
	{Column: "files_created"},
	{Column: "avg_write_latency_ms"},
	{Column: "avg_read_latency_ms"},
}

// Blocks plots each metric against the block size, one line per policy,
// from every block_*.csv file. Later files override earlier ones for the same
// policy and block size.
func Blocks(e *Env) error {
	matches, err := discovery.Find(e.FS, e.Config.ResultsDir, discovery.BlockPattern)
	if err != nil {
		return err
	}
	tables := make([]*table.Table, len(matches))
	for i, m := range matches {
		if tables[i], err = table.Load(e.FS, m.Path); err != nil {
			return err
		}
	}
	t, err := table.Concat(tables...)
	if err != nil {
		return err
	}
	sizes, err := t.Floats(colBlockSize)
	if err != nil {
		return err
	}
	ticks := uniqueSorted(sizes)

	palette := plotting.NewPalette(plotting.PolicyColors)
	for _, m := range e.Config.ChartMetrics("blocks", blockMetrics...) {
		series, err := aggregate.Group(t, aggregate.ByColumns(aggregate.ColPolicy), colBlockSize, m.Column)
		if err != nil {
			return err
		}
		e.Log.Debugf("%s: %v", m.Column, aggregate.Summarize(series))
		chart := &plotting.LineChart{
			Title:  m.AxisLabel() + " vs Block Size",
			X:      blockSizeAxis(ticks, true),
			Y:      plotting.Axis{Label: m.AxisLabel(), Scale: plotting.ParseScale(m.Scale)},
			Series: lines(series, palette),
			Logger: e.Log,
		}
		if err := e.save(chart, m.Column); err != nil {
			return err
		}
	}
	return nil
}

func blockSizeAxis(ticks []float64, rotate bool) plotting.Axis {
	return plotting.Axis{
		Label:  "Block Size (bytes)",
		Scale:  plotting.Log2,
		Ticks:  ticks,
		Format: plotting.FormatBytes,
		Rotate: rotate,
	}
}

func uniqueSorted(values []float64) []float64 {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

var sequentialOps = []struct {
	column string
	name   string
}{
	{column: "create", name: "Create"},
	{column: "write", name: "Write"},
	{column: "read", name: "Read"},
}

// Sequential plots the average create, write and read times of the
// sequential benchmark against the block size.
func Sequential(e *Env) error {
	t, err := e.loadSummary("avg_seq.csv")
	if err != nil {
		return err
	}
	sizes, err := t.Floats("block_size")
	if err != nil {
		return err
	}
	ticks := uniqueSorted(sizes)
	for _, op := range sequentialOps {
		series, err := aggregate.Group(t, aggregate.Fixed(aggregate.Key{}), "block_size", op.column)
		if err != nil {
			return err
		}
		chart := &plotting.LineChart{
			Title:  op.name + " Time vs Block Size",
			X:      blockSizeAxis(ticks, false),
			Y:      plotting.Axis{Label: op.name},
			Series: lines(series, nil),
			Logger: e.Log,
		}
		if err := e.save(chart, op.name+"_seq"); err != nil {
			return err
		}
	}
	return nil
}

// builtinImplementations holds the measured latencies of the three
// allocation implementations, used when latency_impl.csv is absent.
var builtinImplementations = struct {
	columns []string
	rows    [][]string
}{
	columns: []string{"type", "create", "write", "read", "total"},
	rows: [][]string{
		{"prealloc", "2.34", "3.88", "1.63", "7.84"},
		{"postalloc", "0.01", "6.12", "1.60", "7.72"},
		{"batchalloc", "0.01", "1.71", "0.73", "2.44"},
	},
}

var implOps = []string{"create", "write", "read", "total"}

// Implementation compares the per-operation latency of the allocation
// implementations in a grouped bar chart.
func Implementation(e *Env) error {
	t, err := e.loadSummary("latency_impl.csv")
	if errors.Is(err, fs.ErrNotExist) {
		e.Log.Warnf("latency_impl.csv not found, using built-in measurements")
		t, err = table.New(builtinImplementations.columns, builtinImplementations.rows)
	}
	if err != nil {
		return err
	}
	t, err = aggregate.Dedup(t, "type")
	if err != nil {
		return err
	}
	types, err := t.Strings("type")
	if err != nil {
		return err
	}
	chart := &plotting.GroupedBarChart{
		Title:    "Latency per Operation (ms) vs Implementation",
		YLabel:   "Time (ms)",
		Groups:   types,
		BarWidth: 0.2,
	}
	for i, op := range implOps {
		values, err := t.Floats(op)
		if err != nil {
			return err
		}
		chart.Bars = append(chart.Bars, plotting.BarSeries{Label: op, Values: values, Color: plotutil.Color(i)})
	}
	return e.save(chart, "latency_impl")
}
