package report

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/dfsalloc/allocplot/internal/aggregate"
	"github.com/dfsalloc/allocplot/internal/config"
	"github.com/dfsalloc/allocplot/internal/discovery"
	"github.com/dfsalloc/allocplot/internal/plotting"
	"github.com/dfsalloc/allocplot/internal/table"
	"go.uber.org/multierr"
	"gonum.org/v1/plot/plotutil"
)

const colFill = "fill_pct"

// run is one per-run result file and the key decoded from its name.
type run struct {
	key   aggregate.Key
	table *table.Table
}

// loadRuns loads the per-run result files of a workload kind, found in the
// directory of the same name. Runs for unwanted node counts are left out.
func (e *Env) loadRuns(kind string) ([]run, error) {
	dir := e.Input(kind)
	matches, err := discovery.Find(e.FS, dir, discovery.WorkloadPattern(kind, e.Config.Workload))
	if err != nil {
		return nil, err
	}
	var runs []run
	for _, m := range matches {
		k, err := m.Key()
		if err != nil {
			return nil, err
		}
		if !e.Config.WantNodes(k.Nodes) {
			e.Log.Debugf("ignoring %s: %d nodes not selected", m.Name, k.Nodes)
			continue
		}
		t, err := table.Load(e.FS, m.Path)
		if errors.Is(err, table.ErrEmpty) {
			e.Log.Warnf("ignoring %s: %v", m.Name, err)
			continue
		}
		if err != nil {
			return nil, err
		}
		runs = append(runs, run{key: k, table: t})
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%s: no runs for nodes %v: %w", dir, e.Config.Nodes, discovery.ErrNoMatches)
	}
	return runs, nil
}

// lines converts series into line chart series. A nil palette leaves the
// colours to the chart.
func lines(series []aggregate.Series, palette *plotting.Palette) []plotting.LineSeries {
	out := make([]plotting.LineSeries, len(series))
	for i, s := range series {
		out[i] = plotting.LineSeries{Label: s.Label, Data: s}
		if palette != nil {
			out[i].Color = palette.Color(s.Key.Policy)
		}
	}
	return out
}

var fillMetrics = []config.Metric{
	{Column: "avg_write_latency_ms", Label: "Average Write Latency (ms)"},
	{Column: "load_imbalance", Label: "Load Imbalance (CoV)"},
	{Column: "load_std_dev", Label: "Load Std Dev"},
}

// Fill plots each metric against the fill level, one line per policy and
// node count.
func Fill(e *Env) error {
	runs, err := e.loadRuns("fill")
	if err != nil {
		return err
	}
	for _, m := range e.Config.ChartMetrics("fill", fillMetrics...) {
		var series []aggregate.Series
		for _, r := range runs {
			s, err := aggregate.Group(r.table, aggregate.Fixed(r.key), colFill, m.Column)
			if err != nil {
				return err
			}
			series = append(series, s...)
		}
		chart := &plotting.LineChart{
			Title:  m.AxisLabel() + " vs Fill Level",
			X:      plotting.Axis{Label: "Fill Percentage (%)"},
			Y:      plotting.Axis{Label: m.AxisLabel(), Scale: plotting.ParseScale(m.Scale)},
			Series: lines(aggregate.Merge(series), nil),
			Logger: e.Log,
		}
		err = multierr.Append(err, e.save(chart, "fill_"+m.Column))
	}
	return err
}

// Mixed plots write and read latency against the fill level; reads are dashed.
func Mixed(e *Env) error {
	runs, err := e.loadRuns("mixed")
	if err != nil {
		return err
	}
	chart := &plotting.LineChart{
		Title:  "Read vs Write Latency (Mixed Workload)",
		X:      plotting.Axis{Label: "Fill Percentage (%)"},
		Y:      plotting.Axis{Label: "Latency (ms)"},
		Logger: e.Log,
	}
	for i, r := range runs {
		writes, err := aggregate.Group(r.table, aggregate.Fixed(r.key), colFill, "avg_write_latency_ms")
		if err != nil {
			return err
		}
		reads, err := aggregate.Group(r.table, aggregate.Fixed(r.key), colFill, "avg_read_latency_ms")
		if err != nil {
			return err
		}
		clr := plotutil.Color(i)
		for _, s := range writes {
			chart.Series = append(chart.Series, plotting.LineSeries{
				Label: fmt.Sprintf("%s Write (%d nodes)", r.key.Policy, r.key.Nodes),
				Data:  s,
				Color: clr,
			})
		}
		for _, s := range reads {
			chart.Series = append(chart.Series, plotting.LineSeries{
				Label:  fmt.Sprintf("%s Read (%d nodes)", r.key.Policy, r.key.Nodes),
				Data:   s,
				Color:  clr,
				Dashed: true,
				Marker: plotting.MarkerSquare,
			})
		}
	}
	return e.save(chart, "mixed_latency")
}

// ReadHeavy plots read latency against the operation batch.
func ReadHeavy(e *Env) error {
	runs, err := e.loadRuns("readheavy")
	if err != nil {
		return err
	}
	series, err := byIndex(runs, "avg_read_latency_ms")
	if err != nil {
		return err
	}
	chart := &plotting.LineChart{
		Title:  "Read Latency Over Time (Read-Heavy Workload)",
		X:      plotting.Axis{Label: "Operation Batch"},
		Y:      plotting.Axis{Label: "Average Read Latency (ms)"},
		Series: lines(series, nil),
		Logger: e.Log,
	}
	return e.save(chart, "readheavy_latency")
}

// Imbalance plots the load imbalance of each phase of the imbalance test.
// When the runs have at least three phases, the start of truncation and of
// new allocations are marked.
func Imbalance(e *Env) error {
	runs, err := e.loadRuns("imbalance")
	if err != nil {
		return err
	}
	series, err := byIndex(runs, "load_imbalance")
	if err != nil {
		return err
	}
	chart := &plotting.LineChart{
		Title:  "Load Imbalance Evolution (Imbalance Test)",
		X:      plotting.Axis{Label: "Phase"},
		Y:      plotting.Axis{Label: "Load Imbalance (CoV)"},
		Series: lines(series, nil),
		Logger: e.Log,
	}
	if runs[0].table.Len() >= 3 {
		chart.Markers = []plotting.VLine{
			{X: 1, Label: "Truncation Start", Color: plotting.Red, Dashed: true},
			{X: 2, Label: "New Allocations Start", Color: plotting.Green, Dashed: true},
		}
	}
	return e.save(chart, "imbalance_evolution")
}

func byIndex(runs []run, metric string) ([]aggregate.Series, error) {
	var series []aggregate.Series
	for _, r := range runs {
		s, err := aggregate.GroupByIndex(r.table, aggregate.Fixed(r.key), metric)
		if err != nil {
			return nil, err
		}
		series = append(series, s...)
	}
	return aggregate.Merge(series), nil
}

var comparePanels = []struct {
	column string
	title  string
	ylabel string
	color  color.Color
}{
	{column: "avg_write_latency_ms", title: "Average Write Latency", ylabel: "Latency (ms)", color: plotting.SteelBlue},
	{column: "load_imbalance", title: "Load Imbalance", ylabel: "Coefficient of Variation", color: plotting.Coral},
	{column: "load_std_dev", title: "Load Standard Deviation", ylabel: "Standard Deviation", color: plotting.LightGreen},
	{column: "num_files", title: "Total Files Created", ylabel: "Number of Files", color: plotting.Plum},
}

// Compare draws a 2x2 panel of bar charts comparing the final row of each
// policy's fill run at the configured node count.
func Compare(e *Env) error {
	nodes := e.Config.CompareNodes
	dir := e.Input("fill")
	matches, err := discovery.Find(e.FS, dir, discovery.NodesPattern("fill", e.Config.Workload, nodes))
	if err != nil {
		return err
	}

	var (
		policies []string
		finals   []table.Row
	)
	for _, m := range matches {
		t, err := table.Load(e.FS, m.Path)
		if err != nil {
			return err
		}
		final, err := t.Last()
		if err != nil {
			e.Log.Debugf("ignoring %s: %v", m.Name, err)
			continue
		}
		policies = append(policies, m.Param(discovery.ParamPolicy))
		finals = append(finals, final)
	}
	if len(finals) == 0 {
		return fmt.Errorf("policy comparison at %d nodes: %w", nodes, table.ErrEmpty)
	}

	panel := &plotting.Panel{Rows: 2, Cols: 2}
	for _, p := range comparePanels {
		values := make([]float64, len(finals))
		for i, row := range finals {
			v, err := row.Float(p.column)
			if err != nil {
				return err
			}
			values[i] = v
		}
		panel.Charts = append(panel.Charts, &plotting.BarChart{
			Title:      p.title,
			YLabel:     p.ylabel,
			Categories: policies,
			Values:     values,
			Color:      p.color,
			Rotate:     true,
		})
	}

	fill := "Final"
	if v, err := finals[0].Float(colFill); err == nil {
		fill = plotting.FormatFloat(v) + "%"
	}
	panel.Title = fmt.Sprintf("Policy Comparison at %s Fill (%d nodes)", fill, nodes)
	return e.save(panel, "policy_comparison")
}
