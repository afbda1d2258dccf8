package report

import (
	"fmt"
	"math"
	"slices"

	"github.com/dfsalloc/allocplot/internal/aggregate"
	"github.com/dfsalloc/allocplot/internal/config"
	"github.com/dfsalloc/allocplot/internal/discovery"
	"github.com/dfsalloc/allocplot/internal/plotting"
	"github.com/dfsalloc/allocplot/internal/table"
)

// loadSummary loads a single summary file from the results directory.
func (e *Env) loadSummary(name string) (*table.Table, error) {
	m, err := discovery.FindFile(e.FS, e.Input(name))
	if err != nil {
		return nil, err
	}
	return table.Load(e.FS, m.Path)
}

var nodeCharts = []struct {
	column string
	ylabel string
	title  string
	output string
}{
	{column: "throughput_mbps", ylabel: "Throughput (MB/s)", title: "Throughput vs Number of Nodes (RQ3)", output: "scaling_throughput"},
	{column: "load_imbalance", ylabel: "Load Imbalance (CoV)", title: "Load Imbalance vs Number of Nodes (RQ3)", output: "scaling_imbalance"},
	{column: "avg_write_latency_ms", ylabel: "Average Write Latency (ms)", title: "Latency vs Number of Nodes (RQ3)", output: "scaling_latency"},
}

// NodeSummary plots throughput, load imbalance and write latency against the
// number of data nodes, one line per policy.
func NodeSummary(e *Env) error {
	t, err := e.loadSummary("results_scaling_summary.csv")
	if err != nil {
		return err
	}
	palette := plotting.NewPalette(plotting.PolicyColors)
	for _, c := range nodeCharts {
		series, err := aggregate.Group(t, aggregate.ByColumns(aggregate.ColPolicy), aggregate.ColNodes, c.column)
		if err != nil {
			return err
		}
		chart := &plotting.LineChart{
			Title:  c.title,
			X:      plotting.Axis{Label: "Number of Data Nodes"},
			Y:      plotting.Axis{Label: c.ylabel},
			Series: lines(series, palette),
			Logger: e.Log,
		}
		if err := e.save(chart, c.output); err != nil {
			return err
		}
	}
	return nil
}

var distMetrics = []config.Metric{
	{Column: "write_throughput_mbps", Label: "Throughput (MB/s)"},
	{Column: "avg_read_latency_ms", Label: "Latency (ms)"},
	{Column: "metadata_kb", Label: "Metadata Size (KB)"},
	{Column: "frag_percent", Label: "Fragmentation (%)"},
}

var distTitles = map[string]string{
	"write_throughput_mbps": "Write Throughput (MB/s)",
	"avg_read_latency_ms":   "Average Read Latency (ms)",
	"metadata_kb":           "Metadata Overhead (KB)",
	"frag_percent":          "Capacity Wasted due to Fragmentation (%)",
}

// Distribution compares the policies across the workload distributions: one
// grouped bar chart per metric, and a load imbalance sensitivity line chart.
func Distribution(e *Env) error {
	t, err := e.loadSummary("results_distribution_summary.csv")
	if err != nil {
		return err
	}
	t, err = aggregate.Dedup(t, aggregate.ColPolicy, aggregate.ColDistribution)
	if err != nil {
		return err
	}
	policies, err := t.Unique(aggregate.ColPolicy)
	if err != nil {
		return err
	}
	slices.Sort(policies)

	for _, m := range e.Config.ChartMetrics("dist", distMetrics...) {
		pivot, err := distributionPivot(t, m.Column, policies)
		if err != nil {
			return err
		}
		title, ok := distTitles[m.Column]
		if !ok {
			title = plotting.MetricLabel(m.Column)
		}
		chart := &plotting.GroupedBarChart{
			Title:       "Policy Performance by Workload: " + title,
			XLabel:      "Allocation Policy",
			YLabel:      m.AxisLabel(),
			LegendTitle: "Workload Distribution",
			Groups:      policies,
			ValueLabels: true,
		}
		for _, dist := range plotting.Distributions {
			chart.Bars = append(chart.Bars, plotting.BarSeries{
				Label:  dist,
				Values: pivot.Row(dist),
				Color:  plotting.DistributionColors[dist],
			})
		}
		if err := e.save(chart, m.Column+"_grouped_policies"); err != nil {
			return err
		}
	}
	return loadImbalanceSensitivity(e, t, policies)
}

// distributionPivot returns metric indexed by display distribution name and
// policy, in the fixed distribution order.
func distributionPivot(t *table.Table, metric string, policies []string) (*aggregate.Pivot, error) {
	pivot, err := aggregate.NewPivot(t, aggregate.ColDistribution, aggregate.ColPolicy, metric)
	if err != nil {
		return nil, err
	}
	return pivot.MapRows(aggregate.DisplayName).Reindex(plotting.Distributions, policies), nil
}

func loadImbalanceSensitivity(e *Env, t *table.Table, policies []string) error {
	pivot, err := distributionPivot(t, "load_imbalance", policies)
	if err != nil {
		return err
	}
	chart := &plotting.LineChart{
		Title:       "Load Imbalance Sensitivity by Workload Distribution (RQ2)",
		X:           plotting.Axis{Label: "File Size Distribution", Categories: plotting.Distributions, Rotate: true},
		Y:           plotting.Axis{Label: "Load Imbalance (Coefficient of Variation)"},
		LegendTitle: "Policy",
		Logger:      e.Log,
	}
	for _, policy := range policies {
		s := aggregate.Series{Key: aggregate.Key{Policy: policy}, Label: policy}
		for i, v := range pivot.Col(policy) {
			if !math.IsNaN(v) {
				s.Points = append(s.Points, aggregate.Point{X: float64(i), Y: v})
			}
		}
		clr, ok := plotting.PolicyColors[policy]
		if !ok {
			clr = plotting.Gray
		}
		chart.Series = append(chart.Series, plotting.LineSeries{Label: policy, Data: s, Color: clr})
	}
	return e.save(chart, "load_imbalance_sensitivity")
}

// summaryContext describes the workload and block size of a summary table,
// taken from its first row, for use in chart titles.
func summaryContext(t *table.Table) string {
	if t.Len() == 0 {
		return ""
	}
	row := t.Row(0)
	dist, derr := row.String(aggregate.ColDistribution)
	size, serr := row.Int("block_size_bytes")
	switch {
	case derr == nil && serr == nil:
		return fmt.Sprintf("(Workload: %s, Block Size: %d KB)", aggregate.DisplayName(dist), size/1024)
	case derr == nil:
		return fmt.Sprintf("(Workload: %s)", aggregate.DisplayName(dist))
	case serr == nil:
		return fmt.Sprintf("(Block Size: %d KB)", size/1024)
	default:
		return ""
	}
}
