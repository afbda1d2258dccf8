package report

import (
	"fmt"
	"strings"

	"github.com/dfsalloc/allocplot/internal/aggregate"
	"github.com/dfsalloc/allocplot/internal/config"
	"github.com/dfsalloc/allocplot/internal/discovery"
	"github.com/dfsalloc/allocplot/internal/plotting"
	"github.com/dfsalloc/allocplot/internal/table"
	"go.uber.org/multierr"
)

const colThreshold = "threshold"

var tuningMetrics = []config.Metric{
	{Column: "avg_write_latency_ms"},
}

// Tuning plots each metric against the fileaware size threshold, one line
// per policy, for every tuning summary file. The default threshold is marked.
func Tuning(e *Env) error {
	matches, err := discovery.Find(e.FS, e.Config.ResultsDir, discovery.TuningPattern)
	if err != nil {
		return err
	}
	for _, m := range matches {
		err = multierr.Append(err, e.tuneFile(m))
	}
	return err
}

func (e *Env) tuneFile(m discovery.Match) error {
	t, err := table.Load(e.FS, m.Path)
	if err != nil {
		return err
	}
	thresholds, err := t.Floats(colThreshold)
	if err != nil {
		return err
	}
	ticks := uniqueSorted(thresholds)
	context := summaryContext(t)
	palette := plotting.NewPalette(plotting.PolicyColors)

	for _, metric := range e.Config.ChartMetrics("tune", tuningMetrics...) {
		series, err := aggregate.Group(t, aggregate.ByColumns(aggregate.ColPolicy), colThreshold, metric.Column)
		if err != nil {
			return fmt.Errorf("%s: %w", m.Name, err)
		}
		chart := &plotting.LineChart{
			Title: withContext("File Aware Policy Tuning: "+metric.AxisLabel(), context),
			X: plotting.Axis{
				Label:  "File Size Threshold (Blocks)",
				Scale:  plotting.Log2,
				Ticks:  ticks,
				Format: plotting.FormatThreshold,
				Rotate: true,
			},
			Y:           plotting.Axis{Label: metric.AxisLabel(), Scale: plotting.ParseScale(metric.Scale)},
			Series:      lines(series, palette),
			LegendTitle: "Policy",
			Logger:      e.Log,
		}
		if d := e.Config.DefaultThreshold; d > 0 {
			chart.Markers = []plotting.VLine{{
				X:      d,
				Label:  fmt.Sprintf("Default (%s)", plotting.FormatThreshold(d)),
				Color:  plotting.Gray,
				Dashed: true,
				Inline: true,
			}}
		}
		if err := e.save(chart, withVariant("fileaware_tuning_"+metric.Column, m)); err != nil {
			return err
		}
	}
	return nil
}

var scalingMetrics = []config.Metric{
	{Column: "avg_read_latency_ms"},
	{Column: "avg_write_latency_ms"},
	{Column: "write_throughput_mbps"},
}

// scalingScales holds the axis scale of metrics that are not linear by default.
var scalingScales = map[string]string{
	"load_imbalance": "log",
}

// Scaling plots each metric against the number of data nodes, one line per
// policy, for every node scaling summary file. Charts are saved as pdf unless
// a format is configured.
func Scaling(e *Env) error {
	matches, err := discovery.Find(e.FS, e.Config.ResultsDir, discovery.NodeScalingPattern)
	if err != nil {
		return err
	}
	for _, m := range matches {
		err = multierr.Append(err, e.scaleFile(m))
	}
	return err
}

func (e *Env) scaleFile(m discovery.Match) error {
	t, err := table.Load(e.FS, m.Path)
	if err != nil {
		return err
	}
	nodes, err := t.Floats(aggregate.ColNodes)
	if err != nil {
		return err
	}
	ticks := uniqueSorted(nodes)
	context := summaryContext(t)
	palette := plotting.NewPalette(plotting.PolicyColors)

	for _, metric := range e.Config.ChartMetrics("scaling", scalingMetrics...) {
		if metric.Scale == "" {
			metric.Scale = scalingScales[metric.Column]
		}
		series, err := aggregate.Group(t, aggregate.ByColumns(aggregate.ColPolicy), aggregate.ColNodes, metric.Column)
		if err != nil {
			return fmt.Errorf("%s: %w", m.Name, err)
		}
		chart := &plotting.LineChart{
			Title: withContext(metric.AxisLabel()+" vs. Data Node Count", context),
			X: plotting.Axis{
				Label:  "Number of Data Nodes (N)",
				Scale:  plotting.Log2,
				Ticks:  ticks,
				Format: plotting.FormatNodes,
				Rotate: true,
			},
			Y:           plotting.Axis{Label: metric.AxisLabel(), Scale: plotting.ParseScale(metric.Scale)},
			Series:      lines(series, palette),
			LegendTitle: "Policy",
			Logger:      e.Log,
		}
		if err := e.saveAs(chart, withVariant(metric.Column+"_scaling_plot", m), "pdf"); err != nil {
			return err
		}
	}
	return nil
}

func withContext(title, context string) string {
	if context == "" {
		return title
	}
	return title + "\n" + context
}

// withVariant appends the variant suffix of a summary file name, if any.
func withVariant(base string, m discovery.Match) string {
	if v := m.Param("variant"); v != "" {
		return base + "_" + strings.ToLower(v)
	}
	return base
}
