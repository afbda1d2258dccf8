// Package config holds the settings shared by every chart job.
package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dfsalloc/allocplot/internal/plotting"
	"gonum.org/v1/plot/vg"
)

// Metric selects one column to chart and how to present it.
type Metric struct {
	// Column is the name of the metric column in the result table.
	Column string `json:"column"`
	// Label overrides the axis label derived from the column name.
	Label string `json:"label,omitempty"`
	// Scale is one of linear, log, log2 or log10.
	Scale string `json:"scale,omitempty"`
}

// AxisLabel returns the label of the metric axis.
func (m Metric) AxisLabel() string {
	if m.Label != "" {
		return m.Label
	}
	return plotting.MetricLabel(m.Column)
}

// Config holds the configuration of a single allocplot invocation.
type Config struct {
	// ResultsDir is the directory holding the benchmark result files.
	ResultsDir string `json:"results,omitempty"`
	// OutputDir is the directory charts are written to.
	OutputDir string `json:"output,omitempty"`
	// Format is the output file extension without the dot. Empty selects the
	// default format of each chart job.
	Format string `json:"format,omitempty"`
	// Width and Height are the figure size in inches.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	// DPI is the resolution of raster output.
	DPI int `json:"dpi,omitempty"`
	// Nodes restricts node-count aware charts to these node counts.
	Nodes []int `json:"nodes,omitempty"`
	// CompareNodes is the node count used by the policy comparison.
	CompareNodes int `json:"compareNodes,omitempty"`
	// Workload is the workload tag in result file names.
	Workload string `json:"workload,omitempty"`
	// DefaultThreshold marks the default fileaware threshold on tuning charts.
	DefaultThreshold float64 `json:"defaultThreshold,omitempty"`
	// Metrics overrides the metric columns of the selected chart job. Only
	// the --metrics flag of a chart command sets it.
	Metrics []string `json:"-"`
	// Charts maps a chart job name to the metrics it draws.
	Charts map[string][]Metric `json:"charts,omitempty"`
	// LogLevel is the global log level.
	LogLevel string `json:"-"`
}

// Defaults returns a configuration with the built-in defaults.
func Defaults() *Config {
	return &Config{
		ResultsDir:       ".",
		OutputDir:        "plots",
		Width:            10,
		Height:           6,
		DPI:              300,
		CompareNodes:     8,
		Workload:         "web_realistic",
		DefaultThreshold: 4,
		LogLevel:         "info",
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Nodes = slices.Clone(c.Nodes)
	clone.Metrics = slices.Clone(c.Metrics)
	if c.Charts != nil {
		clone.Charts = make(map[string][]Metric, len(c.Charts))
		for name, metrics := range c.Charts {
			clone.Charts[name] = slices.Clone(metrics)
		}
	}
	return &clone
}

// Validate checks that the configuration can be used to render charts.
func (c *Config) Validate() error {
	c.Format = strings.ToLower(strings.TrimPrefix(c.Format, "."))
	if c.Format != "" && !plotting.IsFormat(c.Format) {
		return fmt.Errorf("invalid format %q: must be one of %s", c.Format, strings.Join(plotting.Formats, ", "))
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid figure size %gx%g: width and height must be positive", c.Width, c.Height)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("invalid dpi %d: must be positive", c.DPI)
	}
	for _, n := range c.Nodes {
		if n <= 0 {
			return fmt.Errorf("invalid node count %d: must be positive", n)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(c.Charts)) {
		for i, m := range c.Charts[name] {
			if m.Column == "" {
				return fmt.Errorf("chart %s: metric %d has no column", name, i)
			}
		}
	}
	return nil
}

// Size returns the figure size for plotting.
func (c *Config) Size() plotting.Size {
	return plotting.Size{
		Width:  vg.Length(c.Width) * vg.Inch,
		Height: vg.Length(c.Height) * vg.Inch,
		DPI:    c.DPI,
	}
}

// ChartMetrics returns the metrics to draw for the named chart job. The
// Metrics override wins over the chart's configured metrics, which win over
// the given defaults.
func (c *Config) ChartMetrics(chart string, defaults ...Metric) []Metric {
	if len(c.Metrics) > 0 {
		metrics := make([]Metric, len(c.Metrics))
		for i, col := range c.Metrics {
			metrics[i] = Metric{Column: col}
			// keep the presentation of a known default metric
			if j := slices.IndexFunc(defaults, func(m Metric) bool { return m.Column == col }); j >= 0 {
				metrics[i] = defaults[j]
			}
		}
		return metrics
	}
	if metrics, ok := c.Charts[chart]; ok && len(metrics) > 0 {
		return metrics
	}
	return defaults
}

// WantNodes reports whether charts should include results for n nodes.
func (c *Config) WantNodes(n int) bool {
	return len(c.Nodes) == 0 || slices.Contains(c.Nodes, n)
}
