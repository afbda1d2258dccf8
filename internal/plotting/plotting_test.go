package plotting_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dfsalloc/allocplot/internal/aggregate"
	"github.com/dfsalloc/allocplot/internal/plotting"
	"github.com/dfsalloc/allocplot/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var testSize = plotting.Size{Width: 4 * vg.Inch, Height: 3 * vg.Inch, DPI: 72}

func TestMetricLabel(t *testing.T) {
	tests := []struct{ column, want string }{
		{"avg_write_latency_ms", "Avg Write Latency (ms)"},
		{"write_throughput_mbps", "Write Throughput (MB/s)"},
		{"load_imbalance", "Load Imbalance"},
		{"fill_pct", "Fill (%)"},
		{"Block_Size_KB", "Block Size (KB)"},
		{"überlauf_pct", "Überlauf (%)"},
	}
	for _, test := range tests {
		if got := plotting.MetricLabel(test.column); got != test.want {
			t.Errorf("MetricLabel(%q) = %q, want %q", test.column, got, test.want)
		}
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"rand", "Rand"},
		{"FILEAWARE", "Fileaware"},
		{"ärger", "Ärger"},
		{"ωmega", "Ωmega"},
		{"", ""},
	}
	for _, test := range tests {
		got := plotting.Capitalize(test.in)
		if got != test.want {
			t.Errorf("Capitalize(%q) = %q, want %q", test.in, got, test.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("Capitalize(%q) = %q is not valid UTF-8", test.in, got)
		}
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		name   string
		format func(float64) string
		in     float64
		want   string
	}{
		{"Bytes", plotting.FormatBytes, 512, "512 B"},
		{"Bytes", plotting.FormatBytes, 4096, "4 KB"},
		{"Bytes", plotting.FormatBytes, 1536, "1 KB"},
		{"Bytes", plotting.FormatBytes, 4 * 1024 * 1024, "4 MB"},
		{"Percent", plotting.FormatPercent, 12.5, "12.5%"},
		{"Ratio", plotting.FormatRatio, 0.25, "25%"},
		{"Nodes", plotting.FormatNodes, 8, "8 Nodes"},
		{"Threshold", plotting.FormatThreshold, 1, "1 Block"},
		{"Threshold", plotting.FormatThreshold, 64, "64 Blocks"},
		{"Int", plotting.FormatInt, 16.7, "16"},
		{"Float", plotting.FormatFloat, 0.5, "0.5"},
	}
	for _, test := range tests {
		if got := test.format(test.in); got != test.want {
			t.Errorf("Format%s(%v) = %q, want %q", test.name, test.in, got, test.want)
		}
	}
}

func TestParseScale(t *testing.T) {
	tests := []struct {
		in   string
		want plotting.Scale
	}{
		{"", plotting.Linear},
		{"linear", plotting.Linear},
		{"log", plotting.Log10},
		{"log10", plotting.Log10},
		{"log2", plotting.Log2},
	}
	for _, test := range tests {
		if got := plotting.ParseScale(test.in); got != test.want {
			t.Errorf("ParseScale(%q) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestPalette(t *testing.T) {
	p := plotting.NewPalette(plotting.PolicyColors)
	if got := p.Color("roundrobin"); got != plotting.PolicyColors["roundrobin"] {
		t.Errorf("Color(roundrobin) = %v, want the fixed colour", got)
	}
	first := p.Color("custom")
	if got := p.Color("custom"); got != first {
		t.Errorf("Color(custom) = %v, then %v", first, got)
	}
	if p.Color("other") == first {
		t.Error("distinct names got the same fallback colour")
	}
}

func series(label string, pts ...float64) plotting.LineSeries {
	s := aggregate.Series{Label: label}
	for i := 0; i+1 < len(pts); i += 2 {
		s.Points = append(s.Points, aggregate.Point{X: pts[i], Y: pts[i+1]})
	}
	return plotting.LineSeries{Label: label, Data: s}
}

func lineChart() *plotting.LineChart {
	return &plotting.LineChart{
		Title: "Avg Write Latency (ms) vs Fill Level",
		X:     plotting.Axis{Label: "Fill Level (%)", Format: plotting.FormatPercent},
		Y:     plotting.Axis{Label: "Avg Write Latency (ms)"},
		Series: []plotting.LineSeries{
			series("roundrobin (8 nodes)", 10, 1.2, 20, 1.5),
			series("rand (8 nodes)", 10, 1.4, 20, 1.9),
		},
		Markers:     []plotting.VLine{{X: 15, Label: "Truncation Start", Color: plotting.Red, Dashed: true}},
		LegendTitle: "Policy",
	}
}

func TestSaveFormats(t *testing.T) {
	for _, format := range []string{"png", "jpg", "tif", "svg", "pdf", "eps"} {
		t.Run(format, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			filename := "plots/chart." + format
			if err := fs.MkdirAll("plots", 0o755); err != nil {
				t.Fatal(err)
			}
			if err := plotting.Save(fs, lineChart(), filename, testSize); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			info, err := fs.Stat(filename)
			if err != nil {
				t.Fatal(err)
			}
			if info.Size() == 0 {
				t.Errorf("%s is empty", filename)
			}
		})
	}
}

func TestSaveCSV(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := plotting.Save(fs, lineChart(), "chart.csv", testSize); err != nil {
		t.Fatal(err)
	}
	got, err := afero.ReadFile(fs, "chart.csv")
	if err != nil {
		t.Fatal(err)
	}
	want := `series,x,y
roundrobin (8 nodes),10,1.2
roundrobin (8 nodes),20,1.5
rand (8 nodes),10,1.4
rand (8 nodes),20,1.9
`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("chart.csv mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveNoData(t *testing.T) {
	fs := afero.NewMemMapFs()
	chart := &plotting.LineChart{Title: "Empty", Series: []plotting.LineSeries{series("none")}}
	for _, name := range []string{"empty.png", "empty.csv"} {
		err := plotting.Save(fs, chart, name, testSize)
		if !errors.Is(err, plotting.ErrNoData) {
			t.Errorf("Save(%s) error = %v, want ErrNoData", name, err)
		}
		if ok, _ := afero.Exists(fs, name); ok {
			t.Errorf("Save(%s) left a file behind", name)
		}
	}
}

func TestSaveUnsupported(t *testing.T) {
	if err := plotting.Save(afero.NewMemMapFs(), lineChart(), "chart.bmp", testSize); err == nil {
		t.Error("Save(.bmp): expected error")
	}
	if !plotting.IsFormat("PNG") || plotting.IsFormat("bmp") {
		t.Error("IsFormat() should be case-insensitive and reject unknown formats")
	}
}

func TestLogScaleFallback(t *testing.T) {
	var buf bytes.Buffer
	chart := lineChart()
	chart.Y.Scale = plotting.Log10
	chart.Series = append(chart.Series, series("zero", 10, 0))
	chart.Logger = logging.NewWithDest(&buf, "test")
	if _, err := chart.Plot(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "using a linear scale") {
		t.Errorf("expected a fallback warning, got %q", buf.String())
	}

	buf.Reset()
	chart = lineChart()
	chart.X.Scale = plotting.Log2
	chart.Y.Scale = plotting.Log10
	chart.Logger = logging.NewWithDest(&buf, "test")
	if err := plotting.Write(&bytes.Buffer{}, chart, "svg", testSize); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected warning for positive data: %q", buf.String())
	}
}

func barChart() *plotting.GroupedBarChart {
	return &plotting.GroupedBarChart{
		Title:       "Load Imbalance by Policy",
		YLabel:      "Load Imbalance",
		LegendTitle: "Workload Distribution",
		Groups:      []string{"rand", "roundrobin"},
		Bars: []plotting.BarSeries{
			{Label: "Uniform Small", Values: []float64{0.2, 0.1}, Color: plotting.DistributionColors["Uniform Small"]},
			{Label: "Video", Values: []float64{0.5, math.NaN()}, Color: plotting.DistributionColors["Video"]},
		},
		ValueLabels: true,
	}
}

func TestGroupedBarChart(t *testing.T) {
	want := [][]string{
		{"group", "series", "value"},
		{"rand", "Uniform Small", "0.2"},
		{"rand", "Video", "0.5"},
		{"roundrobin", "Uniform Small", "0.1"},
	}
	if diff := cmp.Diff(want, barChart().Records()); diff != "" {
		t.Errorf("Records() mismatch (-want +got):\n%s", diff)
	}
	if err := plotting.Write(&bytes.Buffer{}, barChart(), "png", testSize); err != nil {
		t.Errorf("Write() error = %v", err)
	}

	bad := barChart()
	bad.Bars[0].Values = []float64{1}
	if _, err := bad.Plot(); err == nil {
		t.Error("Plot() with a short series: expected error")
	}
	empty := barChart()
	empty.Bars = []plotting.BarSeries{{Values: []float64{math.NaN(), math.NaN()}}}
	if _, err := empty.Plot(); !errors.Is(err, plotting.ErrNoData) {
		t.Errorf("Plot() error = %v, want ErrNoData", err)
	}
}

func TestPanel(t *testing.T) {
	bar := func(title string) plotting.Chart {
		return &plotting.BarChart{
			Title:      title,
			Categories: []string{"rand", "roundrobin"},
			Values:     []float64{1, 2},
			Rotate:     true,
		}
	}
	panel := &plotting.Panel{
		Title:  "Policy Comparison",
		Rows:   2,
		Cols:   2,
		Charts: []plotting.Chart{bar("a"), bar("b"), bar("c"), bar("d")},
	}
	if err := plotting.Write(&bytes.Buffer{}, panel, "png", testSize); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	records := panel.Records()
	if diff := cmp.Diff([]string{"chart", "group", "series", "value"}, records[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"d", "roundrobin", "", "2"}, records[len(records)-1]); diff != "" {
		t.Errorf("last record mismatch (-want +got):\n%s", diff)
	}

	panel.Rows = 1
	if err := plotting.Write(&bytes.Buffer{}, panel, "png", testSize); err == nil {
		t.Error("Write() with too many charts: expected error")
	}
}

func TestVLineOnLogAxis(t *testing.T) {
	chart := &plotting.LineChart{
		Title: "File Aware Policy Tuning",
		X:     plotting.Axis{Scale: plotting.Log2, Ticks: []float64{1, 4, 16}, Format: plotting.FormatThreshold, Rotate: true},
		Series: []plotting.LineSeries{
			{Label: "fileaware", Data: plotter.XYs{{X: 1, Y: 3}, {X: 4, Y: 2}, {X: 16, Y: 2.5}}, Marker: plotting.MarkerTriangle},
		},
		Markers: []plotting.VLine{{X: 4, Label: "Default (4 Blocks)", Color: plotting.Gray, Dashed: true, Inline: true}},
	}
	if err := plotting.Write(&bytes.Buffer{}, chart, "svg", testSize); err != nil {
		t.Errorf("Write() error = %v", err)
	}
}
