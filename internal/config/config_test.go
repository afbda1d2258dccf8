package config_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/dfsalloc/allocplot/internal/config"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func TestNewCue(t *testing.T) {
	want := config.Defaults()
	want.Format = "pdf"
	want.DPI = 150
	want.Nodes = []int{4, 8, 16}
	want.Charts = map[string][]config.Metric{
		"scaling": {
			{Column: "load_imbalance", Label: "Load Imbalance (CoV)", Scale: "log"},
			{Column: "write_throughput_mbps"},
		},
	}
	got, err := config.NewCue(filepath.Join("testdata", "scaling.cue"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewCue() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCueKeepsBase(t *testing.T) {
	base := config.Defaults()
	base.ResultsDir = "/data/results"
	base.Workload = "video"
	got, err := config.ParseCue("inline.cue", []byte(`config: { format: "svg" }`), base)
	if err != nil {
		t.Fatal(err)
	}
	want := base.Clone()
	want.Format = "svg"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseCue() mismatch (-want +got):\n%s", diff)
	}
	if base.Format != "" {
		t.Errorf("ParseCue() modified base: format = %q", base.Format)
	}
}

func TestParseCueInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "UnknownFormat", src: `config: { format: "gif" }`},
		{name: "NegativeWidth", src: `config: { width: -1 }`},
		{name: "ZeroNodes", src: `config: { nodes: [0] }`},
		{name: "EmptyColumn", src: `config: { charts: { fill: [{column: ""}] } }`},
		{name: "BadScale", src: `config: { charts: { fill: [{column: "x", scale: "sqrt"}] } }`},
		{name: "NoConfig", src: `other: { format: "png" }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := config.ParseCue(tt.name+".cue", []byte(tt.src), nil); err == nil {
				t.Errorf("ParseCue(%s) = nil error, want error", tt.src)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*config.Config)
		wantErr string
	}{
		{name: "Defaults", modify: func(*config.Config) {}},
		{name: "UpperCaseFormat", modify: func(c *config.Config) { c.Format = ".PDF" }},
		{name: "UnknownFormat", modify: func(c *config.Config) { c.Format = "gif" }, wantErr: `invalid format "gif"`},
		{name: "ZeroHeight", modify: func(c *config.Config) { c.Height = 0 }, wantErr: "invalid figure size"},
		{name: "ZeroDPI", modify: func(c *config.Config) { c.DPI = 0 }, wantErr: "invalid dpi"},
		{name: "NegativeNodes", modify: func(c *config.Config) { c.Nodes = []int{8, -1} }, wantErr: "invalid node count -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			tt.modify(cfg)
			err := cfg.Validate()
			switch {
			case tt.wantErr == "" && err != nil:
				t.Errorf("Validate() = %v, want nil", err)
			case tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)):
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestChartMetrics(t *testing.T) {
	defaults := []config.Metric{
		{Column: "avg_write_latency_ms"},
		{Column: "load_imbalance", Label: "Load Imbalance (CoV)", Scale: "log"},
	}
	configured := []config.Metric{{Column: "load_std_dev"}}
	tests := []struct {
		name    string
		metrics []string
		charts  map[string][]config.Metric
		want    []config.Metric
	}{
		{name: "Defaults", want: defaults},
		{name: "Configured", charts: map[string][]config.Metric{"fill": configured}, want: configured},
		{name: "OtherChart", charts: map[string][]config.Metric{"mixed": configured}, want: defaults},
		{
			name:    "Override",
			metrics: []string{"load_imbalance", "num_files"},
			charts:  map[string][]config.Metric{"fill": configured},
			want:    []config.Metric{defaults[1], {Column: "num_files"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			cfg.Metrics = tt.metrics
			cfg.Charts = tt.charts
			got := cfg.ChartMetrics("fill", defaults...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ChartMetrics() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMetricAxisLabel(t *testing.T) {
	tests := []struct {
		metric config.Metric
		want   string
	}{
		{metric: config.Metric{Column: "avg_write_latency_ms"}, want: "Avg Write Latency (ms)"},
		{metric: config.Metric{Column: "load_imbalance", Label: "Load Imbalance (CoV)"}, want: "Load Imbalance (CoV)"},
	}
	for _, tt := range tests {
		if got := tt.metric.AxisLabel(); got != tt.want {
			t.Errorf("AxisLabel(%v) = %q, want %q", tt.metric, got, tt.want)
		}
	}
}

func TestWantNodes(t *testing.T) {
	cfg := config.Defaults()
	if !cfg.WantNodes(32) {
		t.Error("WantNodes(32) = false without a node filter, want true")
	}
	cfg.Nodes = []int{4, 8}
	if !cfg.WantNodes(8) || cfg.WantNodes(16) {
		t.Errorf("WantNodes() does not honour the node filter %v", cfg.Nodes)
	}
}

func TestNewViper(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	viper.Set("results", dir)
	viper.Set("output", filepath.Join(dir, "plots"))
	viper.Set("format", "svg")
	viper.Set("dpi", 72)
	viper.Set("nodes", []int{16})
	viper.Set("metrics", []string{"num_files"})

	cfg, err := config.NewViper()
	if err != nil {
		t.Fatal(err)
	}
	want := config.Defaults()
	want.ResultsDir = dir
	want.OutputDir = filepath.Join(dir, "plots")
	want.Format = "svg"
	want.DPI = 72
	want.Nodes = []int{16}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("NewViper() mismatch (-want +got):\n%s", diff)
	}
}
