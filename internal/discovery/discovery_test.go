package discovery_test

import (
	"errors"
	"testing"

	"github.com/dfsalloc/allocplot/internal/aggregate"
	"github.com/dfsalloc/allocplot/internal/discovery"
	"github.com/dfsalloc/allocplot/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestPatternMatch(t *testing.T) {
	fill := discovery.WorkloadPattern("fill", "web_realistic")
	tests := []struct {
		pattern *discovery.Pattern
		name    string
		want    map[string]string
		wantOK  bool
	}{
		{fill, "results_fill_roundrobin_web_realistic_8nodes.csv", map[string]string{"policy": "roundrobin", "nodes": "8"}, true},
		{fill, "results_fill_file_aware_web_realistic_16nodes.csv", map[string]string{"policy": "file_aware", "nodes": "16"}, true},
		{fill, "results_fill_roundrobin_web_realistic_8nodes.csv.bak", nil, false},
		{fill, "results_fill_roundrobin_uniform_8nodes.csv", nil, false},
		{fill, "results_mixed_roundrobin_web_realistic_8nodes.csv", nil, false},
		{discovery.NodesPattern("fill", "web_realistic", 8), "results_fill_rand_web_realistic_8nodes.csv", map[string]string{"policy": "rand", "nodes": "8"}, true},
		{discovery.NodesPattern("fill", "web_realistic", 8), "results_fill_rand_web_realistic_16nodes.csv", nil, false},
		{discovery.BlockPattern, "block_4KB.csv", map[string]string{"label": "4KB"}, true},
		{discovery.TuningPattern, "results_fileaware_tuning_summary.csv", map[string]string{}, true},
		{discovery.TuningPattern, "results_fileaware_tuning_summary_Zipf.csv", map[string]string{"variant": "Zipf"}, true},
		{discovery.NodeScalingPattern, "results_node_scaling_summary_small.csv", map[string]string{"variant": "small"}, true},
		{discovery.NodeScalingPattern, "results_scaling_summary.csv", nil, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := test.pattern.Match(test.name)
			if ok != test.wantOK {
				t.Fatalf("Match(%q) ok = %t, want %t", test.name, ok, test.wantOK)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Match(%q) mismatch (-want +got):\n%s", test.name, diff)
			}
		})
	}
}

func TestCompile(t *testing.T) {
	if _, err := discovery.Compile(`results_\w+\.csv`); err == nil {
		t.Error("Compile() without named groups: expected error")
	}
	if _, err := discovery.Compile(`results_(?P<policy>[`); err == nil {
		t.Error("Compile() with invalid expression: expected error")
	}
	p, err := discovery.Compile(`(?P<policy>\w+)\.csv`)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Match("x/roundrobin.csv"); ok {
		t.Error("compiled pattern should be anchored")
	}
}

func TestFind(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{
		"results_fill_roundrobin_web_realistic_16nodes.csv",
		"results_fill_roundrobin_web_realistic_8nodes.csv",
		"results_fill_file_aware_web_realistic_8nodes.csv",
		"results_fill_rand_uniform_8nodes.csv",
		"notes.txt",
	} {
		testutil.WriteFile(t, fs, "results/fill/"+name, "fill_pct,avg_write_latency_ms\n")
	}
	// directories are never matched, even with a matching name
	if err := fs.MkdirAll("results/fill/results_fill_dir_web_realistic_4nodes.csv", 0o755); err != nil {
		t.Fatal(err)
	}

	matches, err := discovery.Find(fs, "results/fill", discovery.WorkloadPattern("fill", "web_realistic"))
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, m := range matches {
		got = append(got, m.Name)
	}
	want := []string{
		"results_fill_file_aware_web_realistic_8nodes.csv",
		"results_fill_roundrobin_web_realistic_8nodes.csv",
		"results_fill_roundrobin_web_realistic_16nodes.csv",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Find() mismatch (-want +got):\n%s", diff)
	}
	if matches[0].Path != "results/fill/results_fill_file_aware_web_realistic_8nodes.csv" {
		t.Errorf("Path = %q", matches[0].Path)
	}
}

func TestFindErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("empty", 0o755); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		dir  string
		want error
	}{
		{"missing", discovery.ErrMissingDir},
		{"empty", discovery.ErrNoMatches},
	}
	for _, test := range tests {
		t.Run(test.dir, func(t *testing.T) {
			_, err := discovery.Find(fs, test.dir, discovery.BlockPattern)
			if !errors.Is(err, test.want) {
				t.Errorf("Find() error = %v, want %v", err, test.want)
			}
		})
	}
}

func TestMatchKey(t *testing.T) {
	tests := []struct {
		params  map[string]string
		want    aggregate.Key
		wantErr bool
	}{
		{map[string]string{"policy": "roundrobin", "nodes": "8"}, aggregate.Key{Policy: "roundrobin", Nodes: 8}, false},
		{map[string]string{"policy": "rand", "nodes": "08"}, aggregate.Key{Policy: "rand", Nodes: 8}, false},
		{map[string]string{"distribution": "zipf"}, aggregate.Key{Distribution: "zipf"}, false},
		{map[string]string{"nodes": "many"}, aggregate.Key{}, true},
	}
	for _, test := range tests {
		m := discovery.Match{Name: "file.csv", Params: test.params}
		got, err := m.Key()
		if (err != nil) != test.wantErr {
			t.Errorf("Key(%v) error = %v, wantErr %t", test.params, err, test.wantErr)
			continue
		}
		if got != test.want {
			t.Errorf("Key(%v) = %+v, want %+v", test.params, got, test.want)
		}
	}
}

func TestMatchInt(t *testing.T) {
	m := discovery.Match{Name: "file.csv", Params: map[string]string{"nodes": "0", "size": "64"}}
	if n, err := m.Int("nodes"); err != nil || n != 0 {
		t.Errorf("Int(nodes) = %d, %v, want 0", n, err)
	}
	if n, err := m.Int("size"); err != nil || n != 64 {
		t.Errorf("Int(size) = %d, %v, want 64", n, err)
	}
	if _, err := m.Int("missing"); err == nil {
		t.Error("Int(missing): expected error")
	}
}

func TestFindFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	testutil.WriteFile(t, fs, "results/avg_seq.csv", "block_size\n")
	m, err := discovery.FindFile(fs, "results/avg_seq.csv")
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "avg_seq.csv" {
		t.Errorf("Name = %q, want avg_seq.csv", m.Name)
	}
	if _, err := discovery.FindFile(fs, "results"); err == nil {
		t.Error("FindFile(dir): expected error")
	}
	if _, err := discovery.FindFile(fs, "results/missing.csv"); err == nil {
		t.Error("FindFile(missing): expected error")
	}
}
