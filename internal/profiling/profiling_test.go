package profiling_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dfsalloc/allocplot/internal/profiling"
)

func TestStart(t *testing.T) {
	dir := t.TempDir()
	paths := profiling.Paths{
		CPU:    filepath.Join(dir, "cpu.prof"),
		Mem:    filepath.Join(dir, "mem.prof"),
		Trace:  filepath.Join(dir, "trace.out"),
		Fgprof: filepath.Join(dir, "fgprof.prof"),
	}
	if !paths.Enabled() {
		t.Fatal("Enabled() = false, want true")
	}
	stop, err := profiling.Start(paths)
	if err != nil {
		t.Fatal(err)
	}
	if err := stop(); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{paths.CPU, paths.Mem, paths.Trace, paths.Fgprof} {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("profile %s not written: %v", filepath.Base(path), err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("profile %s is empty", filepath.Base(path))
		}
	}
}

func TestStartFgprofStopAtOnce(t *testing.T) {
	paths := profiling.Paths{Fgprof: filepath.Join(t.TempDir(), "fgprof.prof")}
	stop, err := profiling.Start(paths)
	if err != nil {
		t.Fatal(err)
	}
	if err := stop(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(paths.Fgprof); err != nil {
		t.Errorf("fgprof profile not written: %v", err)
	}
}

func TestStartNothing(t *testing.T) {
	var paths profiling.Paths
	if paths.Enabled() {
		t.Fatal("Enabled() = true for empty paths, want false")
	}
	stop, err := profiling.Start(paths)
	if err != nil {
		t.Fatal(err)
	}
	if err := stop(); err != nil {
		t.Fatal(err)
	}
}

func TestStartBadPath(t *testing.T) {
	paths := profiling.Paths{Trace: filepath.Join(t.TempDir(), "missing", "trace.out")}
	if _, err := profiling.Start(paths); err == nil {
		t.Error("Start() = nil error for a path in a missing directory, want error")
	}
}
