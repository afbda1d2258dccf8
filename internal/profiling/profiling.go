// Package profiling starts the optional profilers of a chart run.
package profiling

import (
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/felixge/fgprof"
	"go.uber.org/multierr"
)

// Paths names the output files of the profilers; empty paths disable them.
type Paths struct {
	CPU    string
	Mem    string
	Trace  string
	Fgprof string
}

// Enabled reports whether any profiler was requested.
func (p Paths) Enabled() bool {
	return p.CPU != "" || p.Mem != "" || p.Trace != "" || p.Fgprof != ""
}

// Start starts the requested profilers. The returned function stops them,
// writes the memory profile, and reports every error encountered on the way.
// If Start fails, profilers it already started are stopped.
func Start(paths Paths) (stop func() error, err error) {
	var stops []func() error
	stopAll := func() (err error) {
		// stop in reverse start order
		for i := len(stops) - 1; i >= 0; i-- {
			err = multierr.Append(err, stops[i]())
		}
		return err
	}

	if paths.CPU != "" {
		f, err := os.Create(paths.CPU)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return nil, multierr.Append(err, f.Close())
		}
		stops = append(stops, func() error {
			pprof.StopCPUProfile()
			return f.Close()
		})
	}

	if paths.Fgprof != "" {
		f, err := os.Create(paths.Fgprof)
		if err != nil {
			return nil, multierr.Append(err, stopAll())
		}
		fgprofStop := fgprof.Start(f, fgprof.FormatPprof)
		stops = append(stops, func() error {
			return multierr.Append(fgprofStop(), f.Close())
		})
	}

	if paths.Trace != "" {
		f, err := os.Create(paths.Trace)
		if err != nil {
			return nil, multierr.Append(err, stopAll())
		}
		if err := trace.Start(f); err != nil {
			return nil, multierr.Combine(err, f.Close(), stopAll())
		}
		stops = append(stops, func() error {
			trace.Stop()
			return f.Close()
		})
	}

	return func() error {
		var err error
		if paths.Mem != "" {
			err = writeHeapProfile(paths.Mem)
		}
		return multierr.Append(err, stopAll())
	}, nil
}

func writeHeapProfile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	runtime.GC() // get up-to-date statistics
	return pprof.WriteHeapProfile(f)
}
