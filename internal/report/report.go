// Package report turns benchmark result files into charts. Each Job reads the
// files it needs from the results directory and writes one or more charts to
// the output directory. Missing or empty inputs skip a chart with a warning;
// any other error fails the job.
package report

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/dfsalloc/allocplot/internal/config"
	"github.com/dfsalloc/allocplot/internal/discovery"
	"github.com/dfsalloc/allocplot/internal/plotting"
	"github.com/dfsalloc/allocplot/internal/table"
	"github.com/dfsalloc/allocplot/logging"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// Env is the environment a job runs in.
type Env struct {
	FS     afero.Fs
	Config *config.Config
	Log    logging.Logger
	// Saved lists the files written so far.
	Saved []string
}

// NewEnv returns an environment reading and writing through fs.
func NewEnv(fs afero.Fs, cfg *config.Config, log logging.Logger) *Env {
	return &Env{FS: fs, Config: cfg, Log: log}
}

// Input returns the path of a file or directory below the results directory.
func (e *Env) Input(elem ...string) string {
	return filepath.Join(append([]string{e.Config.ResultsDir}, elem...)...)
}

// Output returns the path a chart named base is saved to, using the
// configured format or png if none is set.
func (e *Env) Output(base string) string {
	return e.OutputAs(base, "png")
}

// OutputAs is like Output but uses ext when no format is configured.
func (e *Env) OutputAs(base, ext string) string {
	if e.Config.Format != "" {
		ext = e.Config.Format
	}
	return filepath.Join(e.Config.OutputDir, base+"."+ext)
}

// save writes fig to Output(base).
func (e *Env) save(fig plotting.Figure, base string) error {
	return e.saveAs(fig, base, "png")
}

// saveAs writes fig to OutputAs(base, ext). Charts without data are skipped
// with a warning.
func (e *Env) saveAs(fig plotting.Figure, base, ext string) error {
	if err := e.FS.MkdirAll(e.Config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := e.OutputAs(base, ext)
	err := plotting.Save(e.FS, fig, filename, e.Config.Size())
	if Skippable(err) {
		e.Log.Warnf("skipping %s: %v", filepath.Base(filename), err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(filename), err)
	}
	e.Saved = append(e.Saved, filename)
	e.Log.Infof("Saved %s", filename)
	return nil
}

// Skippable reports whether err means that input data is missing, in which
// case the chart is skipped rather than failed.
func Skippable(err error) bool {
	return errors.Is(err, discovery.ErrMissingDir) ||
		errors.Is(err, discovery.ErrNoMatches) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, table.ErrEmpty) ||
		errors.Is(err, plotting.ErrNoData)
}

// Job is a named chart generator.
type Job struct {
	Name  string
	Short string
	Run   func(*Env) error
}

// Run runs the jobs in order. Jobs failing with a skippable error are logged
// and skipped; all other errors are combined in the returned error.
func Run(env *Env, jobs ...Job) error {
	var errs error
	for _, job := range jobs {
		env.Log.Debugf("running %s", job.Name)
		err := job.Run(env)
		switch {
		case err == nil:
		case Skippable(err):
			env.Log.Warnf("%s: skipped: %v", job.Name, err)
		default:
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", job.Name, err))
		}
	}
	return errs
}

// Jobs returns every chart job in the order "all" runs them.
func Jobs() []Job {
	return []Job{
		{Name: "fill", Short: "Metrics versus fill level per policy and node count", Run: Fill},
		{Name: "mixed", Short: "Read and write latency of the mixed workload", Run: Mixed},
		{Name: "readheavy", Short: "Read latency over time of the read-heavy workload", Run: ReadHeavy},
		{Name: "imbalance", Short: "Load imbalance evolution of the imbalance test", Run: Imbalance},
		{Name: "nodes", Short: "Throughput, imbalance and latency versus node count", Run: NodeSummary},
		{Name: "compare", Short: "Policy comparison at the final fill level", Run: Compare},
		{Name: "dist", Short: "Policy performance per workload distribution", Run: Distribution},
		{Name: "blocks", Short: "Metrics versus block size per policy", Run: Blocks},
		{Name: "seq", Short: "Create, write and read time versus block size", Run: Sequential},
		{Name: "impl", Short: "Operation latency per allocation implementation", Run: Implementation},
		{Name: "tune", Short: "Fileaware threshold tuning", Run: Tuning},
		{Name: "scaling", Short: "Metrics versus data node count", Run: Scaling},
	}
}

// Lookup returns the job with the given name.
func Lookup(name string) (Job, bool) {
	jobs := Jobs()
	i := slices.IndexFunc(jobs, func(j Job) bool { return j.Name == name })
	if i < 0 {
		return Job{}, false
	}
	return jobs[i], true
}
