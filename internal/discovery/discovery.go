// Package discovery finds benchmark result files whose names encode the
// experiment parameters, such as results_fill_roundrobin_web_realistic_8nodes.csv.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/dfsalloc/allocplot/internal/aggregate"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

var (
	// ErrMissingDir is returned when the directory to search does not exist.
	ErrMissingDir = errors.New("directory not found")
	// ErrNoMatches is returned when no file in the directory matches the pattern.
	ErrNoMatches = errors.New("no matching files")
)

// Names of the parameters recognized by Match.Key.
const (
	ParamPolicy       = "policy"
	ParamDistribution = "distribution"
	ParamNodes        = "nodes"
)

// Pattern is a file name pattern whose named capture groups are the
// experiment parameters.
type Pattern struct {
	re *regexp.Regexp
}

// Compile parses a pattern. The expression is anchored at both ends and must
// have at least one named capture group.
func Compile(expr string) (*Pattern, error) {
	if !strings.HasPrefix(expr, "^") {
		expr = "^" + expr
	}
	if !strings.HasSuffix(expr, "$") {
		expr += "$"
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	named := slices.ContainsFunc(re.SubexpNames(), func(n string) bool { return n != "" })
	if !named {
		return nil, fmt.Errorf("pattern %q has no named capture groups", expr)
	}
	return &Pattern{re: re}, nil
}

// MustCompile is like Compile but panics if the pattern is invalid.
func MustCompile(expr string) *Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// WorkloadPattern matches per-run files such as
// results_<kind>_<policy>_<workload>_<N>nodes.csv.
func WorkloadPattern(kind, workload string) *Pattern {
	return MustCompile(fmt.Sprintf(`results_%s_(?P<policy>\w+?)_%s_(?P<nodes>\d+)nodes\.csv`,
		regexp.QuoteMeta(kind), regexp.QuoteMeta(workload)))
}

// NodesPattern is like WorkloadPattern but only matches files for the given node count.
func NodesPattern(kind, workload string, nodes int) *Pattern {
	return MustCompile(fmt.Sprintf(`results_%s_(?P<policy>\w+?)_%s_(?P<nodes>%d)nodes\.csv`,
		regexp.QuoteMeta(kind), regexp.QuoteMeta(workload), nodes))
}

var (
	// BlockPattern matches block size sweep files.
	BlockPattern = MustCompile(`block_(?P<label>.+)\.csv`)
	// TuningPattern matches fileaware threshold tuning summaries with an optional variant suffix.
	TuningPattern = MustCompile(`results_fileaware_tuning_summary(?:_(?P<variant>\w+))?\.csv`)
	// NodeScalingPattern matches node scaling summaries with an optional variant suffix.
	NodeScalingPattern = MustCompile(`results_node_scaling_summary(?:_(?P<variant>\w+))?\.csv`)
)

// String returns the underlying expression.
func (p *Pattern) String() string {
	return p.re.String()
}

// Match decodes name. It returns false if name does not match the pattern.
func (p *Pattern) Match(name string) (params map[string]string, ok bool) {
	sub := p.re.FindStringSubmatch(name)
	if sub == nil {
		return nil, false
	}
	params = make(map[string]string)
	for i, n := range p.re.SubexpNames() {
		if n != "" && sub[i] != "" {
			params[n] = sub[i]
		}
	}
	return params, true
}

// Match is a discovered file and the parameters decoded from its name.
type Match struct {
	Path   string
	Name   string
	Params map[string]string
}

// Param returns the named parameter, or "" if absent.
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Int returns the named parameter as an integer.
func (m Match) Int(name string) (int, error) {
	v, ok := m.Params[name]
	if !ok {
		return 0, fmt.Errorf("%s: no parameter %q", m.Name, name)
	}
	// cast parses a leading zero as an octal prefix
	digits := strings.TrimLeft(v, "0")
	if digits == "" {
		digits = "0"
	}
	n, err := cast.ToIntE(digits)
	if err != nil {
		return 0, fmt.Errorf("%s: parameter %q: %w", m.Name, name, err)
	}
	return n, nil
}

// Key returns the policy, distribution and node count parameters that are present.
func (m Match) Key() (aggregate.Key, error) {
	k := aggregate.Key{Policy: m.Param(ParamPolicy), Distribution: m.Param(ParamDistribution)}
	if _, ok := m.Params[ParamNodes]; ok {
		n, err := m.Int(ParamNodes)
		if err != nil {
			return aggregate.Key{}, err
		}
		k.Nodes = n
	}
	return k, nil
}

// Find returns the regular files in dir whose names match p, ordered by node
// count, then policy, then name. Files that do not match are skipped.
func Find(fsys afero.Fs, dir string, p *Pattern) ([]Match, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", dir, ErrMissingDir)
	}
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, e := range entries {
		if !e.Mode().IsRegular() {
			continue
		}
		params, ok := p.Match(e.Name())
		if !ok {
			continue
		}
		matches = append(matches, Match{
			Path:   filepath.Join(dir, e.Name()),
			Name:   e.Name(),
			Params: params,
		})
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%s: %s: %w", dir, p, ErrNoMatches)
	}

	slices.SortStableFunc(matches, compareMatches)
	return matches, nil
}

func compareMatches(a, b Match) int {
	// unparsable node counts sort first and are reported when the key is decoded
	ka, _ := a.Key()
	kb, _ := b.Key()
	switch {
	case ka.Nodes != kb.Nodes:
		return ka.Nodes - kb.Nodes
	case ka.Policy != kb.Policy:
		return strings.Compare(ka.Policy, kb.Policy)
	default:
		return strings.Compare(a.Name, b.Name)
	}
}

// FindFile checks that the single file at path exists and returns it as a Match
// without parameters.
func FindFile(fsys afero.Fs, file string) (Match, error) {
	info, err := fsys.Stat(file)
	if err != nil {
		return Match{}, err
	}
	if !info.Mode().IsRegular() {
		return Match{}, fmt.Errorf("%s: not a regular file", file)
	}
	return Match{Path: file, Name: filepath.Base(file), Params: map[string]string{}}, nil
}
