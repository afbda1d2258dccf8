package aggregate

import (
	"fmt"
	"strings"

	"github.com/dfsalloc/allocplot/internal/plotting"
	"github.com/dfsalloc/allocplot/internal/table"
)

// Column names that map onto Key fields.
const (
	ColPolicy       = "policy"
	ColDistribution = "distribution"
	ColNodes        = "num_nodes"
)

// Key identifies an experiment by its categorical parameters. Only the
// fields used by a grouping are set.
type Key struct {
	Policy       string
	Distribution string
	Nodes        int
}

// Label returns a legend label such as "roundrobin (8 nodes)".
func (k Key) Label() string {
	var b strings.Builder
	b.WriteString(k.Policy)
	if k.Distribution != "" {
		if b.Len() > 0 {
			b.WriteString(" / ")
		}
		b.WriteString(DisplayName(k.Distribution))
	}
	if k.Nodes > 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "(%d nodes)", k.Nodes)
	}
	return b.String()
}

// Compare orders keys by node count, then policy, then distribution.
func Compare(a, b Key) int {
	switch {
	case a.Nodes != b.Nodes:
		if a.Nodes < b.Nodes {
			return -1
		}
		return 1
	case a.Policy != b.Policy:
		return strings.Compare(a.Policy, b.Policy)
	default:
		return strings.Compare(a.Distribution, b.Distribution)
	}
}

// DisplayName turns a raw name such as "web_realistic" into "Web Realistic".
func DisplayName(raw string) string {
	words := strings.Fields(strings.ReplaceAll(raw, "_", " "))
	for i, w := range words {
		words[i] = plotting.Capitalize(w)
	}
	return strings.Join(words, " ")
}

// KeyFunc derives the grouping key of a row.
type KeyFunc func(table.Row) (Key, error)

// ByColumns returns a KeyFunc reading the policy, distribution and num_nodes columns.
// Other column names are rejected when the returned function is first called.
func ByColumns(cols ...string) KeyFunc {
	return func(row table.Row) (k Key, err error) {
		for _, col := range cols {
			switch col {
			case ColPolicy:
				k.Policy, err = row.String(col)
			case ColDistribution:
				k.Distribution, err = row.String(col)
			case ColNodes:
				k.Nodes, err = row.Int(col)
			default:
				err = fmt.Errorf("column %q cannot be used as a key", col)
			}
			if err != nil {
				return Key{}, err
			}
		}
		return k, nil
	}
}

// Fixed returns a KeyFunc assigning k to every row. It is used when the key
// comes from the file name rather than the table.
func Fixed(k Key) KeyFunc {
	return func(table.Row) (Key, error) { return k, nil }
}
