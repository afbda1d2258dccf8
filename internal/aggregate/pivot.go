package aggregate

import (
	"math"
	"strings"

	"github.com/dfsalloc/allocplot/internal/table"
)

// Dedup returns a table holding, for every distinct combination of cols, only
// the last row with that combination. Rows keep their original relative order.
func Dedup(t *table.Table, cols ...string) (*table.Table, error) {
	if err := t.Require(cols...); err != nil {
		return nil, err
	}
	last := make(map[string]int)
	var order []string
	for _, row := range t.Rows() {
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i], _ = row.String(c)
		}
		k := strings.Join(parts, "\x00")
		if _, seen := last[k]; !seen {
			order = append(order, k)
		}
		last[k] = row.Position()
	}

	keep := make(map[int]bool, len(last))
	for _, k := range order {
		keep[last[k]] = true
	}
	positions := make([]int, 0, len(keep))
	for i := 0; i < t.Len(); i++ {
		if keep[i] {
			positions = append(positions, i)
		}
	}
	return t.Select(positions), nil
}

type cell struct {
	row, col string
}

// Pivot is a two-way table of metric values indexed by the values of two
// categorical columns.
type Pivot struct {
	Rows   []string
	Cols   []string
	values map[cell]float64
}

// NewPivot spreads metric over rowCol x colCol. When a (row, col) pair occurs
// more than once the last value wins. Rows and columns are in first-seen order.
func NewPivot(t *table.Table, rowCol, colCol, metric string) (*Pivot, error) {
	if err := t.Require(metric, rowCol, colCol); err != nil {
		return nil, err
	}
	p := &Pivot{values: make(map[cell]float64)}
	seenRow := make(map[string]bool)
	seenCol := make(map[string]bool)
	for _, row := range t.Rows() {
		r, _ := row.String(rowCol)
		c, _ := row.String(colCol)
		v, err := row.Float(metric)
		if err != nil {
			return nil, err
		}
		if !seenRow[r] {
			seenRow[r] = true
			p.Rows = append(p.Rows, r)
		}
		if !seenCol[c] {
			seenCol[c] = true
			p.Cols = append(p.Cols, c)
		}
		p.values[cell{r, c}] = v
	}
	return p, nil
}

// Reindex returns a pivot with exactly the given rows and columns in the given
// order. Cells that did not exist are missing in the result.
func (p *Pivot) Reindex(rows, cols []string) *Pivot {
	out := &Pivot{Rows: rows, Cols: cols, values: make(map[cell]float64)}
	for _, r := range rows {
		for _, c := range cols {
			if v, ok := p.values[cell{r, c}]; ok {
				out.values[cell{r, c}] = v
			}
		}
	}
	return out
}

// MapRows renames the row labels with fn. Rows mapping to the same label are
// merged, later rows overriding earlier ones.
func (p *Pivot) MapRows(fn func(string) string) *Pivot {
	out := &Pivot{Cols: p.Cols, values: make(map[cell]float64)}
	seen := make(map[string]bool)
	for _, r := range p.Rows {
		nr := fn(r)
		if !seen[nr] {
			seen[nr] = true
			out.Rows = append(out.Rows, nr)
		}
		for _, c := range p.Cols {
			if v, ok := p.values[cell{r, c}]; ok {
				out.values[cell{nr, c}] = v
			}
		}
	}
	return out
}

// At returns the value at (row, col).
func (p *Pivot) At(row, col string) (float64, bool) {
	v, ok := p.values[cell{row, col}]
	return v, ok
}

// Row returns the values of row in column order; missing cells are NaN.
func (p *Pivot) Row(row string) []float64 {
	values := make([]float64, len(p.Cols))
	for i, c := range p.Cols {
		values[i] = p.get(row, c)
	}
	return values
}

// Col returns the values of col in row order; missing cells are NaN.
func (p *Pivot) Col(col string) []float64 {
	values := make([]float64, len(p.Rows))
	for i, r := range p.Rows {
		values[i] = p.get(r, col)
	}
	return values
}

func (p *Pivot) get(row, col string) float64 {
	if v, ok := p.values[cell{row, col}]; ok {
		return v
	}
	return math.NaN()
}
