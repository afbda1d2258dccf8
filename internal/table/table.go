// Package table loads benchmark result tables written by the allocation
// benchmark harness. A Table is immutable once loaded.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"go.uber.org/multierr"
)

// ErrEmpty is returned when a table has no data rows.
var ErrEmpty = errors.New("table has no rows")

// ColumnError is returned when a requested column does not exist.
type ColumnError struct {
	Name      string
	Available []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// Table is a header plus rows of string cells.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New returns a table with the given columns and rows. The rows are copied.
func New(columns []string, rows [][]string) (*Table, error) {
	t := &Table{
		columns: slices.Clone(columns),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range t.columns {
		if _, dup := t.index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		t.index[c] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d fields, want %d", i+1, len(row), len(columns))
		}
		t.rows = append(t.rows, slices.Clone(row))
	}
	return t, nil
}

// Read parses CSV data with a header line. Blank lines are skipped, and rows
// repeating the header are dropped; the harness appends to summary files and
// may write the header more than once.
func Read(r io.Reader) (*Table, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true

	header, err := rd.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header: %w", ErrEmpty)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	header = trimAll(header)

	var rows [][]string
	for {
		record, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		record = trimAll(record)
		if slices.Equal(record, header) {
			continue
		}
		if len(record) != len(header) {
			line, _ := rd.FieldPos(0)
			return nil, fmt.Errorf("line %d: got %d fields, want %d", line, len(record), len(header))
		}
		rows = append(rows, record)
	}
	return New(header, rows)
}

// Load reads the table stored at path in fs.
func Load(fs afero.Fs, path string) (_ *Table, err error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func trimAll(fields []string) []string {
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Has reports whether the table has the named column.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Index returns the position of the named column.
func (t *Table) Index(col string) (int, error) {
	i, ok := t.index[col]
	if !ok {
		return -1, &ColumnError{Name: col, Available: t.Columns()}
	}
	return i, nil
}

// Require checks that all the named columns exist.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if _, err := t.Index(c); err != nil {
			return err
		}
	}
	return nil
}

// Row returns the i'th data row.
func (t *Table) Row(i int) Row {
	return Row{t: t, i: i}
}

// Rows returns all data rows in order.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.rows))
	for i := range t.rows {
		rows[i] = Row{t: t, i: i}
	}
	return rows
}

// Last returns the final data row.
func (t *Table) Last() (Row, error) {
	if len(t.rows) == 0 {
		return Row{}, ErrEmpty
	}
	return t.Row(len(t.rows) - 1), nil
}

// Strings returns every value of the named column.
func (t *Table) Strings(col string) ([]string, error) {
	i, err := t.Index(col)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(t.rows))
	for r, row := range t.rows {
		values[r] = row[i]
	}
	return values, nil
}

// Floats returns every value of the named column parsed as a number.
func (t *Table) Floats(col string) ([]float64, error) {
	if _, err := t.Index(col); err != nil {
		return nil, err
	}
	values := make([]float64, len(t.rows))
	for r := range t.rows {
		v, err := t.Row(r).Float(col)
		if err != nil {
			return nil, err
		}
		values[r] = v
	}
	return values, nil
}

// Unique returns the distinct values of the named column in first-seen order.
func (t *Table) Unique(col string) ([]string, error) {
	values, err := t.Strings(col)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var unique []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			unique = append(unique, v)
		}
	}
	return unique, nil
}

// Concat returns a table holding the rows of all tables in order. Every
// table must have the columns of the first; columns are matched by name.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, ErrEmpty
	}
	first := tables[0]
	out := &Table{columns: first.columns, index: first.index}
	for _, t := range tables {
		positions := make([]int, len(first.columns))
		for i, col := range first.columns {
			c, err := t.Index(col)
			if err != nil {
				return nil, err
			}
			positions[i] = c
		}
		for _, row := range t.rows {
			r := make([]string, len(positions))
			for i, c := range positions {
				r[i] = row[c]
			}
			out.rows = append(out.rows, r)
		}
	}
	return out, nil
}

// Filter returns a new table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := &Table{columns: t.columns, index: t.index}
	for i, row := range t.rows {
		if keep(Row{t: t, i: i}) {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// Select returns a new table holding the rows at the given positions, in that order.
func (t *Table) Select(positions []int) *Table {
	out := &Table{columns: t.columns, index: t.index}
	for _, p := range positions {
		out.rows = append(out.rows, t.rows[p])
	}
	return out
}

// Row is a view of a single table row.
type Row struct {
	t *Table
	i int
}

// Position returns the row's position in its table.
func (r Row) Position() int {
	return r.i
}

// String returns the cell in the named column.
func (r Row) String(col string) (string, error) {
	c, err := r.t.Index(col)
	if err != nil {
		return "", err
	}
	return r.t.rows[r.i][c], nil
}

// Float returns the cell in the named column parsed as a number.
func (r Row) Float(col string) (float64, error) {
	s, err := r.String(col)
	if err != nil {
		return 0, err
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, fmt.Errorf("row %d, column %q: %w", r.i+1, col, err)
	}
	return v, nil
}

// Int returns the cell in the named column parsed as an integer.
func (r Row) Int(col string) (int, error) {
	f, err := r.Float(col)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
