// Package testutil provides fixtures and naming helpers for tests.
package testutil

import (
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// WriteCSV writes a result table with the given header and rows to path on
// fs, creating parent directories as needed. Rows are written as given, so a
// row may repeat the header to mimic an appended rerun.
func WriteCSV(t testing.TB, fs afero.Fs, path string, header []string, rows ...[]string) {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := fs.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

// WriteFile writes raw content to path on fs, creating parent directories.
func WriteFile(t testing.TB, fs afero.Fs, path, content string) {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Row formats values as one CSV row.
func Row(values ...any) []string {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = fmt.Sprint(v)
	}
	return row
}

// Name returns the test name based on the provided fields and values.
func Name(fields []string, values ...any) string {
	if len(fields) != len(values) {
		panic("fields and values must have the same length")
	}
	b := strings.Builder{}
	sep := ""
	for i, f := range fields {
		v := values[i]
		switch x := v.(type) {
		case []string:
			if x == nil {
				b.WriteString(fmt.Sprintf("%s%s=<nil>", sep, f))
			} else {
				b.WriteString(fmt.Sprintf("%s%s=%s", sep, f, strings.Join(x, ",")))
			}
		case string:
			if x != "" {
				b.WriteString(fmt.Sprintf("%s%s=%s", sep, f, v))
			}
		case int:
			if x != 0 {
				b.WriteString(fmt.Sprintf("%s%s=%d", sep, f, v))
			}
		case bool:
			if x {
				b.WriteString(fmt.Sprintf("%s%s", sep, f))
			}
		default:
			b.WriteString(fmt.Sprintf("%s%s=%v", sep, f, v))
		}
		// set separator to / after the first field
		sep = "/"
	}
	return b.String()
}
