package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

func join[T any](a []T, sep string) string {
	return strings.Trim(strings.ReplaceAll(fmt.Sprint(a), " ", sep), "[]")
}

func (c *Config) String() string {
	s := strings.Builder{}
	s.WriteString("Results: ")
	s.WriteString(c.ResultsDir)
	s.WriteString(", Output: ")
	s.WriteString(c.OutputDir)
	if c.Format != "" {
		s.WriteString(", Format: ")
		s.WriteString(c.Format)
	}
	s.WriteString(", Size: ")
	s.WriteString(strconv.FormatFloat(c.Width, 'g', -1, 64))
	s.WriteString("x")
	s.WriteString(strconv.FormatFloat(c.Height, 'g', -1, 64))
	s.WriteString(", DPI: ")
	s.WriteString(strconv.Itoa(c.DPI))
	s.WriteString(", Workload: ")
	s.WriteString(c.Workload)
	if len(c.Nodes) > 0 {
		s.WriteString(", Nodes: ")
		s.WriteString(join(c.Nodes, ","))
	}
	if len(c.Metrics) > 0 {
		s.WriteString(", Metrics: ")
		s.WriteString(strings.Join(c.Metrics, ","))
	}
	if len(c.Charts) == 0 {
		return s.String()
	}
	s.WriteString(", Charts: {")
	for i, name := range slices.Sorted(maps.Keys(c.Charts)) {
		if i > 0 {
			s.WriteString(", ")
		}
		cols := make([]string, len(c.Charts[name]))
		for j, m := range c.Charts[name] {
			cols[j] = m.Column
		}
		s.WriteString(name)
		s.WriteString(": ")
		s.WriteString(strings.Join(cols, ","))
	}
	s.WriteString("}")
	return s.String()
}
