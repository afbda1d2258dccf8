package aggregate

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the y values of a series.
type Stats struct {
	Key    Key
	Label  string
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Last   float64
}

// Summarize computes Stats for each series. Empty series yield NaN statistics.
func Summarize(series []Series) []Stats {
	out := make([]Stats, 0, len(series))
	for _, s := range series {
		st := Stats{Key: s.Key, Label: s.Label, N: s.Len()}
		ys := s.Ys()
		switch len(ys) {
		case 0:
			st.Mean, st.StdDev, st.Min, st.Max, st.Last = math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()
		case 1:
			st.Mean, st.Min, st.Max, st.Last = ys[0], ys[0], ys[0], ys[0]
		default:
			st.Mean, st.StdDev = stat.MeanStdDev(ys, nil)
			st.Min = floats.Min(ys)
			st.Max = floats.Max(ys)
			st.Last = ys[len(ys)-1]
		}
		out = append(out, st)
	}
	return out
}
