package kpi

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summarize fills the statistical fields of a Summary from wait samples.
// StdDev is zero for fewer than two samples.
func Summarize(waits []float64) Summary {
	s := Summary{Served: len(waits)}
	if len(waits) == 0 {
		return s
	}
	x := append([]float64(nil), waits...)
	sort.Float64s(x)
	s.Mean = stat.Mean(x, nil)
	if len(x) > 1 {
		s.StdDev = stat.StdDev(x, nil)
	}
	s.P50 = stat.Quantile(0.5, stat.Empirical, x, nil)
	s.P90 = stat.Quantile(0.9, stat.Empirical, x, nil)
	s.Max = floats.Max(x)
	return s
}
