package outlier

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"edadash/internal/errors"
)

// Multiplier is the Tukey fence width in IQRs
const Multiplier = 1.5

// Bounds are the IQR fences of one column, recomputed per request
type Bounds struct {
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	IQR    float64 `json:"iqr"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
}

// IsOutlier reports whether x falls outside [Lower, Upper]. NaN never does.
func (b Bounds) IsOutlier(x float64) bool {
	return x < b.Lower || x > b.Upper
}

// ComputeBounds derives quartiles, median and fences from the finite values
// of column. NaN cells are ignored.
func ComputeBounds(column []float64) (Bounds, error) {
	if len(column) == 0 {
		return Bounds{}, errors.InvalidColumn("column is empty")
	}
	sorted := FiniteSorted(column)
	if len(sorted) == 0 {
		return Bounds{}, errors.InvalidColumn("column has no numeric values")
	}

	median, err := stats.Median(sorted)
	if err != nil {
		return Bounds{}, errors.InvalidColumn("median: %v", err)
	}
	q1 := Percentile(sorted, 25)
	q3 := Percentile(sorted, 75)
	iqr := q3 - q1

	return Bounds{
		Q1:     q1,
		Median: median,
		Q3:     q3,
		IQR:    iqr,
		Lower:  q1 - Multiplier*iqr,
		Upper:  q3 + Multiplier*iqr,
	}, nil
}

// Normalize returns a new column where every value outside the IQR fences is
// replaced by the column median. The input is never modified. NaN cells pass
// through unchanged.
func Normalize(column []float64) ([]float64, error) {
	b, err := ComputeBounds(column)
	if err != nil {
		return nil, err
	}
	return Clip(column, b), nil
}

// Clip applies precomputed bounds to column, returning a new slice
func Clip(column []float64, b Bounds) []float64 {
	out := make([]float64, len(column))
	for i, x := range column {
		if b.IsOutlier(x) {
			out[i] = b.Median
		} else {
			out[i] = x
		}
	}
	return out
}

// Percentile returns the p-th percentile (0..100) of ascending data using
// linear interpolation between closest ranks: h = (n-1)·p/100.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	h := float64(n-1) * p / 100
	lo := int(math.Floor(h))
	frac := h - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	gap := sorted[lo+1] - sorted[lo]
	if math.IsInf(gap, 0) {
		return sorted[lo]*(1-frac) + sorted[lo+1]*frac
	}
	return sorted[lo] + frac*gap
}

// FiniteSorted returns the ascending finite values of column as a fresh slice
func FiniteSorted(column []float64) []float64 {
	out := make([]float64, 0, len(column))
	for _, x := range column {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	sort.Float64s(out)
	return out
}
