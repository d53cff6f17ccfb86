package chart

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"edadash/domain/figure"
	"edadash/internal/outlier"
)

const (
	// DefaultBins is the fixed bin count of the plain histogram
	DefaultBins = 10
	maxAutoBins = 200
)

// histogram buckets the finite values into equal-width bins spanning
// [min, max]. The last bin is closed. A constant series spans [v-0.5, v+0.5].
func histogram(values []float64, bins int) []figure.Bin {
	sorted := outlier.FiniteSorted(values)
	if len(sorted) == 0 || bins < 1 {
		return nil
	}

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := binEdges(lo, hi, bins)
	dividers := append([]float64(nil), edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)

	out := make([]figure.Bin, bins)
	for i := range out {
		out[i] = figure.Bin{Lower: edges[i], Upper: edges[i+1], Count: int(counts[i])}
	}
	return out
}

// binEdges spaces bins+1 edges evenly over [lo, hi]. When hi-lo overflows
// the step is taken from the halves so every edge stays finite.
func binEdges(lo, hi float64, bins int) []float64 {
	edges := make([]float64, bins+1)
	if !math.IsInf(hi-lo, 0) {
		floats.Span(edges, lo, hi)
	} else {
		step := hi/float64(bins) - lo/float64(bins)
		for i := range edges {
			edges[i] = math.Min(lo+float64(i)*step, hi)
		}
	}
	edges[bins] = hi
	return edges
}

// autoBins picks the bin count the way numpy's "auto" estimator does: the
// smaller of the Sturges and Freedman-Diaconis widths.
func autoBins(values []float64) int {
	sorted := outlier.FiniteSorted(values)
	n := len(sorted)
	if n < 2 {
		return 1
	}
	span := sorted[n-1] - sorted[0]
	if span == 0 {
		return 1
	}

	sturges := span / (math.Log2(float64(n)) + 1)
	iqr := outlier.Percentile(sorted, 75) - outlier.Percentile(sorted, 25)
	fd := 2 * iqr * math.Pow(float64(n), -1.0/3.0)

	width := sturges
	if fd > 0 && fd < sturges {
		width = fd
	}
	ratio := math.Ceil(span / width)
	switch {
	case math.IsNaN(ratio) || ratio < 1:
		return 1
	case ratio > maxAutoBins:
		return maxAutoBins
	}
	return int(ratio)
}
