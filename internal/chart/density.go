package chart

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"edadash/domain/figure"
	"edadash/internal/outlier"
)

const (
	densityGridSize = 200
	densityCut      = 3 // bandwidths beyond the data on each side
)

// densityCurve evaluates a Gaussian kernel density estimate with Scott's
// bandwidth over a grid spanning the data. The curve is scaled from density
// to counts so it overlays a histogram with the given bin width.
// Returns nil when there is too little data or the spread cannot be gridded.
func densityCurve(values []float64, binWidth float64) []figure.Point {
	sorted := outlier.FiniteSorted(values)
	n := len(sorted)
	if n < 2 {
		return nil
	}
	sd := stat.StdDev(sorted, nil)
	if sd == 0 || math.IsNaN(sd) || math.IsInf(sd, 0) {
		return nil
	}

	bw := sd * math.Pow(float64(n), -1.0/5.0)
	lo, hi := sorted[0]-densityCut*bw, sorted[n-1]+densityCut*bw
	if math.IsInf(hi-lo, 0) {
		return nil
	}
	grid := make([]float64, densityGridSize)
	floats.Span(grid, lo, hi)

	kernel := distuv.Normal{Mu: 0, Sigma: bw}
	scale := float64(n) * binWidth
	points := make([]figure.Point, len(grid))
	for i, x := range grid {
		var sum float64
		for _, xi := range sorted {
			sum += kernel.Prob(x - xi)
		}
		points[i] = figure.Point{X: x, Y: sum / float64(n) * scale}
	}
	return points
}
