package chart

import (
	"edadash/domain/figure"
	"edadash/internal/outlier"
)

// boxStats summarises a series as a Tukey box: quartiles, whiskers at the most
// extreme values inside the 1.5·IQR fences, and the points beyond them.
func boxStats(values []float64) (*figure.BoxStats, error) {
	b, err := outlier.ComputeBounds(values)
	if err != nil {
		return nil, err
	}

	sorted := outlier.FiniteSorted(values)
	box := &figure.BoxStats{
		WhiskerLow:  b.Q1,
		Q1:          b.Q1,
		Median:      b.Median,
		Q3:          b.Q3,
		WhiskerHigh: b.Q3,
		Outliers:    []float64{},
	}

	for _, x := range sorted {
		if !b.IsOutlier(x) {
			box.WhiskerLow = x
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if !b.IsOutlier(sorted[i]) {
			box.WhiskerHigh = sorted[i]
			break
		}
	}
	for _, x := range sorted {
		if b.IsOutlier(x) {
			box.Outliers = append(box.Outliers, x)
		}
	}
	return box, nil
}
