package report

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/stat"

	"edadash/domain/dataset"
	"edadash/domain/figure"
	"edadash/internal/errors"
)

// Matrix is a labelled square correlation matrix. NaN marks a pair with
// fewer than two complete rows or no variance.
type Matrix struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
}

// MarshalJSON encodes NaN cells as null
func (m Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Labels []string     `json:"labels"`
		Values [][]*float64 `json:"values"`
	}{Labels: m.Labels, Values: figure.NullableRows(m.Values)})
}

// At returns the correlation of columns a and b
func (m Matrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, l := range m.Labels {
		if l == a {
			i = k
		}
		if l == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return m.Values[i][j], true
}

// Figure describes the matrix as an annotated heatmap
func (m Matrix) Figure() *figure.Figure {
	return &figure.Figure{
		Kind:  figure.KindHeatmap,
		Title: "Correlation Heatmap",
		Panels: []figure.Panel{{
			Type:  figure.PanelHeatmap,
			Title: "Correlation Heatmap",
			Heatmap: &figure.HeatmapCells{
				Labels: append([]string(nil), m.Labels...),
				Values: m.Values,
			},
		}},
	}
}

// Correlation computes Pearson correlation between every pair of numerical
// columns. Each pair uses only the rows where both values are present.
// Categorical columns are excluded, never coerced.
func Correlation(ds *dataset.Dataset) (Matrix, error) {
	if ds.IsEmpty() {
		return Matrix{}, errors.InvalidSelection("Please upload a dataset or use the default dataset.")
	}
	names := ds.Schema().Numerical
	if len(names) < 2 {
		return Matrix{}, errors.InsufficientData("correlation needs at least two numerical columns, found %d", len(names))
	}

	series := make([][]float64, len(names))
	for i, name := range names {
		col, _ := ds.Column(name)
		series[i] = col.Floats()
	}

	values := make([][]float64, len(names))
	for i := range values {
		values[i] = make([]float64, len(names))
	}
	for i := range names {
		for j := i; j < len(names); j++ {
			r := pairwise(series[i], series[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			values[i][j] = r
			values[j][i] = r
		}
	}

	return Matrix{Labels: append([]string(nil), names...), Values: values}, nil
}

func pairwise(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for k := range x {
		if math.IsNaN(x[k]) || math.IsNaN(y[k]) {
			continue
		}
		xs = append(xs, x[k])
		ys = append(ys, y[k])
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

func constant(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}
