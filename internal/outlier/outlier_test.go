package outlier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edadash/internal/errors"
)

func TestNormalize_ReplacesOutliersWithMedian(t *testing.T) {
	column := []float64{1, 2, 3, 4, 100}

	b, err := ComputeBounds(column)
	require.NoError(t, err)
	assert.Equal(t, 2.0, b.Q1)
	assert.Equal(t, 4.0, b.Q3)
	assert.Equal(t, 2.0, b.IQR)
	assert.Equal(t, -1.0, b.Lower)
	assert.Equal(t, 7.0, b.Upper)
	assert.Equal(t, 3.0, b.Median)

	got, err := Normalize(column)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 3}, got)
}

func TestNormalize_LowerOutlier(t *testing.T) {
	got, err := Normalize([]float64{-50, 10, 11, 12, 13, 14})
	require.NoError(t, err)
	assert.Len(t, got, 6)
	assert.Equal(t, 11.5, got[0])
	assert.Equal(t, []float64{10, 11, 12, 13, 14}, got[1:])
}

func TestNormalize_IsPure(t *testing.T) {
	column := []float64{5, 7, 1, 9, 250, 6, 8}
	original := append([]float64(nil), column...)

	first, err := Normalize(column)
	require.NoError(t, err)
	second, err := Normalize(column)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, original, column, "source column must not be mutated")

	first[0] = -1
	assert.Equal(t, original[0], column[0], "result must not alias the source")
}

func TestNormalize_ValuesInsideBoundsPassThrough(t *testing.T) {
	column := []float64{10, 12, 14, 16, 18, 20, 22, 24}
	b, err := ComputeBounds(column)
	require.NoError(t, err)
	require.Greater(t, b.IQR, 0.0)

	got, err := Normalize(column)
	require.NoError(t, err)
	for i, x := range column {
		if x >= b.Lower && x <= b.Upper {
			assert.Equal(t, x, got[i])
		} else {
			assert.Equal(t, b.Median, got[i])
		}
	}
}

func TestNormalize_ZeroIQRClipsEverythingOffCentre(t *testing.T) {
	column := []float64{5, 5, 5, 5, 5, 5, 1, 9}
	b, err := ComputeBounds(column)
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.IQR)
	assert.Equal(t, 5.0, b.Lower)
	assert.Equal(t, 5.0, b.Upper)

	got, err := Normalize(column)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 5, 5, 5, 5, 5, 5, 5}, got)
}

func TestNormalize_NaNPassesThrough(t *testing.T) {
	column := []float64{1, math.NaN(), 2, 3, 4, 100}
	got, err := Normalize(column)
	require.NoError(t, err)
	require.Len(t, got, 6)
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, 3.0, got[5])
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		column []float64
	}{
		{name: "empty column", column: []float64{}},
		{name: "nil column", column: nil},
		{name: "all missing", column: []float64{math.NaN(), math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.column)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidColumn(err))
		})
	}
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.75, Percentile(sorted, 25))
	assert.Equal(t, 2.5, Percentile(sorted, 50))
	assert.Equal(t, 3.25, Percentile(sorted, 75))
	assert.Equal(t, 1.0, Percentile(sorted, 0))
	assert.Equal(t, 4.0, Percentile(sorted, 100))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 75))
	assert.True(t, math.IsNaN(Percentile(nil, 50)))

	wide := []float64{-math.MaxFloat64, math.MaxFloat64}
	assert.Equal(t, 0.0, Percentile(wide, 50))
	assert.False(t, math.IsNaN(Percentile(wide, 25)))
}
