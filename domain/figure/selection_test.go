package figure

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edadash/domain/dataset"
	"edadash/internal/errors"
)

func fixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New([]*dataset.Column{
		dataset.NewCategoricalColumn("marital", []string{"married", "single"}),
		dataset.NewCategoricalColumn("y", []string{"no", "yes"}),
		dataset.NewNumericColumn("age", []float64{30, 40}),
	}, dataset.Origin{})
	require.NoError(t, err)
	return ds
}

func TestSelection_Validate(t *testing.T) {
	ds := fixture(t)

	valid := []Selection{
		{Kind: KindBar, Column: "marital"},
		{Kind: KindPie, Column: "y"},
		{Kind: KindHist, Column: "age"},
		{Kind: KindDist, Column: "age"},
		{Kind: KindBoxplot, Column: "age"},
		{Kind: KindHeatmap},
		{Kind: KindCrosstab, Column: "marital", Column2: "y"},
	}
	for _, sel := range valid {
		assert.NoError(t, sel.Validate(ds), sel.Kind)
	}

	invalid := []Selection{
		{Kind: KindBar, Column: "age"},
		{Kind: KindHist, Column: "marital"},
		{Kind: KindBoxplot},
		{Kind: KindPie, Column: "nope"},
		{Kind: KindCrosstab, Column: "marital"},
		{Kind: KindCrosstab, Column: "marital", Column2: "age"},
		{Kind: "scatter", Column: "age"},
	}
	for _, sel := range invalid {
		err := sel.Validate(ds)
		require.Error(t, err, sel)
		assert.True(t, errors.IsInvalidSelection(err))
	}

	err := Selection{Kind: KindBar, Column: "marital"}.Validate(dataset.Empty())
	assert.True(t, errors.IsInvalidSelection(err))
}

func TestParseKind(t *testing.T) {
	for _, k := range AllKinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("violin")
	assert.Error(t, err)
	assert.Len(t, AllKinds(), 7)
}

func TestKindProperties(t *testing.T) {
	assert.True(t, KindBar.NeedsCategorical())
	assert.True(t, KindCrosstab.NeedsCategorical())
	assert.True(t, KindBoxplot.NeedsNumerical())
	assert.False(t, KindHeatmap.NeedsNumerical())
	assert.Equal(t, 0, KindHeatmap.ColumnCount())
	assert.Equal(t, 2, KindCrosstab.ColumnCount())
	assert.True(t, KindDist.Comparative())
	assert.False(t, KindBar.Comparative())
}

func TestHeatmapCells_JSON(t *testing.T) {
	cells := HeatmapCells{Labels: []string{"a", "b"}, Values: [][]float64{{1, math.NaN()}, {math.NaN(), 1}}}
	raw, err := json.Marshal(cells)
	require.NoError(t, err)
	assert.JSONEq(t, `{"labels":["a","b"],"values":[[1,null],[null,1]]}`, string(raw))
}
