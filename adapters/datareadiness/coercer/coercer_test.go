package coercer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"edadash/domain/dataset"
)

func TestBuildColumn_Kinds(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name   string
		values []string
		kind   dataset.ColumnKind
	}{
		{"integers", []string{"1", "2", "3"}, dataset.KindNumerical},
		{"floats with missing", []string{"1.5", "NA", "", " 2e3 "}, dataset.KindNumerical},
		{"all missing", []string{"", "NaN", "null"}, dataset.KindNumerical},
		{"one word", []string{"1", "2", "three"}, dataset.KindCategorical},
		{"thousands separator", []string{"1,000", "2"}, dataset.KindCategorical},
		{"infinity is text", []string{"inf", "1"}, dataset.KindCategorical},
		{"labels", []string{"yes", "no"}, dataset.KindCategorical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := c.BuildColumn("x", tt.values)
			assert.Equal(t, tt.kind, col.Kind)
			assert.Len(t, col.Values, len(tt.values))
		})
	}
}

func TestBuildColumn_CategoricalKeepsNumericText(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	col := c.BuildColumn("code", []string{"007", "abc", "N/A"})

	assert.Equal(t, dataset.KindCategorical, col.Kind)
	assert.True(t, col.Values[0].IsString())
	assert.Equal(t, "007", col.Values[0].String())
	assert.True(t, col.Values[2].IsMissing())
}

func TestBuildColumn_SurroundingSpacesKeepLabelsDistinct(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	col := c.BuildColumn("y", []string{"yes", " yes", "no", " NA "})

	assert.Equal(t, dataset.KindCategorical, col.Kind)
	assert.Equal(t, "yes", col.Values[0].String())
	assert.Equal(t, " yes", col.Values[1].String())
	assert.NotEqual(t, col.Values[0].String(), col.Values[1].String())
	assert.True(t, col.Values[3].IsMissing())
}

func TestAnalyzeTypeDistribution(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	a := c.AnalyzeTypeDistribution([]string{"1", "2", "x", ""})

	assert.Equal(t, 4, a.TotalCount)
	assert.Equal(t, 3, a.ValidCount)
	assert.Equal(t, 1, a.MissingCount)
	assert.Equal(t, 2, a.NumericCount)
	assert.Equal(t, 1, a.TextCount)
	assert.InDelta(t, 2.0/3.0, a.NumericRatio, 1e-12)
	assert.Equal(t, dataset.KindCategorical, a.RecommendedKind)
}

func TestCoerceValue(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	assert.True(t, c.CoerceValue("  ").IsMissing())
	assert.Equal(t, 3.25, c.CoerceValue("3.25").AsFloat64())
	assert.Equal(t, " hello ", c.CoerceValue(" hello ").String())
	assert.Equal(t, 2.0, c.CoerceValue(" 2 ").AsFloat64())

	raw := NewTypeCoercer(CoercionConfig{MissingTokens: []string{""}})
	assert.False(t, raw.CoerceValue("NA").IsMissing())
}
