package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SchemaPartition(t *testing.T) {
	ds, err := New([]*Column{
		NewCategoricalColumn("job", []string{"admin.", "", "technician"}),
		NewNumericColumn("age", []float64{30, 41, math.NaN()}),
		NewCategoricalColumn("y", []string{"no", "yes", "no"}),
	}, Origin{Source: "fixture"})
	require.NoError(t, err)

	schema := ds.Schema()
	assert.Equal(t, []string{"job", "y"}, schema.Categorical)
	assert.Equal(t, []string{"age"}, schema.Numerical)
	assert.Equal(t, 3, schema.Len())
	assert.True(t, schema.IsCategorical("job"))
	assert.True(t, schema.IsNumerical("age"))
	assert.False(t, schema.IsNumerical("missing"))

	assert.Equal(t, 3, ds.Rows())
	assert.False(t, ds.IsEmpty())
	assert.False(t, ds.Origin().LoadedAt.IsZero())
	assert.Equal(t, []string{"job", "age", "y"}, ds.ColumnNames())
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		columns []*Column
	}{
		{"nil column", []*Column{nil}},
		{"empty name", []*Column{NewNumericColumn(" ", []float64{1})}},
		{"duplicate name", []*Column{NewNumericColumn("a", []float64{1}), NewNumericColumn("a", []float64{2})}},
		{"ragged", []*Column{NewNumericColumn("a", []float64{1, 2}), NewNumericColumn("b", []float64{1})}},
		{"unknown kind", []*Column{{Name: "a", Kind: "date", Values: []Value{NewNumericValue(1)}}}},
		{"text in numerical", []*Column{{Name: "a", Kind: KindNumerical, Values: []Value{NewStringValue("x")}}}},
		{"number in categorical", []*Column{{Name: "a", Kind: KindCategorical, Values: []Value{NewNumericValue(1)}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.columns, Origin{})
			assert.Error(t, err)
		})
	}
}

func TestEmpty(t *testing.T) {
	ds := Empty()
	assert.True(t, ds.IsEmpty())
	assert.Equal(t, 0, ds.Rows())
	assert.Empty(t, ds.Schema().Categorical)
	assert.Empty(t, ds.Schema().Numerical)

	var nilDS *Dataset
	assert.True(t, nilDS.IsEmpty())
	assert.Nil(t, nilDS.Columns())
}

func TestColumnAccessorsCopy(t *testing.T) {
	col := NewNumericColumn("x", []float64{1, math.NaN(), 3})
	floats := col.Floats()
	floats[0] = 99

	assert.Equal(t, 1.0, col.Values[0].AsFloat64())
	assert.True(t, math.IsNaN(col.Floats()[1]))
	assert.Equal(t, 2, col.NonMissing())

	labels, present := NewCategoricalColumn("c", []string{"a", ""}).Labels()
	assert.Equal(t, []string{"a", ""}, labels)
	assert.Equal(t, []bool{true, false}, present)
}

func TestHead(t *testing.T) {
	ds, err := New([]*Column{
		NewNumericColumn("n", []float64{1.5, 2}),
		NewCategoricalColumn("c", []string{"a", ""}),
	}, Origin{})
	require.NoError(t, err)

	head := ds.Head(5)
	require.Len(t, head, 2)
	assert.Equal(t, "1.5", head[0][0].String())
	assert.Equal(t, "NaN", head[1][1].String())
	assert.Len(t, ds.Head(1), 1)
}

func TestValue(t *testing.T) {
	assert.True(t, NewStringValue("").IsMissing())
	assert.True(t, NewNumericValue(math.NaN()).IsMissing())
	assert.True(t, Value{}.IsMissing())
	assert.True(t, NewNumericValue(0).IsNumeric())
	assert.Equal(t, "42", NewNumericValue(42).String())
	assert.True(t, math.IsNaN(NewStringValue("x").AsFloat64()))
}
