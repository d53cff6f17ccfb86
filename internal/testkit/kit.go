package testkit

import (
	"fmt"
	"math"

	"edadash/domain/dataset"
)

// MustDataset builds a dataset from columns and panics on invalid input.
// Intended for fixtures.
func MustDataset(columns ...*dataset.Column) *dataset.Dataset {
	ds, err := dataset.New(columns, dataset.Origin{Source: "fixture"})
	if err != nil {
		panic(fmt.Sprintf("testkit: %v", err))
	}
	return ds
}

// Num is shorthand for a numerical column
func Num(name string, values ...float64) *dataset.Column {
	return dataset.NewNumericColumn(name, values)
}

// Cat is shorthand for a categorical column
func Cat(name string, values ...string) *dataset.Column {
	return dataset.NewCategoricalColumn(name, values)
}

// NaN marks a missing numeric cell in fixtures
var NaN = math.NaN()

// DistinctLabels returns n labels "v00", "v01", ... repeated to length rows
func DistinctLabels(n, rows int) []string {
	out := make([]string, rows)
	for i := range out {
		out[i] = fmt.Sprintf("v%02d", i%n)
	}
	return out
}

// TwoByTwo is ten rows split across a in {X,Y} and b in {P,Q}
func TwoByTwo() *dataset.Dataset {
	return MustDataset(
		Cat("a", "X", "X", "X", "Y", "Y", "X", "Y", "Y", "X", "Y"),
		Cat("b", "P", "Q", "P", "Q", "Q", "P", "P", "Q", "Q", "P"),
		Num("n", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
	)
}
