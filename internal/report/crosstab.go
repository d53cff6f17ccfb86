package report

import (
	"fmt"
	"sort"

	"edadash/domain/dataset"
	"edadash/domain/figure"
	"edadash/internal/errors"
)

// crosstabColors cycle across the series of the grouped bar chart
var crosstabColors = []string{"skyblue", "salmon"}

// CrossTab is a joint frequency table of two categorical columns
type CrossTab struct {
	RowName   string   `json:"row_name"`
	ColName   string   `json:"col_name"`
	RowLabels []string `json:"row_labels"`
	ColLabels []string `json:"col_labels"`
	Counts    [][]int  `json:"counts"`
}

// Total is the number of rows counted
func (c CrossTab) Total() int {
	total := 0
	for _, row := range c.Counts {
		for _, n := range row {
			total += n
		}
	}
	return total
}

// Title is the chart heading
func (c CrossTab) Title() string {
	return fmt.Sprintf("Cross Tabulation: %s vs %s", c.RowName, c.ColName)
}

// Figure describes the table as grouped bars: one group per row label and one
// series per column label.
func (c CrossTab) Figure() *figure.Figure {
	groups := &figure.GroupedBars{
		XLabels: append([]string(nil), c.RowLabels...),
		Series:  make([]figure.Series, len(c.ColLabels)),
	}
	for j, label := range c.ColLabels {
		values := make([]int, len(c.RowLabels))
		for i := range c.RowLabels {
			values[i] = c.Counts[i][j]
		}
		groups.Series[j] = figure.Series{
			Name:   label,
			Color:  crosstabColors[j%len(crosstabColors)],
			Values: values,
		}
	}

	return &figure.Figure{
		Kind:  figure.KindCrosstab,
		Title: c.Title(),
		Panels: []figure.Panel{{
			Type:   figure.PanelGroupedBar,
			Title:  c.Title(),
			Groups: groups,
		}},
	}
}

// Crosstab counts co-occurrences of the values of two categorical columns.
// Labels are sorted ascending and rows missing either value are dropped.
func Crosstab(ds *dataset.Dataset, a, b string) (CrossTab, error) {
	sel := figure.Selection{Kind: figure.KindCrosstab, Column: a, Column2: b}
	if err := sel.Validate(ds); err != nil {
		return CrossTab{}, err
	}
	colA, _ := ds.Column(a)
	colB, _ := ds.Column(b)
	labelsA, presentA := colA.Labels()
	labelsB, presentB := colB.Labels()

	rowIndex := make(map[string]int)
	colIndex := make(map[string]int)
	for i := range labelsA {
		if !presentA[i] || !presentB[i] {
			continue
		}
		rowIndex[labelsA[i]] = 0
		colIndex[labelsB[i]] = 0
	}
	if len(rowIndex) == 0 {
		return CrossTab{}, errors.InvalidSelection("columns %q and %q have no rows with both values present", a, b)
	}

	ct := CrossTab{
		RowName:   a,
		ColName:   b,
		RowLabels: sortedKeys(rowIndex),
		ColLabels: sortedKeys(colIndex),
	}
	for i, l := range ct.RowLabels {
		rowIndex[l] = i
	}
	for j, l := range ct.ColLabels {
		colIndex[l] = j
	}

	ct.Counts = make([][]int, len(ct.RowLabels))
	for i := range ct.Counts {
		ct.Counts[i] = make([]int, len(ct.ColLabels))
	}
	for i := range labelsA {
		if !presentA[i] || !presentB[i] {
			continue
		}
		ct.Counts[rowIndex[labelsA[i]]][colIndex[labelsB[i]]]++
	}
	return ct, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
