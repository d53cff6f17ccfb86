package chart

import (
	"fmt"
	"sort"

	"edadash/domain/dataset"
	"edadash/domain/figure"
)

// valueCounts tallies the non-missing labels of a column in order of first
// appearance. Missing cells are not counted.
func valueCounts(col *dataset.Column) []figure.Count {
	labels, present := col.Labels()
	index := make(map[string]int)
	var counts []figure.Count
	total := 0
	for i, label := range labels {
		if !present[i] {
			continue
		}
		total++
		if idx, ok := index[label]; ok {
			counts[idx].Count++
			continue
		}
		index[label] = len(counts)
		counts = append(counts, figure.Count{Label: label, Count: 1})
	}

	for i := range counts {
		counts[i].Percent = 100 * float64(counts[i].Count) / float64(total)
		counts[i].PercentLabel = fmt.Sprintf("%0.2f%%", counts[i].Percent)
	}
	return counts
}

// byFrequency orders counts most frequent first; ties keep appearance order
func byFrequency(counts []figure.Count) []figure.Count {
	out := append([]figure.Count(nil), counts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
