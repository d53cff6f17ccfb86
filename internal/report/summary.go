package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"

	"edadash/domain/dataset"
	"edadash/domain/figure"
	"edadash/internal/outlier"
)

// NumericSummary mirrors a pandas describe() column for numbers
type NumericSummary struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// MarshalJSON writes undefined statistics as null
func (n NumericSummary) MarshalJSON() ([]byte, error) {
	row := figure.NullableRows([][]float64{{n.Mean, n.Std, n.Min, n.Q25, n.Median, n.Q75, n.Max}})[0]
	return json.Marshal(struct {
		Name   string   `json:"name"`
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		Std    *float64 `json:"std"`
		Min    *float64 `json:"min"`
		Q25    *float64 `json:"q25"`
		Median *float64 `json:"median"`
		Q75    *float64 `json:"q75"`
		Max    *float64 `json:"max"`
	}{n.Name, n.Count, row[0], row[1], row[2], row[3], row[4], row[5], row[6]})
}

// CategoricalSummary mirrors a pandas describe() column for text
type CategoricalSummary struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Unique int    `json:"unique"`
	Top    string `json:"top"`
	Freq   int    `json:"freq"`
}

// Summary describes a dataset column by column
type Summary struct {
	Rows        int                  `json:"rows"`
	Columns     int                  `json:"columns"`
	Numerical   []NumericSummary     `json:"numerical"`
	Categorical []CategoricalSummary `json:"categorical"`
}

// Describe summarises every column of the dataset. Missing cells are not
// counted. A numerical column with no values reports NaN statistics.
func Describe(ds *dataset.Dataset) Summary {
	s := Summary{
		Rows:        ds.Rows(),
		Columns:     ds.Schema().Len(),
		Numerical:   []NumericSummary{},
		Categorical: []CategoricalSummary{},
	}
	for _, col := range ds.Columns() {
		if col.Kind == dataset.KindNumerical {
			s.Numerical = append(s.Numerical, describeNumeric(col))
		} else {
			s.Categorical = append(s.Categorical, describeCategorical(col))
		}
	}
	return s
}

func describeNumeric(col *dataset.Column) NumericSummary {
	sorted := outlier.FiniteSorted(col.Floats())
	ns := NumericSummary{Name: col.Name, Count: len(sorted)}
	if len(sorted) == 0 {
		nan := math.NaN()
		ns.Mean, ns.Std, ns.Min, ns.Q25, ns.Median, ns.Q75, ns.Max = nan, nan, nan, nan, nan, nan, nan
		return ns
	}

	data := stats.Float64Data(sorted)
	ns.Mean, _ = stats.Mean(data)
	ns.Min, _ = stats.Min(data)
	ns.Max, _ = stats.Max(data)
	ns.Std = math.NaN()
	if len(sorted) > 1 {
		ns.Std, _ = stats.StandardDeviationSample(data)
	}
	ns.Q25 = outlier.Percentile(sorted, 25)
	ns.Median = outlier.Percentile(sorted, 50)
	ns.Q75 = outlier.Percentile(sorted, 75)
	return ns
}

func describeCategorical(col *dataset.Column) CategoricalSummary {
	labels, present := col.Labels()
	cs := CategoricalSummary{Name: col.Name}
	freq := make(map[string]int)
	for i, l := range labels {
		if !present[i] {
			continue
		}
		cs.Count++
		freq[l]++
		// first label to reach the highest count wins ties
		if freq[l] > cs.Freq {
			cs.Top, cs.Freq = l, freq[l]
		}
	}
	cs.Unique = len(freq)
	return cs
}

// Markdown renders the summary as two pipe tables
func (s Summary) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%d rows × %d columns**\n\n", s.Rows, s.Columns)

	if len(s.Numerical) > 0 {
		b.WriteString("| column | count | mean | std | min | 25% | 50% | 75% | max |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|---:|\n")
		for _, n := range s.Numerical {
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
				escapeCell(n.Name), n.Count, num(n.Mean), num(n.Std), num(n.Min),
				num(n.Q25), num(n.Median), num(n.Q75), num(n.Max))
		}
		b.WriteString("\n")
	}

	if len(s.Categorical) > 0 {
		b.WriteString("| column | count | unique | top | freq |\n")
		b.WriteString("|---|---:|---:|---|---:|\n")
		for _, c := range s.Categorical {
			fmt.Fprintf(&b, "| %s | %d | %d | %s | %d |\n",
				escapeCell(c.Name), c.Count, c.Unique, escapeCell(c.Top), c.Freq)
		}
	}
	return b.String()
}

// Table is a rectangular text table
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Preview returns the first n rows as text, missing cells shown as NaN
func Preview(ds *dataset.Dataset, n int) Table {
	t := Table{Headers: ds.ColumnNames(), Rows: [][]string{}}
	for _, row := range ds.Head(n) {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = v.String()
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// Markdown renders the table as a pipe table with a leading row index
func (t Table) Markdown() string {
	if len(t.Headers) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("| |")
	for _, h := range t.Headers {
		b.WriteString(" " + escapeCell(h) + " |")
	}
	b.WriteString("\n|---:|")
	for range t.Headers {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for i, row := range t.Rows {
		fmt.Fprintf(&b, "| %d |", i)
		for _, cell := range row {
			b.WriteString(" " + escapeCell(cell) + " |")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", v)
}

// escapeCell makes cell text literal inside a pipe table: every character
// the Markdown parser treats as syntax is backslash escaped and line breaks
// become spaces.
func escapeCell(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\n' || c == '\r':
			b.WriteByte(' ')
			continue
		case bytes.IndexByte(parser.EscapeChars, c) >= 0:
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}
