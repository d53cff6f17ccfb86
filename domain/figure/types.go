package figure

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// PlotKind is one of the seven plots the dashboard can draw
type PlotKind string

const (
	KindBar      PlotKind = "bar"
	KindPie      PlotKind = "pie"
	KindHist     PlotKind = "hist"
	KindDist     PlotKind = "dist"
	KindBoxplot  PlotKind = "boxplot"
	KindHeatmap  PlotKind = "heatmap"
	KindCrosstab PlotKind = "crosstab"
)

// AllKinds lists the plot kinds in the order the dashboard offers them
func AllKinds() []PlotKind {
	return []PlotKind{KindBar, KindPie, KindHist, KindDist, KindBoxplot, KindHeatmap, KindCrosstab}
}

// ParseKind maps user input to a PlotKind
func ParseKind(s string) (PlotKind, error) {
	kind := PlotKind(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range AllKinds() {
		if k == kind {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown plot kind %q", s)
}

// NeedsCategorical reports whether the kind takes categorical column(s)
func (k PlotKind) NeedsCategorical() bool {
	return k == KindBar || k == KindPie || k == KindCrosstab
}

// NeedsNumerical reports whether the kind takes a numerical column
func (k PlotKind) NeedsNumerical() bool {
	return k == KindHist || k == KindDist || k == KindBoxplot
}

// ColumnCount is the number of columns the kind takes
func (k PlotKind) ColumnCount() int {
	switch k {
	case KindHeatmap:
		return 0
	case KindCrosstab:
		return 2
	default:
		return 1
	}
}

// Comparative reports whether the kind draws before/after outlier panels
func (k PlotKind) Comparative() bool {
	return k.NeedsNumerical()
}

// PanelType tells the renderer which chart to draw for a panel
type PanelType string

const (
	PanelBar        PanelType = "bar"
	PanelPie        PanelType = "pie"
	PanelHistogram  PanelType = "histogram"
	PanelDensity    PanelType = "density"
	PanelBox        PanelType = "box"
	PanelGroupedBar PanelType = "grouped_bar"
	PanelHeatmap    PanelType = "heatmap"
)

// Figure is a data-only description of a rendered plot
type Figure struct {
	Kind   PlotKind `json:"kind"`
	Title  string   `json:"title"`
	Panels []Panel  `json:"panels"`
}

// Panel is one subplot of a figure
type Panel struct {
	Type    PanelType     `json:"type"`
	Title   string        `json:"title"`
	Color   string        `json:"color,omitempty"`
	Counts  []Count       `json:"counts,omitempty"`
	Bins    []Bin         `json:"bins,omitempty"`
	Density []Point       `json:"density,omitempty"`
	Box     *BoxStats     `json:"box,omitempty"`
	Groups  *GroupedBars  `json:"groups,omitempty"`
	Heatmap *HeatmapCells `json:"heatmap,omitempty"`
}

// Count is a category frequency; Percent is share of the non-missing total
type Count struct {
	Label        string  `json:"label"`
	Count        int     `json:"count"`
	Percent      float64 `json:"percent"`
	PercentLabel string  `json:"percent_label"`
}

// Bin is a half-open histogram bucket [Lower, Upper); the last bin is closed
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Point is a sample of a smooth curve
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoxStats describes a single box-and-whisker
type BoxStats struct {
	WhiskerLow  float64   `json:"whisker_low"`
	Q1          float64   `json:"q1"`
	Median      float64   `json:"median"`
	Q3          float64   `json:"q3"`
	WhiskerHigh float64   `json:"whisker_high"`
	Outliers    []float64 `json:"outliers"`
}

// GroupedBars is one bar group per X label with one series per column value
type GroupedBars struct {
	XLabels []string `json:"x_labels"`
	Series  []Series `json:"series"`
}

// Series is a named run of integer values aligned with XLabels
type Series struct {
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
	Values []int  `json:"values"`
}

// HeatmapCells is an annotated square matrix. NaN marks an undefined cell.
type HeatmapCells struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
}

// MarshalJSON encodes NaN cells as null
func (h HeatmapCells) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Labels []string     `json:"labels"`
		Values [][]*float64 `json:"values"`
	}{Labels: h.Labels, Values: NullableRows(h.Values)})
}

// NullableRows converts a float matrix to pointers with nil for NaN
func NullableRows(values [][]float64) [][]*float64 {
	out := make([][]*float64, len(values))
	for i, row := range values {
		out[i] = make([]*float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			v := v
			out[i][j] = &v
		}
	}
	return out
}

// Status tags an Outcome
type Status string

const (
	StatusRendered Status = "rendered"
	StatusSkipped  Status = "skipped"
)

// Outcome is the explicit result of a chart request: either a figure or a
// deliberate skip with a reason. A skip is not an error.
type Outcome struct {
	Status Status  `json:"status"`
	Figure *Figure `json:"figure,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

// Rendered wraps a figure
func Rendered(f *Figure) Outcome {
	return Outcome{Status: StatusRendered, Figure: f}
}

// Skipped reports that nothing should be shown
func Skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

// IsRendered reports whether the outcome carries a figure
func (o Outcome) IsRendered() bool {
	return o.Status == StatusRendered && o.Figure != nil
}
