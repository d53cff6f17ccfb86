package chart

import (
	"fmt"

	"edadash/domain/dataset"
	"edadash/domain/figure"
	"edadash/internal/errors"
	"edadash/internal/outlier"
)

// DefaultCardinalityLimit is the most distinct values a bar or pie chart shows
const DefaultCardinalityLimit = 12

const (
	ColorBefore = "skyblue"
	ColorAfter  = "salmon"
)

// Dispatcher turns a (kind, column) request into a figure description
type Dispatcher struct {
	cardinalityLimit int
}

// NewDispatcher creates a dispatcher; a non-positive limit falls back to 12
func NewDispatcher(cardinalityLimit int) *Dispatcher {
	if cardinalityLimit <= 0 {
		cardinalityLimit = DefaultCardinalityLimit
	}
	return &Dispatcher{cardinalityLimit: cardinalityLimit}
}

// CardinalityLimit returns the bar/pie distinct value guard
func (d *Dispatcher) CardinalityLimit() int {
	return d.cardinalityLimit
}

// Render draws a single-column chart. bar and pie take a categorical column
// and return a Skipped outcome above the cardinality limit; hist, dist and
// boxplot take a numerical column and compare it before and after outlier
// replacement. The dataset is only read.
func (d *Dispatcher) Render(kind figure.PlotKind, column string, ds *dataset.Dataset) (figure.Outcome, error) {
	if kind.ColumnCount() != 1 {
		return figure.Outcome{}, errors.InvalidSelection("%q is not a single-column chart", kind)
	}
	sel := figure.Selection{Kind: kind, Column: column}
	if err := sel.Validate(ds); err != nil {
		return figure.Outcome{}, err
	}
	col, _ := ds.Column(column)

	switch kind {
	case figure.KindBar, figure.KindPie:
		return d.categorical(kind, col)
	default:
		return d.comparative(kind, col)
	}
}

func (d *Dispatcher) categorical(kind figure.PlotKind, col *dataset.Column) (figure.Outcome, error) {
	counts := valueCounts(col)
	if len(counts) == 0 {
		return figure.Outcome{}, errors.InvalidColumn("column %q has no values", col.Name)
	}
	if len(counts) > d.cardinalityLimit {
		return figure.Skipped(fmt.Sprintf("column %q has %d distinct values; %s charts show at most %d",
			col.Name, len(counts), kind, d.cardinalityLimit)), nil
	}

	panel := figure.Panel{Type: figure.PanelBar, Title: col.Name, Counts: counts}
	if kind == figure.KindPie {
		panel.Type = figure.PanelPie
		panel.Counts = byFrequency(counts)
	}
	return figure.Rendered(&figure.Figure{
		Kind:   kind,
		Title:  col.Name,
		Panels: []figure.Panel{panel},
	}), nil
}

func (d *Dispatcher) comparative(kind figure.PlotKind, col *dataset.Column) (figure.Outcome, error) {
	before := col.Floats()
	after, err := outlier.Normalize(before)
	if err != nil {
		return figure.Outcome{}, errors.Wrapf(err, "column %q", col.Name)
	}

	first, err := numericPanel(kind, fmt.Sprintf("%s (Before Outliers)", col.Name), before, ColorBefore)
	if err != nil {
		return figure.Outcome{}, err
	}
	second, err := numericPanel(kind, fmt.Sprintf("%s (After Outliers)", col.Name), after, ColorAfter)
	if err != nil {
		return figure.Outcome{}, err
	}

	return figure.Rendered(&figure.Figure{
		Kind:   kind,
		Title:  col.Name,
		Panels: []figure.Panel{first, second},
	}), nil
}

func numericPanel(kind figure.PlotKind, title string, values []float64, color string) (figure.Panel, error) {
	panel := figure.Panel{Title: title, Color: color}
	switch kind {
	case figure.KindHist:
		panel.Type = figure.PanelHistogram
		panel.Bins = histogram(values, DefaultBins)
	case figure.KindDist:
		panel.Type = figure.PanelDensity
		panel.Bins = histogram(values, autoBins(values))
		if len(panel.Bins) > 0 {
			width := panel.Bins[0].Upper - panel.Bins[0].Lower
			panel.Density = densityCurve(values, width)
		}
	case figure.KindBoxplot:
		box, err := boxStats(values)
		if err != nil {
			return panel, err
		}
		panel.Type = figure.PanelBox
		panel.Box = box
	default:
		return panel, errors.InvalidSelection("%q is not a numerical chart", kind)
	}
	return panel, nil
}
