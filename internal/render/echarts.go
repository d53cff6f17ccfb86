package render

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"edadash/domain/figure"
	"edadash/internal/errors"
)

// Palettes used by the categorical charts
var (
	Set2   = []string{"#66c2a5", "#fc8d62", "#8da0cb", "#e78ac3", "#a6d854", "#ffd92f", "#e5c494", "#b3b3b3"}
	Pastel = []string{"#a1c9f4", "#ffb482", "#8de5a1", "#ff9f9b", "#d0bbff", "#debb9b", "#fab0e4", "#cfcfcf", "#fffea3", "#b9f2f0"}

	// Diverging scale for correlation cells, -1 to 1
	coolwarm = []string{"#3b4cc0", "#7b9ff9", "#c0d4f5", "#f2cbb7", "#ee8468", "#b40426"}
)

// namedColors maps the matplotlib names figures carry to hex codes
var namedColors = map[string]string{
	"skyblue": "#87ceeb",
	"salmon":  "#fa8072",
}

const (
	panelWidth  = "560px"
	panelHeight = "400px"
)

// Figure writes a self-contained HTML page holding one chart per panel
func Figure(w io.Writer, f *figure.Figure) error {
	if f == nil {
		return errors.InvalidInput("no figure to render")
	}

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)

	for _, p := range f.Panels {
		chart, err := panelChart(p)
		if err != nil {
			return errors.Wrapf(err, "render panel %q", p.Title)
		}
		page.AddCharts(chart)
	}
	return page.Render(w)
}

// FigureHTML renders a figure to a byte slice
func FigureHTML(f *figure.Figure) ([]byte, error) {
	var buf bytes.Buffer
	if err := Figure(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func panelChart(p figure.Panel) (components.Charter, error) {
	switch p.Type {
	case figure.PanelBar:
		return countBar(p), nil
	case figure.PanelPie:
		return pie(p), nil
	case figure.PanelHistogram:
		return histogram(p), nil
	case figure.PanelDensity:
		return density(p), nil
	case figure.PanelBox:
		if p.Box == nil {
			return nil, errors.InvalidInput("box panel has no statistics")
		}
		return box(p), nil
	case figure.PanelGroupedBar:
		if p.Groups == nil {
			return nil, errors.InvalidInput("grouped bar panel has no groups")
		}
		return groupedBar(p), nil
	case figure.PanelHeatmap:
		if p.Heatmap == nil {
			return nil, errors.InvalidInput("heatmap panel has no cells")
		}
		return heatmap(p), nil
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown panel type %q", p.Type))
	}
}

func globalOpts(title string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  panelWidth,
			Height: panelHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithToolboxOpts(opts.Toolbox{Show: true}),
	}
}

func countBar(p figure.Panel) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(p.Title)...)
	bar.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Name: p.Title, Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count", Type: "value"}),
	)

	labels := make([]string, len(p.Counts))
	items := make([]opts.BarData, len(p.Counts))
	for i, c := range p.Counts {
		labels[i] = c.Label
		items[i] = opts.BarData{
			Name:      c.Label,
			Value:     c.Count,
			ItemStyle: &opts.ItemStyle{Color: Set2[i%len(Set2)]},
		}
	}
	bar.SetXAxis(labels).AddSeries("count", items)
	return bar
}

func pie(p figure.Panel) *charts.Pie {
	chart := charts.NewPie()
	chart.SetGlobalOptions(globalOpts(p.Title)...)

	items := make([]opts.PieData, len(p.Counts))
	for i, c := range p.Counts {
		items[i] = opts.PieData{
			Name:      fmt.Sprintf("%s (%s)", c.Label, c.PercentLabel),
			Value:     c.Count,
			ItemStyle: &opts.ItemStyle{Color: Pastel[i%len(Pastel)]},
		}
	}
	chart.AddSeries(p.Title, items,
		charts.WithLabelOpts(opts.Label{Show: true, Formatter: "{b}"}),
		charts.WithPieChartOpts(opts.PieChart{Radius: "65%"}),
	)
	return chart
}

func histogram(p figure.Panel) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(p.Title)...)
	bar.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count", Type: "value"}),
	)

	labels := make([]string, len(p.Bins))
	items := make([]opts.BarData, len(p.Bins))
	for i, b := range p.Bins {
		labels[i] = binLabel(b)
		items[i] = opts.BarData{Value: b.Count}
	}
	bar.SetXAxis(labels).AddSeries("count", items,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorOf(p.Color), BorderColor: "black"}),
		charts.WithBarChartOpts(opts.BarChart{BarCategoryGap: "0%"}),
	)
	return bar
}

// density draws the histogram on a value axis so the smooth curve, sampled
// on its own grid, can share it.
func density(p figure.Panel) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(p.Title)...)
	bar.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Scale: true}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count", Type: "value"}),
	)

	items := make([]opts.BarData, len(p.Bins))
	for i, b := range p.Bins {
		items[i] = opts.BarData{Value: []interface{}{(b.Lower + b.Upper) / 2, b.Count}}
	}
	bar.AddSeries("count", items,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorOf(p.Color), Opacity: 0.6}),
	)

	if len(p.Density) > 0 {
		curve := make([]opts.LineData, len(p.Density))
		for i, pt := range p.Density {
			curve[i] = opts.LineData{Value: []interface{}{pt.X, pt.Y}}
		}
		line := charts.NewLine()
		line.AddSeries("density", curve,
			charts.WithLineChartOpts(opts.LineChart{Smooth: true}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorOf(p.Color), Width: 2}),
		)
		bar.Overlap(line)
	}
	return bar
}

func box(p figure.Panel) *charts.BoxPlot {
	b := p.Box
	chart := charts.NewBoxPlot()
	chart.SetGlobalOptions(globalOpts(p.Title)...)
	chart.SetGlobalOptions(charts.WithYAxisOpts(opts.YAxis{Type: "value", Scale: true}))

	chart.SetXAxis([]string{p.Title}).AddSeries("box", []opts.BoxPlotData{{
		Value: []float64{b.WhiskerLow, b.Q1, b.Median, b.Q3, b.WhiskerHigh},
	}}, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorOf(p.Color), BorderColor: "black"}))

	if len(b.Outliers) > 0 {
		points := make([]opts.ScatterData, len(b.Outliers))
		for i, v := range b.Outliers {
			points[i] = opts.ScatterData{Value: []interface{}{p.Title, v}}
		}
		scatter := charts.NewScatter()
		scatter.AddSeries("outliers", points)
		chart.Overlap(scatter)
	}
	return chart
}

func groupedBar(p figure.Panel) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(p.Title)...)
	bar.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count", Type: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Right: "10%"}),
	)

	bar.SetXAxis(p.Groups.XLabels)
	for _, s := range p.Groups.Series {
		items := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			items[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(s.Name, items, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorOf(s.Color)}))
	}
	return bar
}

func heatmap(p figure.Panel) *charts.HeatMap {
	cells := p.Heatmap
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(globalOpts(p.Title)...)
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "720px",
			Height: "600px",
		}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", SplitArea: &opts.SplitArea{Show: true}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: cells.Labels, SplitArea: &opts.SplitArea{Show: true}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        -1,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: coolwarm},
		}),
	)

	items := make([]opts.HeatMapData, 0, len(cells.Labels)*len(cells.Labels))
	for i := range cells.Values {
		for j, v := range cells.Values[i] {
			items = append(items, opts.HeatMapData{Value: [3]interface{}{j, i, annotate(v)}})
		}
	}
	hm.SetXAxis(cells.Labels).AddSeries("correlation", items,
		charts.WithLabelOpts(opts.Label{Show: true}),
	)
	return hm
}

// annotate rounds a cell to two decimals; undefined cells render as "-"
func annotate(v float64) interface{} {
	if math.IsNaN(v) {
		return "-"
	}
	return math.Round(v*100) / 100
}

func binLabel(b figure.Bin) string {
	return fmt.Sprintf("[%.4g, %.4g)", b.Lower, b.Upper)
}

func colorOf(name string) string {
	if hex, ok := namedColors[name]; ok {
		return hex
	}
	return name
}
