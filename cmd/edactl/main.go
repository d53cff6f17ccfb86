package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"edadash/adapters/excel"
	"edadash/app"
	"edadash/domain/dataset"
	"edadash/domain/figure"
	"edadash/internal/config"
	"edadash/internal/outlier"
	"edadash/internal/render"
	"edadash/internal/report"
	"edadash/internal/session"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "edactl",
		Short:        "Explore a CSV or Excel file from the terminal",
		SilenceUsage: true,
	}

	src := &source{}
	rootCmd.PersistentFlags().StringVar(&src.file, "file", "", "CSV or XLSX file to explore")
	rootCmd.PersistentFlags().StringVar(&src.separator, "sep", ",", "CSV field separator (single character)")
	_ = rootCmd.MarkPersistentFlagRequired("file")

	rootCmd.AddCommand(
		newPlotCmd(src),
		newSummaryCmd(src),
		newCorrCmd(src),
		newCrosstabCmd(src),
		newOutliersCmd(src),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// source is the file every subcommand reads
type source struct {
	file      string
	separator string
}

func (s *source) load() (*dataset.Dataset, error) {
	return loadDataset(s.file, s.separator)
}

func newPlotCmd(src *source) *cobra.Command {
	var kind, column, column2, out string

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render one dashboard chart to a standalone HTML page",
		Long: `Render one dashboard chart to a standalone HTML page.

Example: edactl plot --file data/bank.csv --sep ';' --kind boxplot --column balance --out balance.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := figure.Selection{Kind: figure.PlotKind(kind), Column: column, Column2: column2}
			return runPlot(cmd.Context(), cmd.OutOrStdout(), src, sel, out)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "bar", "Plot kind: bar|pie|hist|dist|boxplot|heatmap|crosstab")
	cmd.Flags().StringVar(&column, "column", "", "Column to plot (first column for crosstab)")
	cmd.Flags().StringVar(&column2, "column2", "", "Second column for crosstab")
	cmd.Flags().StringVar(&out, "out", "plot.html", "Output HTML file")

	return cmd
}

func newSummaryCmd(src *source) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the column partition, describe() statistics and the first rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := src.load()
			if err != nil {
				return err
			}
			writeSummary(cmd.OutOrStdout(), ds, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 5, "Number of preview rows")
	return cmd
}

func newCorrCmd(src *source) *cobra.Command {
	return &cobra.Command{
		Use:   "corr",
		Short: "Print the Pearson correlation matrix of the numerical columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := src.load()
			if err != nil {
				return err
			}
			m, err := report.Correlation(ds)
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetTitle("Correlation Heatmap")
			header := table.Row{""}
			for _, l := range m.Labels {
				header = append(header, l)
			}
			tw.AppendHeader(header)
			for i, l := range m.Labels {
				row := table.Row{l}
				for _, v := range m.Values[i] {
					row = append(row, fmt.Sprintf("%.2f", v))
				}
				tw.AppendRow(row)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return nil
		},
	}
}

func newCrosstabCmd(src *source) *cobra.Command {
	var a, b string

	cmd := &cobra.Command{
		Use:   "crosstab",
		Short: "Print the contingency table of two categorical columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := src.load()
			if err != nil {
				return err
			}
			ct, err := report.Crosstab(ds, a, b)
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetTitle(ct.Title())
			header := table.Row{ct.RowName + " \\ " + ct.ColName}
			for _, l := range ct.ColLabels {
				header = append(header, l)
			}
			tw.AppendHeader(header)
			for i, l := range ct.RowLabels {
				row := table.Row{l}
				for _, n := range ct.Counts[i] {
					row = append(row, n)
				}
				tw.AppendRow(row)
			}
			tw.AppendFooter(table.Row{"total", ct.Total()})
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&a, "a", "", "Row column (categorical)")
	cmd.Flags().StringVar(&b, "b", "", "Column column (categorical)")
	return cmd
}

func newOutliersCmd(src *source) *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:   "outliers",
		Short: "Print the IQR fences of a numerical column and how many cells fall outside them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := src.load()
			if err != nil {
				return err
			}
			col, ok := ds.Column(column)
			if !ok || col.Kind != dataset.KindNumerical {
				return fmt.Errorf("%q is not a numerical column", column)
			}

			values := col.Floats()
			b, err := outlier.ComputeBounds(values)
			if err != nil {
				return err
			}
			outside := 0
			for _, v := range values {
				if b.IsOutlier(v) {
					outside++
				}
			}

			tw := table.NewWriter()
			tw.SetTitle(column)
			tw.AppendHeader(table.Row{"Q1", "Median", "Q3", "IQR", "Lower", "Upper", "Outliers"})
			tw.AppendRow(table.Row{b.Q1, b.Median, b.Q3, b.IQR, b.Lower, b.Upper, outside})
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Numerical column")
	return cmd
}

func runPlot(ctx context.Context, w io.Writer, src *source, sel figure.Selection, out string) error {
	ds, err := src.load()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	svc := app.NewDashboardService(cfg)
	sess := session.New("cli")
	sess.Replace(ds, "file")

	result, err := svc.Plot(ctx, sess, sel)
	if err != nil {
		return err
	}
	if result.Status == figure.StatusSkipped {
		fmt.Fprintf(w, "skipped: %s\n", result.Reason)
		return nil
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer file.Close()

	if err := render.Figure(file, result.Figure); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s (%s)\n", out, result.Figure.Title)
	return nil
}

func writeSummary(w io.Writer, ds *dataset.Dataset, rows int) {
	schema := ds.Schema()
	fmt.Fprintf(w, "%d rows x %d columns\n", ds.Rows(), schema.Len())
	fmt.Fprintf(w, "categorical: %s\n", strings.Join(schema.Categorical, ", "))
	fmt.Fprintf(w, "numerical:   %s\n\n", strings.Join(schema.Numerical, ", "))

	s := report.Describe(ds)
	if len(s.Numerical) > 0 {
		tw := table.NewWriter()
		tw.SetTitle("Numerical columns")
		tw.AppendHeader(table.Row{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"})
		for _, n := range s.Numerical {
			tw.AppendRow(table.Row{n.Name, n.Count, f2(n.Mean), f2(n.Std), f2(n.Min), f2(n.Q25), f2(n.Median), f2(n.Q75), f2(n.Max)})
		}
		fmt.Fprintln(w, tw.Render())
	}
	if len(s.Categorical) > 0 {
		tw := table.NewWriter()
		tw.SetTitle("Categorical columns")
		tw.AppendHeader(table.Row{"column", "count", "unique", "top", "freq"})
		for _, c := range s.Categorical {
			tw.AppendRow(table.Row{c.Name, c.Count, c.Unique, c.Top, c.Freq})
		}
		fmt.Fprintln(w, tw.Render())
	}

	preview := report.Preview(ds, rows)
	tw := table.NewWriter()
	tw.SetTitle("Preview")
	header := table.Row{}
	for _, h := range preview.Headers {
		header = append(header, h)
	}
	tw.AppendHeader(header)
	for _, r := range preview.Rows {
		row := table.Row{}
		for _, cell := range r {
			row = append(row, cell)
		}
		tw.AppendRow(row)
	}
	fmt.Fprintln(w, tw.Render())
}

func loadDataset(path, separator string) (*dataset.Dataset, error) {
	sep, err := excel.ParseSeparator(separator)
	if err != nil {
		return nil, err
	}
	cfg := excel.DefaultReaderConfig()
	cfg.Separator = sep
	return excel.NewDataReader(cfg).ReadFile(path, dataset.Origin{Source: "file"})
}

func f2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
