package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"edadash/app"
	"edadash/domain/dataset"
	"edadash/domain/figure"
	"edadash/internal/config"
	"edadash/internal/session"
	"edadash/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "edadash-dev",
		Short: "EDA dashboard development tools",
	}

	rootCmd.AddCommand(
		newSeedCmd(),
		newSmokeTestCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSeedCmd() *cobra.Command {
	var out string
	var rows int
	var seed int64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate the default bank marketing sample dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateSeedData(out, rows, seed)
		},
	}

	cmd.Flags().StringVar(&out, "out", "data/bank.csv", "Output CSV path (';' separated)")
	cmd.Flags().IntVar(&rows, "rows", 200, "Number of rows")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic data")
	return cmd
}

func newSmokeTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Load the default dataset and run every plot kind against it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmokeTests(cmd.Context())
		},
	}
}

func generateSeedData(out string, rows int, seed int64) error {
	fmt.Println("Generating seed data...")

	cfg := testkit.DefaultBankConfig()
	cfg.Rows = rows
	cfg.Seed = seed

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer file.Close()

	if err := testkit.WriteBankCSV(file, cfg, ';'); err != nil {
		return fmt.Errorf("failed to write sample data: %w", err)
	}

	fmt.Printf("Wrote %d rows to %s\n", rows, out)
	return nil
}

func runSmokeTests(ctx context.Context) error {
	fmt.Println("Running smoke tests...")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	svc := app.NewDashboardService(cfg)
	sess := session.New("smoke")

	if _, err := svc.LoadDefault(ctx, sess); err != nil {
		return fmt.Errorf("default dataset: %w", err)
	}
	schema := sess.Current().Schema()

	tw := table.NewWriter()
	tw.SetTitle("Smoke tests")
	tw.AppendHeader(table.Row{"Kind", "Columns", "Status", "Took"})

	failed := 0
	for _, kind := range figure.AllKinds() {
		sel := smokeSelection(kind, schema)
		start := time.Now()
		result, err := svc.Plot(ctx, sess, sel)

		status := string(result.Status)
		if err != nil {
			status = "FAILED: " + err.Error()
			failed++
		}
		tw.AppendRow(table.Row{kind, sel.Column + " " + sel.Column2, status, time.Since(start).Round(time.Microsecond)})
	}
	fmt.Println(tw.Render())

	if failed > 0 {
		return fmt.Errorf("%d of %d smoke tests failed", failed, len(figure.AllKinds()))
	}
	return nil
}

// smokeSelection picks the first column(s) of the right type for kind
func smokeSelection(kind figure.PlotKind, schema dataset.Schema) figure.Selection {
	choices := app.ColumnChoices(schema, kind)
	sel := figure.Selection{Kind: kind}
	if len(choices) > 0 {
		sel.Column = choices[0]
	}
	if kind.ColumnCount() == 2 && len(choices) > 1 {
		sel.Column2 = choices[1]
	}
	return sel
}
