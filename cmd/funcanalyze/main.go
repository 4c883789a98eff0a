// cmd/funcanalyze/main.go — command-line function analyzer
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/njchilds90/funcanalyze"
)

var (
	flagPoint   string
	flagJSON    bool
	flagSample  bool
	flagLo      float64
	flagHi      float64
	flagSamples int
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "funcanalyze <expression>",
		Short: "Analyze a single-variable real function",
		Long: `Analyze a single-variable real function given as text: domain
restrictions, a best-effort range, axis intercepts, and optional
evaluation at a point, with the reasoning steps for each.`,
		Example: `  funcanalyze "(x+1)/(x-2)"
  funcanalyze "log(x + 1)" -x 1
  funcanalyze "x^2 - 4" --json
  funcanalyze "sen(x)" --sample`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}
	cmd.Flags().StringVarP(&flagPoint, "point", "x", "", "evaluate the function at this x value")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "emit the report as JSON")
	cmd.Flags().BoolVar(&flagSample, "sample", false, "emit plot samples instead of the report")
	cmd.Flags().Float64Var(&flagLo, "from", funcanalyze.DefaultPlotLo, "sampling window lower bound")
	cmd.Flags().Float64Var(&flagHi, "to", funcanalyze.DefaultPlotHi, "sampling window upper bound")
	cmd.Flags().IntVar(&flagSamples, "samples", funcanalyze.DefaultPlotN, "number of plot samples")

	cmd.AddCommand(examplesCmd())
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	analyzer := &funcanalyze.Analyzer{Timeout: funcanalyze.DefaultStageTimeout, Log: log}

	if flagSample {
		points, err := funcanalyze.SamplePlot(funcanalyze.Normalize(args[0]), flagLo, flagHi, flagSamples)
		if err != nil {
			return err
		}
		return json.NewEncoder(os.Stdout).Encode(points)
	}

	rep, err := analyzer.Analyze(args[0], flagPoint)
	if err != nil {
		return err
	}
	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	fmt.Print(rep.Render())
	return nil
}

func examplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show example inputs",
		Run: func(cmd *cobra.Command, args []string) {
			for _, ex := range funcanalyze.Examples() {
				fmt.Println(ex)
			}
		},
	}
}
