package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ovenbird/crumb/internal/printer"
	"github.com/ovenbird/crumb/pkg/cashflow"
	"github.com/ovenbird/crumb/pkg/figure"
)

var (
	simOut    string
	simSeed   uint64
	simFigure bool
)

const exampleScenario = `# A cashflow scenario: monthly salary with random raises, an annual
# bonus, drifting noisy expenses, and an invested surplus.
name: %s

# Explicit seed makes runs reproducible; 0 picks one from the clock.
seed: 42
months: 120
paths: 2000

salary:
  monthly: 5200
  raise_rate: 0.8    # expected raises per year
  raise_mean: 0.04   # mean raise, fraction of salary
  raise_sigma: 0.3   # spread of the raise size (log space)

bonus:
  month: 12          # calendar month; 0 disables
  fraction_mean: 0.5 # mean bonus, fraction of monthly salary
  fraction_sigma: 0.2

expenses:
  monthly: 3100
  drift_per_year: 0.03
  volatility: 400    # currency units per sqrt-year

investments:
  initial: 15000
  mu: 0.05           # annualized drift
  sigma: 0.15        # annualized volatility

quantiles: [0.1, 0.5, 0.9]
`

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the cashflow simulations behind the finance posts",
}

var simRunCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Run a scenario and write its results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := cashflow.LoadScenario(args[0])
		if err != nil {
			return printer.Error("Could not load scenario", err.Error())
		}
		if simSeed != 0 {
			sc.Seed = simSeed
		}

		res, err := cashflow.Run(cmd.Context(), sc)
		if err != nil {
			return printer.Error("Simulation failed", err.Error())
		}

		outDir := simOut
		if outDir == "" {
			outDir = "."
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return printer.Error("Could not create output directory", err.Error())
		}

		base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		csvPath := filepath.Join(outDir, base+".csv")
		f, err := os.Create(csvPath)
		if err != nil {
			return printer.Error("Could not create CSV file", err.Error())
		}
		if err := res.WriteCSV(f); err != nil {
			f.Close()
			return printer.Error("Could not write CSV", err.Error())
		}
		if err := f.Close(); err != nil {
			return printer.Error("Could not write CSV", err.Error())
		}

		printer.Success("Simulated %d paths over %d months (seed %d)", sc.Paths, sc.Months, res.Seed)
		printer.Detail("run:  %s", res.RunID)
		printer.Detail("csv:  %s", csvPath)

		if simFigure {
			svgPath := filepath.Join(outDir, base+".svg")
			title := sc.Name
			if title == "" {
				title = base
			}
			if err := figure.WriteFan(svgPath, title, res); err != nil {
				return printer.Error("Could not render fan chart", err.Error())
			}
			printer.Detail("fan:  %s", svgPath)
		}

		printer.Printf("ruin probability: %.3f\n", res.RuinProb)
		printer.Printf("final mean:       %.2f (σ %.2f)\n", res.FinalMean, res.FinalStd)
		for _, b := range res.Bands {
			printer.Printf("final p%-3g        %.2f\n", b.P*100, b.Series[len(b.Series)-1])
		}
		return nil
	},
}

var simNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Write a commented example scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		path := name + ".yaml"
		if _, err := os.Stat(path); err == nil {
			return printer.Error(
				fmt.Sprintf("%s already exists", path),
				"Refusing to overwrite an existing scenario.")
		}

		body := fmt.Sprintf(exampleScenario, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return printer.Error("Could not write scenario", err.Error())
		}

		printer.Success("Created %s", path)
		printer.Detail("run it with: crumb sim run %s", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simCmd)
	simCmd.AddCommand(simRunCmd, simNewCmd)

	simRunCmd.Flags().StringVar(&simOut, "out", "", "Output directory (default: current directory)")
	simRunCmd.Flags().Uint64Var(&simSeed, "seed", 0, "Override the scenario seed")
	simRunCmd.Flags().BoolVar(&simFigure, "figure", false, "Also render a fan chart SVG")
}
