package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/advisor/pkg/formulas"
)

// MockSeries is the output of the mock command. It is a valid report input.
type MockSeries struct {
	Seed    uint64    `json:"seed"`
	Returns []float64 `json:"returns"`
	Prices  []float64 `json:"prices"`
}

func newMockCmd() *cobra.Command {
	var (
		days  int
		seed  uint64
		vol   float64
		drift float64
		start float64
	)

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Generate a seeded mock return and price series",
		Long: `Generates uniform-noise daily returns and the compounded price path.
The same seed always yields the same series.

Example:
  advisor mock --days 756 --seed 42 --vol 0.2 --drift 0.1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1, got %d", days)
			}
			if start <= 0 {
				return fmt.Errorf("--start must be positive, got %g", start)
			}

			returns := formulas.GenerateMockReturns(formulas.NewSeededSource(seed), days, vol, drift)
			out := MockSeries{
				Seed:    seed,
				Returns: returns,
				Prices:  formulas.GenerateMockPrices(returns, start),
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(out)
		},
	}

	cmd.Flags().IntVar(&days, "days", formulas.TradingDaysPerYear, "number of daily returns")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().Float64Var(&vol, "vol", formulas.DefaultAnnualVolatility, "annualized volatility")
	cmd.Flags().Float64Var(&drift, "drift", formulas.DefaultDrift, "annualized drift")
	cmd.Flags().Float64Var(&start, "start", formulas.DefaultStartPrice, "starting price")

	return cmd
}
