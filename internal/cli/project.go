package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradergym/internal/engine"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project the equity curve toward the challenge goal",
		Long: `Forward-simulate the account under its risk protocol: a what-if win
rate of your choosing alongside the win rate observed in your history.

Shows days to target, progress so far, and whether the simulated curve
ever dips toward the liquidation threshold.`,
		Example: `  tradergym project
  tradergym project --win-rate 0.55 --goal 159000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			winRate, _ := cmd.Flags().GetFloat64("win-rate")
			goal, _ := cmd.Flags().GetFloat64("goal")

			acct, trades, err := app.loadAccountAndTrades(ctx, cmd)
			if err != nil {
				return err
			}

			if goal == 0 {
				goal = app.Config.Journal.ChallengeGoal
			}
			if goal == 0 {
				// Common evaluation target: 6% above starting balance.
				goal = acct.InitialBalance * 1.06
			}

			result := engine.ComputeProjection(acct, trades, goal, winRate)

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Challenge Projection - %s", acct.Name)
			output.Printf("  Target: %s\n\n", FormatUSD(goal))

			if result.DaysToTarget == engine.DaysUnreachable {
				output.Printf("  Days to Target:   %s\n", output.Red("unreachable at this win rate"))
			} else {
				output.Printf("  Days to Target:   %d trading days\n", result.DaysToTarget)
			}
			output.Printf("  What-If Win Rate: %.0f%%\n", winRate*100)
			output.Printf("  Observed:         %.0f%% over %d trades\n", result.HistoricalWinRate*100, len(trades))
			output.Printf("  Progress:         %.1f%% of the profit target\n", result.ProfitProgressPct)
			output.Println()

			renderSeries(output, "What-If Curve", result.ManualSeries)
			output.Println()
			renderSeries(output, "Historical Curve", result.HistoricalSeries)

			return nil
		},
	}

	cmd.Flags().Float64("win-rate", 0.5, "What-if win rate (0-1)")
	cmd.Flags().Float64("goal", 0, "Target equity (default: configured challenge goal)")

	return cmd
}

// renderSeries prints a sampled view of a simulated curve: first days,
// then every tenth, then the final day.
func renderSeries(output *Output, title string, series []engine.ProjectionPoint) {
	output.Bold(title)
	if len(series) == 0 {
		output.Dim("  (no simulated days)")
		return
	}

	table := NewTable(output, "Day", "Equity", "Liquidation")
	for i, p := range series {
		if i >= 3 && (p.Day%10 != 0) && i != len(series)-1 {
			continue
		}
		equity := FormatUSD(p.Equity)
		if p.Equity <= p.LiquidationPoint {
			equity = output.Red(equity)
		}
		table.AddRow(
			fmt.Sprintf("%d", p.Day),
			equity,
			FormatUSD(p.LiquidationPoint),
		)
	}
	table.Render()
}
