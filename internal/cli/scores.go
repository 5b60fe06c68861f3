package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tradergym/internal/engine"
	"tradergym/internal/errors"
	"tradergym/internal/logging"
)

func newScoresCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Behavioral and discipline scoring",
		Long: `Score the trader, not the P&L: behavioral equity over the recent
window, long-run reputation, the daily discipline composite, and the
current tilt gauge.`,
	}

	cmd.AddCommand(newScoresBECmd(app))
	cmd.AddCommand(newScoresReputationCmd(app))
	cmd.AddCommand(newScoresTGCmd(app))
	cmd.AddCommand(newScoresTiltCmd(app))

	return cmd
}

func newScoresBECmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "be",
		Short: "Behavioral equity over the recent window",
		Long: `Score execution quality over the last ten trades. Sabotaged stops
cost heavily; plan adherence earns it back. The score maps to a tier
and a position-size multiplier.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			_, trades, err := app.loadAccountAndTrades(ctx, cmd)
			if err != nil {
				return err
			}

			result := engine.ComputeBehavioralEquity(trades)

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Behavioral Equity")
			output.Println()
			output.Printf("  Score:       %d/100\n", result.Score)
			output.Printf("  Tier:        %s\n", output.TierTag(result.Tier))
			output.Printf("  Multiplier:  %.2fx position size\n", result.Multiplier)
			if result.TierALocked {
				output.Printf("  Full Size:   %s\n", output.Red("LOCKED"))
			} else {
				output.Printf("  Full Size:   %s\n", output.Green("UNLOCKED"))
			}

			return nil
		},
	}
}

func newScoresReputationCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reputation",
		Short: "Long-run reputation score",
		Long: `Accumulate reputation across the whole history: realized profit
contributes only when positive, and average discipline contributes
always. Losses never claw reputation back.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			_, trades, err := app.loadAccountAndTrades(ctx, cmd)
			if err != nil {
				return err
			}

			result := engine.ComputeReputation(trades)

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Reputation")
			output.Println()
			output.Printf("  Score:     %d\n", result.Score)
			output.Printf("  Tier:      %s\n", output.TierTag(result.Tier))
			output.Printf("  Progress:  %s to next tier\n", FormatPercent(result.ProgressPct))

			return nil
		},
	}
}

func newScoresTGCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tg",
		Short: "Daily discipline composite",
		Long: `Score one day across five pillars: preparation, execution, review,
risk integrity, and consistency. A stop-loss sabotage or revenge trade
vetoes the day regardless of the number.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			date, _ := cmd.Flags().GetString("date")
			if date == "" {
				date = Today()
			}

			acct, trades, err := app.loadAccountAndTrades(ctx, cmd)
			if err != nil {
				return err
			}

			prep, err := app.Store.GetPrep(ctx, acct.ID, date)
			if err != nil && !errors.Is(err, errors.ErrPrepNotFound) {
				return err
			}

			result := engine.ComputeTGScore(trades, prep, date)

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Discipline Score - %s", date)
			output.Println()
			output.Printf("  Preparation:     %.0f/100\n", result.Prep)
			output.Printf("  Execution:       %.0f/100\n", result.Execution)
			output.Printf("  Review:          %.0f/100\n", result.Review)
			output.Printf("  Risk Integrity:  %.0f/100\n", result.RiskIntegrity)
			output.Printf("  Consistency:     %.0f/100\n", result.Consistency)
			output.Println()
			if result.Veto {
				output.Printf("  Total:           %d/100 %s\n", result.Total, output.Red("[VETO]"))
				output.Println()
				output.Error("Rule violation today. The composite is vetoed regardless of the number.")
			} else {
				output.Printf("  Total:           %d/100\n", result.Total)
			}

			return nil
		},
	}

	cmd.Flags().String("date", "", "Date to score (default: today)")

	return cmd
}

func newScoresTiltCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tilt",
		Short: "Current tilt gauge",
		Long: `Gauge emotional load from today's realized losses, the running loss
streak, and missing preparation. Overload means walk away.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			date, _ := cmd.Flags().GetString("date")
			if date == "" {
				date = Today()
			}

			acct, trades, err := app.loadAccountAndTrades(ctx, cmd)
			if err != nil {
				return err
			}

			prep, err := app.Store.GetPrep(ctx, acct.ID, date)
			if err != nil && !errors.Is(err, errors.ErrPrepNotFound) {
				return err
			}

			maxDailyRisk := app.riskSettings(acct).MaxDailyRisk
			result := engine.ComputeTilt(trades, prep, maxDailyRisk, date)

			logging.LogTilt(app.Logger, date, result.Score, string(result.Level))

			if result.Level == engine.TiltOverload {
				if err := app.Notifier.SendTiltWarning(ctx, date, result); err != nil {
					app.Logger.Warn().Err(err).Msg("Tilt warning not delivered")
				}
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Tilt Gauge - %s", date)
			output.Println()
			output.Printf("  Score:   %d/100\n", result.Score)
			output.Printf("  Level:   %s\n", output.TiltTag(result.Level))
			output.Printf("  %s\n", result.Label)
			output.Println()
			output.Dim("%s", result.Description)

			if result.Level == engine.TiltOverload {
				output.Println()
				output.Error("Walk away from the screen. No further trades today.")
			}

			return nil
		},
	}

	cmd.Flags().String("date", "", "Date to gauge (default: today)")

	return cmd
}
