package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tradergym/internal/engine"
	"tradergym/internal/errors"
	"tradergym/internal/logging"
	"tradergym/internal/models"
)

func newPrepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prep",
		Short: "Morning preparation and readiness gate",
		Long: `Record the morning check-in (HRV, sleep, subjective state) and run
the readiness gate that decides whether today is tradeable.`,
	}

	cmd.AddCommand(newPrepSetCmd(app))
	cmd.AddCommand(newPrepGateCmd(app))
	cmd.AddCommand(newPrepShowCmd(app))

	return cmd
}

func newPrepSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Record today's morning check-in",
		Long: `Record the morning check-in and immediately score it.

HRV and sleep come from the wearable; physical, mental, emotional, and
process scores are self-reported 1-10. The gate score and verdict are
computed and stored with the record.`,
		Example: `  tradergym prep set --hrv 62 --baseline 65 --sleep 7.5 --physical 8 --mental 7 --emotional 8 --process 9 --accept-uncertainty
  tradergym prep set --date 2026-08-30 --hrv 48 --baseline 65 --sleep 5.2 --physical 4 --mental 5 --emotional 3 --process 6`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if app.Store == nil {
				return errors.ErrDatabaseError
			}

			date, _ := cmd.Flags().GetString("date")
			if date == "" {
				date = Today()
			}
			if !ValidDate(date) {
				return errors.NewValidationError("date", date, "must be YYYY-MM-DD")
			}

			hrv, _ := cmd.Flags().GetFloat64("hrv")
			baseline, _ := cmd.Flags().GetFloat64("baseline")
			sleep, _ := cmd.Flags().GetFloat64("sleep")
			physical, _ := cmd.Flags().GetInt("physical")
			mental, _ := cmd.Flags().GetInt("mental")
			emotional, _ := cmd.Flags().GetInt("emotional")
			process, _ := cmd.Flags().GetInt("process")
			uncertainty, _ := cmd.Flags().GetBool("accept-uncertainty")
			habit, _ := cmd.Flags().GetInt("habit")
			riskAmount, _ := cmd.Flags().GetFloat64("risk-amount")

			for _, check := range []struct {
				name  string
				value int
			}{
				{"physical", physical}, {"mental", mental},
				{"emotional", emotional}, {"process", process},
			} {
				if check.value < 1 || check.value > 10 {
					return errors.NewValidationError(check.name, check.value, "must be 1-10")
				}
			}

			prep := &models.DailyPrepData{
				Date:                 date,
				HRVValue:             hrv,
				HRVBaseline:          baseline,
				SleepHours:           sleep,
				PhysicalScore:        physical,
				MentalScore:          mental,
				EmotionalScore:       emotional,
				ProcessScore:         process,
				UncertaintyAccepted:  uncertainty,
				DailyRiskAmount:      riskAmount,
				HabitDisciplineScore: habit,
			}

			result := engine.ComputeGatekeeper(prep)
			prep.GatekeeperScore = result.Score
			prep.Verdict = result.Verdict

			accountID := app.accountID(cmd)
			if err := app.Store.SavePrep(ctx, accountID, prep); err != nil {
				output.Error("Failed to save prep: %v", err)
				return err
			}

			logging.LogVerdict(app.Logger, date, result.Score, string(result.Verdict))

			if result.Verdict == models.VerdictRed {
				if err := app.Notifier.SendVerdict(ctx, date, result); err != nil {
					app.Logger.Warn().Err(err).Msg("Verdict alert not delivered")
				}
			}

			if output.IsJSON() {
				return output.JSON(result)
			}
			renderGate(output, date, result)
			return nil
		},
	}

	cmd.Flags().String("date", "", "Check-in date (default: today)")
	cmd.Flags().Float64("hrv", 0, "Morning HRV reading (ms)")
	cmd.Flags().Float64("baseline", 0, "HRV rolling baseline (ms)")
	cmd.Flags().Float64("sleep", 0, "Hours slept")
	cmd.Flags().Int("physical", 5, "Physical readiness (1-10)")
	cmd.Flags().Int("mental", 5, "Mental clarity (1-10)")
	cmd.Flags().Int("emotional", 5, "Emotional stability (1-10)")
	cmd.Flags().Int("process", 5, "Process focus (1-10)")
	cmd.Flags().Bool("accept-uncertainty", false, "Acknowledge that today's outcome is not owed to you")
	cmd.Flags().Int("habit", 5, "Yesterday's discipline habit rating (1-10)")
	cmd.Flags().Float64("risk-amount", 0, "Declared risk amount for today")

	return cmd
}

func newPrepGateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Run the readiness gate for a recorded day",
		Long: `Re-score a stored check-in and show the verdict. With no check-in
recorded the verdict is Red: unknown readiness is not tradeable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if app.Store == nil {
				return errors.ErrDatabaseError
			}

			date, _ := cmd.Flags().GetString("date")
			if date == "" {
				date = Today()
			}

			prep, err := app.Store.GetPrep(ctx, app.accountID(cmd), date)
			if err != nil && !errors.Is(err, errors.ErrPrepNotFound) {
				return err
			}

			result := engine.ComputeGatekeeper(prep)

			if result.Verdict == models.VerdictRed {
				if err := app.Notifier.SendVerdict(ctx, date, result); err != nil {
					app.Logger.Warn().Err(err).Msg("Verdict alert not delivered")
				}
			}

			if output.IsJSON() {
				return output.JSON(result)
			}
			if prep == nil {
				output.Warning("No check-in recorded for %s.", date)
				output.Println()
			}
			renderGate(output, date, result)
			return nil
		},
	}

	cmd.Flags().String("date", "", "Date to gate (default: today)")

	return cmd
}

func newPrepShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a recorded check-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if app.Store == nil {
				return errors.ErrDatabaseError
			}

			date, _ := cmd.Flags().GetString("date")
			if date == "" {
				date = Today()
			}

			prep, err := app.Store.GetPrep(ctx, app.accountID(cmd), date)
			if err != nil {
				if errors.Is(err, errors.ErrPrepNotFound) {
					output.Info("No check-in recorded for %s.", date)
					return nil
				}
				return err
			}

			if output.IsJSON() {
				return output.JSON(prep)
			}

			output.Bold("Morning Check-In - %s", date)
			output.Println()
			output.Printf("  HRV:          %.0f ms (baseline %.0f)\n", prep.HRVValue, prep.HRVBaseline)
			output.Printf("  Sleep:        %.1f h\n", prep.SleepHours)
			output.Printf("  Physical:     %d/10\n", prep.PhysicalScore)
			output.Printf("  Mental:       %d/10\n", prep.MentalScore)
			output.Printf("  Emotional:    %d/10\n", prep.EmotionalScore)
			output.Printf("  Process:      %d/10\n", prep.ProcessScore)
			output.Printf("  Uncertainty:  accepted=%v\n", prep.UncertaintyAccepted)
			output.Println()
			output.Printf("  Gate Score:   %d/100\n", prep.GatekeeperScore)
			output.Printf("  Verdict:      %s\n", output.VerdictTag(prep.Verdict))

			return nil
		},
	}

	cmd.Flags().String("date", "", "Date to show (default: today)")

	return cmd
}

func renderGate(output *Output, date string, result engine.GatekeeperResult) {
	output.Bold("Readiness Gate - %s", date)
	output.Println()
	output.Printf("  HRV:         %.1f / 50\n", result.HRVPoints)
	output.Printf("  Sleep:       %.1f / 30\n", result.SleepPoints)
	output.Printf("  Subjective:  %.1f / 20\n", result.SubjectivePoints)
	output.Println()
	output.Printf("  Score:       %d/100\n", result.Score)
	output.Printf("  Verdict:     %s\n", output.VerdictTag(result.Verdict))

	switch result.Verdict {
	case models.VerdictRed:
		output.Println()
		output.Error("Do not trade today. Close the platform.")
	case models.VerdictYellow:
		output.Println()
		output.Warning("Reduced readiness. Trade smaller or skip marginal setups.")
	}
}
