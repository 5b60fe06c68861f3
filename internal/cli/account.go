package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradergym/internal/engine"
	"tradergym/internal/errors"
	"tradergym/internal/models"
	"tradergym/internal/store"
)

func newAccountCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account management",
		Long:  "Add, list, and monitor trading accounts and their drawdown state.",
	}

	cmd.AddCommand(newAccountAddCmd(app))
	cmd.AddCommand(newAccountListCmd(app))
	cmd.AddCommand(newAccountStatusCmd(app))
	cmd.AddCommand(newAccountThrottleCmd(app))

	return cmd
}

func newAccountAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a trading account",
		Long: `Register a trading account with its drawdown rule and risk profile.

Trailing accounts follow the equity high-water mark; static accounts
breach at a fixed floor below the initial balance. Payout accounts
(--pa) lock the trailing threshold once it passes the cap.`,
		Example: `  tradergym account add apex-01 --name "Apex 150k" --balance 150000 --max-drawdown 5000
  tradergym account add pa-01 --balance 50000 --max-drawdown 2500 --pa --trail-stop 100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if app.Store == nil {
				return errors.ErrDatabaseError
			}

			id := args[0]
			name, _ := cmd.Flags().GetString("name")
			balance, _ := cmd.Flags().GetFloat64("balance")
			maxDrawdown, _ := cmd.Flags().GetFloat64("max-drawdown")
			static, _ := cmd.Flags().GetBool("static")
			isPA, _ := cmd.Flags().GetBool("pa")
			trailStop, _ := cmd.Flags().GetFloat64("trail-stop")
			maxDailyRisk, _ := cmd.Flags().GetFloat64("max-daily-risk")

			if balance <= 0 {
				return errors.NewValidationError("balance", balance, "must be positive")
			}
			if maxDrawdown <= 0 {
				return errors.NewValidationError("max-drawdown", maxDrawdown, "must be positive")
			}
			if name == "" {
				name = id
			}

			ddType := models.DrawdownTrailing
			if static {
				ddType = models.DrawdownStatic
			}

			settings := engine.DefaultRiskSettings()
			if maxDailyRisk > 0 {
				settings.MaxDailyRisk = maxDailyRisk
			}

			acct := &models.Account{
				ID:                    id,
				Name:                  name,
				InitialBalance:        balance,
				MaxDrawdown:           maxDrawdown,
				DrawdownType:          ddType,
				IsPA:                  isPA,
				TrailingStopThreshold: trailStop,
				RiskSettings:          &settings,
			}

			if err := app.Store.SaveAccount(ctx, acct); err != nil {
				output.Error("Failed to save account: %v", err)
				return err
			}

			app.Logger.Info().
				Str("account", id).
				Float64("balance", balance).
				Str("drawdown_type", string(ddType)).
				Msg("Account added")

			if output.IsJSON() {
				return output.JSON(acct)
			}
			output.Success("✓ Account %s added", id)
			output.Printf("  Balance:       %s\n", FormatUSD(balance))
			output.Printf("  Max Drawdown:  %s (%s)\n", FormatUSD(maxDrawdown), ddType)
			output.Printf("  Daily Risk:    %s\n", FormatUSD(settings.MaxDailyRisk))
			return nil
		},
	}

	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().Float64("balance", 0, "Initial balance")
	cmd.Flags().Float64("max-drawdown", 0, "Maximum drawdown before liquidation")
	cmd.Flags().Bool("static", false, "Static drawdown floor instead of trailing")
	cmd.Flags().Bool("pa", false, "Payout account (trailing threshold locks at cap)")
	cmd.Flags().Float64("trail-stop", 0, "Trailing stop cap above initial balance (PA accounts)")
	cmd.Flags().Float64("max-daily-risk", 0, "Max daily risk budget (default 1000)")

	return cmd
}

func newAccountListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if app.Store == nil {
				return errors.ErrDatabaseError
			}

			accounts, err := app.Store.ListAccounts(ctx)
			if err != nil {
				output.Error("Failed to list accounts: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(accounts)
			}

			if len(accounts) == 0 {
				output.Info("No accounts yet. Add one with 'tradergym account add'.")
				return nil
			}

			table := NewTable(output, "ID", "Name", "Balance", "Max DD", "Type", "Daily Risk")
			for _, a := range accounts {
				dailyRisk := "-"
				if a.RiskSettings != nil {
					dailyRisk = FormatUSD(a.RiskSettings.MaxDailyRisk)
				}
				table.AddRow(
					a.ID,
					TruncateString(a.Name, 20),
					FormatUSD(a.InitialBalance),
					FormatUSD(a.MaxDrawdown),
					string(a.DrawdownType),
					dailyRisk,
				)
			}
			table.Render()

			return nil
		},
	}
}

func newAccountStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show account equity and drawdown state",
		Long: `Replay the account's trades and show current equity, the high-water
mark, the liquidation threshold, and the available-risk buffer.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			acct, trades, err := app.loadAccountAndTrades(ctx, cmd)
			if err != nil {
				return err
			}

			result := engine.ComputeDrawdown(acct, trades)

			if result.AvailableRiskBuffer < acct.MaxDrawdown*0.25 {
				if err := app.Notifier.SendDrawdownWarning(ctx, acct, result); err != nil {
					app.Logger.Warn().Err(err).Msg("Drawdown warning not delivered")
				}
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Account Status - %s", acct.Name)
			output.Println()
			output.Printf("  Current Equity:   %s\n", FormatUSD(result.CurrentEquity))
			output.Printf("  Peak Equity:      %s\n", FormatUSD(result.PeakEquity))
			output.Printf("  Liquidation At:   %s\n", output.Red(FormatUSD(result.LiquidationPoint)))

			bufferStr := FormatUSD(result.AvailableRiskBuffer)
			if result.AvailableRiskBuffer < acct.MaxDrawdown*0.25 {
				output.Printf("  Risk Buffer:      %s\n", output.Red(bufferStr))
				output.Println()
				output.Warning("⚠ Buffer is thin. Consider throttling daily risk.")
			} else {
				output.Printf("  Risk Buffer:      %s\n", output.Green(bufferStr))
			}

			current := app.riskSettings(acct).MaxDailyRisk
			output.Println()
			output.Printf("  Daily Risk:       %s (suggested: %s)\n",
				FormatUSD(current), FormatUSD(result.SuggestedMaxDailyRisk))

			return nil
		},
	}
}

func newAccountThrottleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "throttle",
		Short: "Apply the suggested daily risk budget",
		Long: `Compute the auto-throttle suggestion (10% of the available-risk
buffer) and write it to the account's risk profile. Running it again
without new trades is a no-op.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			dryRun, _ := cmd.Flags().GetBool("dry-run")

			acct, trades, err := app.loadAccountAndTrades(ctx, cmd)
			if err != nil {
				return err
			}

			target, ok := engine.SuggestDailyRisk(acct, trades)
			current := app.riskSettings(acct).MaxDailyRisk

			if !ok {
				if output.IsJSON() {
					return output.JSON(map[string]interface{}{"changed": false, "max_daily_risk": current})
				}
				output.Info("Daily risk already at the suggested %s. Nothing to do.", FormatUSD(current))
				return nil
			}

			if dryRun {
				if output.IsJSON() {
					return output.JSON(map[string]interface{}{"changed": false, "current": current, "suggested": target})
				}
				output.Printf("Would change daily risk: %s → %s\n", FormatUSD(current), FormatUSD(target))
				return nil
			}

			if err := app.Store.UpdateMaxDailyRisk(ctx, acct.ID, target); err != nil {
				output.Error("Failed to update daily risk: %v", err)
				return err
			}

			if err := app.Notifier.SendRiskSuggestion(ctx, acct, current, target); err != nil {
				app.Logger.Warn().Err(err).Msg("Risk suggestion not delivered")
			}

			app.Logger.Info().
				Str("account", acct.ID).
				Float64("from", current).
				Float64("to", target).
				Msg("Daily risk throttled")

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"changed": true, "from": current, "to": target})
			}
			output.Success("✓ Daily risk: %s → %s", FormatUSD(current), FormatUSD(target))
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Show the suggestion without writing it")

	return cmd
}

// loadAccountAndTrades fetches the flagged account and its full trade
// history, newest first.
func (app *App) loadAccountAndTrades(ctx context.Context, cmd *cobra.Command) (*models.Account, []models.Trade, error) {
	if app.Store == nil {
		return nil, nil, errors.ErrDatabaseError
	}

	id := app.accountID(cmd)
	if id == "" {
		return nil, nil, fmt.Errorf("no account selected: %w", errors.ErrAccountNotFound)
	}

	acct, err := app.Store.GetAccount(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	trades, err := app.Store.GetTrades(ctx, store.TradeFilter{AccountID: id})
	if err != nil {
		return nil, nil, err
	}

	return acct, trades, nil
}
