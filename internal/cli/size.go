package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradergym/internal/engine"
	"tradergym/internal/models"
	"tradergym/pkg/utils"
)

// riskSettings resolves the risk profile for an account: the account's
// own settings win, then the configured fallback profile, then the
// built-in defaults.
func (app *App) riskSettings(acct *models.Account) models.AccountRiskSettings {
	if acct != nil && acct.RiskSettings != nil {
		return *acct.RiskSettings
	}
	if app.Config.Risk.MaxDailyRisk > 0 {
		return models.AccountRiskSettings{
			MaxDailyRisk:         app.Config.Risk.MaxDailyRisk,
			MaxTradesPerDay:      app.Config.Risk.MaxTradesPerDay,
			MaxContractsPerTrade: app.Config.Risk.MaxContractsPerTrade,
			CalcMode:             models.CalcMode(app.Config.Risk.CalcMode),
			TargetMode:           models.TargetMode(app.Config.Risk.TargetMode),
			RRRatio:              app.Config.Risk.RRRatio,
			FixedSLPoints:        app.Config.Risk.FixedSLPoints,
			FixedTargetPoints:    app.Config.Risk.FixedTargetPoints,
			CommPerContract:      app.Config.Risk.CommPerContract,
			PreferredInstrument:  app.Config.Risk.PreferredInstrument,
		}
	}
	return engine.DefaultRiskSettings()
}

func newSizeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "size",
		Short: "Position sizing dashboard",
		Long: `Compute position size, stop distance, and profit target from the
account's risk protocol.

The sizing is purely protocol-driven: max daily risk divided by trades
per day gives the per-trade budget, and the calc mode decides whether
lots or stop distance flex to fit it.`,
		Example: `  tradergym size
  tradergym size --symbol MES
  tradergym size --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			symbol, _ := cmd.Flags().GetString("symbol")
			all, _ := cmd.Flags().GetBool("all")

			var acct *models.Account
			if app.Store != nil {
				acct, _ = app.Store.GetAccount(ctx, app.accountID(cmd))
			}
			settings := app.riskSettings(acct)

			if symbol == "" {
				symbol = settings.PreferredInstrument
			}
			if symbol == "" {
				symbol = engine.DefaultSymbol
			}

			if all {
				return renderSizingAll(output, &settings)
			}

			inst := engine.Instrument(symbol)
			result := engine.ComputeSizing(&settings, inst)

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Position Sizing - %s (%s)", inst.Symbol, inst.Name)
			output.Println()
			output.Printf("  Contracts:       %d\n", result.Lots)
			output.Printf("  Stop:            %s (%s risk)\n", FormatPoints(result.StopPoints), FormatUSD(result.RiskPerTrade))
			output.Printf("  Target:          %s\n", FormatPoints(result.TargetPoints))
			output.Printf("  Target Net:      %s\n", output.Green(FormatUSD(result.TargetNet)))
			output.Printf("  Commissions:     %s round-trip\n", FormatUSD(result.CommissionsPerTrade))
			output.Println()
			output.Printf("  Daily Budget:    %s over %d trades\n", FormatUSD(settings.MaxDailyRisk), settings.MaxTradesPerDay)
			output.Printf("  Daily Potential: %s\n", output.Green(FormatUSD(result.DailyPotential)))

			output.Println()
			if utils.IsSessionOpen() {
				output.Dim("Session: %s", utils.GetSessionStatus())
			} else {
				output.Warning("Session: %s (next open %s)", utils.GetSessionStatus(),
					utils.NextSessionOpen().Format("Mon 15:04 MST"))
			}

			return nil
		},
	}

	cmd.Flags().String("symbol", "", "Instrument symbol (default: preferred instrument)")
	cmd.Flags().Bool("all", false, "Show sizing across all supported instruments")

	return cmd
}

func renderSizingAll(output *Output, settings *models.AccountRiskSettings) error {
	instruments := engine.Instruments()

	if output.IsJSON() {
		results := make([]engine.SizingResult, 0, len(instruments))
		for _, inst := range instruments {
			results = append(results, engine.ComputeSizing(settings, inst))
		}
		return output.JSON(results)
	}

	output.Bold("Position Sizing - All Instruments")
	output.Printf("  Per-trade budget: %s\n\n", FormatUSD(settings.MaxDailyRisk/float64(settings.MaxTradesPerDay)))

	table := NewTable(output, "Symbol", "Lots", "Stop", "Target", "Target Net", "Comms")
	for _, inst := range instruments {
		r := engine.ComputeSizing(settings, inst)
		table.AddRow(
			inst.Symbol,
			fmt.Sprintf("%d", r.Lots),
			FormatPoints(r.StopPoints),
			FormatPoints(r.TargetPoints),
			output.FormatPnL(r.TargetNet),
			FormatUSD(r.CommissionsPerTrade),
		)
	}
	table.Render()

	return nil
}
