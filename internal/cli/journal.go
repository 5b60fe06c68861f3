package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradergym/internal/engine"
	"tradergym/internal/errors"
	"tradergym/internal/importer"
	"tradergym/internal/logging"
	"tradergym/internal/models"
	"tradergym/internal/notify"
	"tradergym/internal/performance"
	"tradergym/internal/store"
)

func newJournalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Trade journal management",
		Long:  "Log, import, and review journaled trades.",
	}

	cmd.AddCommand(newJournalLogCmd(app))
	cmd.AddCommand(newJournalImportCmd(app))
	cmd.AddCommand(newJournalShowCmd(app))
	cmd.AddCommand(newJournalSummaryCmd(app))

	return cmd
}

func newJournalLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a trade",
		Long: `Log one executed trade with its discipline metadata.

With --text and a configured AI parser, the trade is extracted from a
free-form journal sentence instead of flags.`,
		Example: `  tradergym journal log --symbol MNQ --pnl 240 --discipline 4 --plan yes
  tradergym journal log --symbol MES --pnl -125 --discipline 2 --error "revenge" --notes "chased the reclaim after the stop"
  tradergym journal log --text "took MNQ long at the open, stopped out for -130, moved my stop twice"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			if app.Store == nil {
				return errors.ErrDatabaseError
			}

			text, _ := cmd.Flags().GetString("text")
			accountID := app.accountID(cmd)

			var trade *models.Trade
			var err error
			if text != "" {
				if app.Parser == nil {
					output.Error("AI parser not configured. Set the OpenAI key in credentials.toml.")
					return errors.ErrParserUnavailable
				}
				trade, err = app.Parser.Parse(ctx, text, accountID)
				if err != nil {
					output.Error("Failed to parse journal text: %v", err)
					return err
				}
			} else {
				trade, err = tradeFromFlags(cmd, accountID)
				if err != nil {
					return err
				}
			}

			if err := app.Store.LogTrade(ctx, trade); err != nil {
				output.Error("Failed to save trade: %v", err)
				return err
			}

			logging.LogTrade(app.Logger, trade.ID, trade.Symbol, trade.PnLNet, trade.DisciplineScore)

			if output.IsJSON() {
				return output.JSON(trade)
			}

			output.Success("✓ Trade logged: %s", trade.ID)
			output.Printf("  %s  %s  %s  discipline %d/5\n",
				trade.Date, trade.Symbol, output.FormatPnL(trade.PnLNet), trade.DisciplineScore)
			if trade.HasViolation() {
				output.Println()
				output.Warning("⚠ %s recorded. Today's discipline score is vetoed.", trade.ExecutionError)
			}
			if engine.IsToxicWin(*trade) {
				output.Println()
				output.Warning("⚠ Toxic win: profitable, but the process was broken.")
			}
			return nil
		},
	}

	cmd.Flags().String("date", "", "Trade date (default: today)")
	cmd.Flags().String("symbol", "", "Instrument symbol")
	cmd.Flags().Float64("pnl", 0, "Net P&L after commissions")
	cmd.Flags().Int("discipline", 3, "Discipline score (1-5)")
	cmd.Flags().String("error", "", "Execution error (sabotage, revenge, early exit, oversizing, chasing)")
	cmd.Flags().String("plan", "", "According to plan (yes/no)")
	cmd.Flags().String("notes", "", "Review notes")
	cmd.Flags().String("text", "", "Free-form journal text for the AI parser")

	return cmd
}

// tradeFromFlags builds a trade from the log command's flags, routed
// through the same row validation the CSV importer uses.
func tradeFromFlags(cmd *cobra.Command, accountID string) (*models.Trade, error) {
	date, _ := cmd.Flags().GetString("date")
	symbol, _ := cmd.Flags().GetString("symbol")
	pnl, _ := cmd.Flags().GetFloat64("pnl")
	discipline, _ := cmd.Flags().GetInt("discipline")
	execErr, _ := cmd.Flags().GetString("error")
	plan, _ := cmd.Flags().GetString("plan")
	notes, _ := cmd.Flags().GetString("notes")

	if date == "" {
		date = Today()
	}
	if symbol == "" {
		symbol = engine.DefaultSymbol
	}

	return importer.TradeFromFields(importer.TradeFields{
		Date:            date,
		Symbol:          symbol,
		PnLNet:          pnl,
		DisciplineScore: discipline,
		ExecutionError:  execErr,
		AccordingToPlan: plan,
		Notes:           notes,
	}, accountID)
}

func newJournalImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import trades from a CSV export",
		Long: `Import a journal CSV export. Rows that fail validation are skipped
and reported; valid rows are written in batches.

Expected columns: date, symbol, pnl_net, discipline_score,
execution_error, according_to_plan, notes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
			defer cancel()

			if app.Store == nil {
				return errors.ErrDatabaseError
			}

			path := args[0]
			accountID := app.accountID(cmd)
			start := time.Now()

			f, err := os.Open(path)
			if err != nil {
				return errors.Wrap(errors.ErrImportFailed, err.Error())
			}
			defer f.Close()

			result, err := importer.ParseCSV(f, accountID)
			if err != nil {
				logging.LogImport(app.Logger, path, 0, 0, time.Since(start), err)
				output.Error("Import failed: %v", err)
				return err
			}

			batcher := performance.NewBatchProcessor(100, func(trades []models.Trade) error {
				return app.Store.LogTrades(ctx, trades)
			})
			for _, t := range result.Trades {
				if err := batcher.Add(t); err != nil {
					return err
				}
			}
			if err := batcher.Flush(); err != nil {
				return err
			}

			logging.LogImport(app.Logger, path, len(result.Trades), len(result.Skipped), time.Since(start), nil)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"imported": len(result.Trades),
					"skipped":  len(result.Skipped),
				})
			}

			output.Success("✓ Imported %d trades (%d skipped)", len(result.Trades), len(result.Skipped))
			for _, skip := range result.Skipped {
				output.Dim("  %v", skip)
			}
			return nil
		},
	}

	return cmd
}

func newJournalShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show journaled trades",
		Example: `  tradergym journal show
  tradergym journal show --date 2026-08-28
  tradergym journal show --symbol MNQ --limit 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if app.Store == nil {
				return errors.ErrDatabaseError
			}

			date, _ := cmd.Flags().GetString("date")
			symbol, _ := cmd.Flags().GetString("symbol")
			limit, _ := cmd.Flags().GetInt("limit")

			trades, err := app.Store.GetTrades(ctx, store.TradeFilter{
				AccountID: app.accountID(cmd),
				Date:      date,
				Symbol:    strings.ToUpper(symbol),
				Limit:     limit,
			})
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}

			if len(trades) == 0 {
				output.Info("No trades found.")
				return nil
			}

			table := NewTable(output, "Date", "Symbol", "P&L", "Disc", "Error", "Plan", "Notes")
			for _, t := range trades {
				errLabel := string(t.ExecutionError)
				if t.ExecutionError == models.ErrorNone {
					errLabel = "-"
				} else if t.HasViolation() {
					errLabel = output.Red(errLabel)
				}
				table.AddRow(
					t.Date,
					t.Symbol,
					output.FormatPnL(t.PnLNet),
					fmt.Sprintf("%d/5", t.DisciplineScore),
					errLabel,
					string(t.IsAccordingToPlan),
					TruncateString(t.Notes, 36),
				)
			}
			table.Render()

			return nil
		},
	}

	cmd.Flags().String("date", "", "Filter by date (YYYY-MM-DD)")
	cmd.Flags().String("symbol", "", "Filter by symbol")
	cmd.Flags().Int("limit", 50, "Maximum rows")

	return cmd
}

func newJournalSummaryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "End-of-day summary",
		Long: `Summarize one trading day: outcomes, net P&L, and the discipline
composite. Sends the summary through the configured notification
channels.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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

			tg := engine.ComputeTGScore(trades, prep, date)

			var wins, losses, total int
			var pnl float64
			for _, t := range trades {
				if t.Date != date {
					continue
				}
				total++
				pnl += t.PnLNet
				if t.IsWin() {
					wins++
				} else if t.IsLoss() {
					losses++
				}
			}

			summary := &notify.DailySummary{
				Date:          date,
				AccountName:   acct.Name,
				TotalTrades:   total,
				WinningTrades: wins,
				LosingTrades:  losses,
				TotalPnL:      pnl,
				TGScore:       tg.Total,
				Veto:          tg.Veto,
			}

			if err := app.Notifier.SendDailySummary(ctx, summary); err != nil {
				app.Logger.Warn().Err(err).Msg("Daily summary not delivered")
			}

			if output.IsJSON() {
				return output.JSON(summary)
			}

			output.Bold("Daily Summary - %s (%s)", date, acct.Name)
			output.Println()
			output.Printf("  Trades:       %d (%dW / %dL)\n", total, wins, losses)
			output.Printf("  Net P&L:      %s\n", output.FormatPnL(pnl))
			if tg.Veto {
				output.Printf("  Discipline:   %d/100 %s\n", tg.Total, output.Red("[VETO]"))
			} else {
				output.Printf("  Discipline:   %d/100\n", tg.Total)
			}

			return nil
		},
	}

	cmd.Flags().String("date", "", "Date to summarize (default: today)")

	return cmd
}
