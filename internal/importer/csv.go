// Package importer loads journaled trades from CSV exports and
// free-text notes.
package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"tradergym/internal/errors"
	"tradergym/internal/models"
)

// csvTradeRow mirrors one row of a journal CSV export.
type csvTradeRow struct {
	Date            string  `csv:"date"`
	Symbol          string  `csv:"symbol"`
	PnLNet          float64 `csv:"pnl_net"`
	DisciplineScore int     `csv:"discipline_score"`
	ExecutionError  string  `csv:"execution_error"`
	AccordingToPlan string  `csv:"according_to_plan"`
	Notes           string  `csv:"notes"`
}

// CSVResult summarizes an import run.
type CSVResult struct {
	Trades  []models.Trade
	Skipped []error
}

// ParseCSV reads a journal CSV export into trades for the given
// account. Rows that fail validation are collected in Skipped rather
// than aborting the run.
func ParseCSV(r io.Reader, accountID string) (*CSVResult, error) {
	var rows []csvTradeRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, errors.Wrap(errors.ErrImportFailed, err.Error())
	}

	result := &CSVResult{}
	base := time.Now().UnixNano()
	for i, row := range rows {
		trade, err := rowToTrade(row, accountID, fmt.Sprintf("TRD-%d-%03d", base, i))
		if err != nil {
			result.Skipped = append(result.Skipped, errors.NewImportError("csv", i+2, "invalid row", err))
			continue
		}
		result.Trades = append(result.Trades, trade)
	}
	return result, nil
}

// TradeFields is one trade's raw inputs before validation, as typed in
// by the trader or extracted from free text.
type TradeFields struct {
	Date            string
	Symbol          string
	PnLNet          float64
	DisciplineScore int
	ExecutionError  string
	AccordingToPlan string
	Notes           string
}

// TradeFromFields validates raw trade inputs through the same rules as
// a CSV row and assigns a fresh ID.
func TradeFromFields(f TradeFields, accountID string) (*models.Trade, error) {
	trade, err := rowToTrade(csvTradeRow{
		Date:            f.Date,
		Symbol:          f.Symbol,
		PnLNet:          f.PnLNet,
		DisciplineScore: f.DisciplineScore,
		ExecutionError:  f.ExecutionError,
		AccordingToPlan: f.AccordingToPlan,
		Notes:           f.Notes,
	}, accountID, fmt.Sprintf("TRD-%d", time.Now().UnixNano()))
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

func rowToTrade(row csvTradeRow, accountID, id string) (models.Trade, error) {
	date := strings.TrimSpace(row.Date)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return models.Trade{}, errors.NewValidationError("date", row.Date, "must be YYYY-MM-DD")
	}

	discipline := row.DisciplineScore
	if discipline == 0 {
		discipline = 3
	}
	if discipline < 1 || discipline > 5 {
		return models.Trade{}, errors.NewValidationError("discipline_score", row.DisciplineScore, "must be between 1 and 5")
	}

	execErr, err := parseExecutionError(row.ExecutionError)
	if err != nil {
		return models.Trade{}, err
	}

	return models.Trade{
		ID:                id,
		AccountID:         accountID,
		Date:              date,
		Symbol:            strings.ToUpper(strings.TrimSpace(row.Symbol)),
		PnLNet:            row.PnLNet,
		Status:            models.StatusFromPnL(row.PnLNet),
		DisciplineScore:   discipline,
		ExecutionError:    execErr,
		IsAccordingToPlan: parsePlanAdherence(row.AccordingToPlan),
		Notes:             strings.TrimSpace(row.Notes),
	}, nil
}

func parseExecutionError(s string) (models.ExecutionError, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return models.ErrorNone, nil
	case "stop-loss sabotage", "stop loss sabotage", "sabotage":
		return models.ErrorStopLossSabotage, nil
	case "revenge trading", "revenge":
		return models.ErrorRevengeTrading, nil
	case "early exit":
		return models.ErrorEarlyExit, nil
	case "oversizing":
		return models.ErrorOversizing, nil
	case "chased entry", "chasing":
		return models.ErrorChasedEntry, nil
	}
	return "", errors.NewValidationError("execution_error", s, "unknown execution error")
}

func parsePlanAdherence(s string) models.PlanAdherence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "da", "1":
		return models.PlanYes
	case "no", "false", "nu", "0":
		return models.PlanNo
	}
	return models.PlanNone
}
