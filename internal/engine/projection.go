package engine

import (
	"math"

	"tradergym/internal/models"
)

// Projection simulation limits.
const (
	projectionMaxDays = 100
	// DaysUnreachable is the sentinel returned when expectancy can
	// never reach the target.
	DaysUnreachable = 999
)

// ProjectionPoint is one simulated day of the forward equity curve.
type ProjectionPoint struct {
	Day              int
	Equity           float64
	LiquidationPoint float64
}

// ProjectionResult is the forward simulation of a challenge account
// under an expectancy model, run for both a user-chosen win rate and
// the observed historical one.
type ProjectionResult struct {
	DaysToTarget      int
	ManualSeries      []ProjectionPoint
	HistoricalSeries  []ProjectionPoint
	HistoricalWinRate float64
	ProfitProgressPct float64
}

// ComputeProjection forward-simulates the account's equity curve toward
// targetGoal. manualWinRate is the user's what-if scenario; the
// historical series replays the same model with the win rate observed
// in the supplied trade history.
func ComputeProjection(acct *models.Account, trades []models.Trade, targetGoal, manualWinRate float64) ProjectionResult {
	if acct == nil {
		return ProjectionResult{DaysToTarget: DaysUnreachable}
	}

	settings := DefaultRiskSettings()
	if acct.RiskSettings != nil {
		settings = *acct.RiskSettings
	}
	tradesPerDay := float64(orOneInt(settings.MaxTradesPerDay))
	riskPerTrade := math.Round(settings.MaxDailyRisk / tradesPerDay)
	rewardPerTrade := riskPerTrade * settings.RRRatio

	expectancy := func(winRate float64) float64 {
		return tradesPerDay * (winRate*rewardPerTrade - (1-winRate)*riskPerTrade)
	}

	currentPnL := netPnL(trades)
	currentEquity := acct.InitialBalance + currentPnL
	historicalWinRate := observedWinRate(trades)

	manualExp := expectancy(manualWinRate)
	daysToTarget := DaysUnreachable
	if remaining := targetGoal - currentEquity; manualExp > 0 {
		daysToTarget = int(math.Ceil(remaining / manualExp))
		if daysToTarget < 0 {
			daysToTarget = 0
		}
	}

	progressSpan := orOne(targetGoal - acct.InitialBalance)
	progress := clamp(currentPnL/progressSpan*100, 0, 100)

	return ProjectionResult{
		DaysToTarget:      daysToTarget,
		ManualSeries:      simulate(acct, currentEquity, manualExp, targetGoal),
		HistoricalSeries:  simulate(acct, currentEquity, expectancy(historicalWinRate), targetGoal),
		HistoricalWinRate: historicalWinRate,
		ProfitProgressPct: progress,
	}
}

// simulate advances equity by the daily expectancy until the target or
// the iteration cap is hit, recomputing the liquidation threshold with
// the account's drawdown rule each day.
func simulate(acct *models.Account, startEquity, dailyExpectancy, target float64) []ProjectionPoint {
	equity := startEquity
	peak := startEquity
	series := make([]ProjectionPoint, 0, projectionMaxDays)

	for day := 1; day <= projectionMaxDays; day++ {
		equity += dailyExpectancy
		peak = math.Max(peak, equity)
		series = append(series, ProjectionPoint{
			Day:              day,
			Equity:           equity,
			LiquidationPoint: liquidationPoint(acct, peak),
		})
		if equity >= target {
			break
		}
	}
	return series
}

// observedWinRate is wins over decided trades (break-evens excluded);
// zero when the history is empty.
func observedWinRate(trades []models.Trade) float64 {
	var wins, decided int
	for _, t := range trades {
		switch t.Status {
		case models.StatusWin:
			wins++
			decided++
		case models.StatusLoss:
			decided++
		}
	}
	if decided == 0 {
		return 0
	}
	return float64(wins) / float64(decided)
}
