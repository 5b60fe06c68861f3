package engine

import (
	"math"

	"tradergym/internal/models"
)

// DrawdownResult is the replayed equity state of one account.
type DrawdownResult struct {
	CurrentEquity       float64
	PeakEquity          float64
	LiquidationPoint    float64
	AvailableRiskBuffer float64
	// SuggestedMaxDailyRisk is the auto-throttle target for the
	// account's daily risk budget, always computed; compare against the
	// current setting (or use SuggestDailyRisk) to decide on a write.
	SuggestedMaxDailyRisk float64
}

// ComputeDrawdown replays an account's trades in date order and returns
// running equity, the high-water mark, the liquidation threshold, and
// the available-risk buffer.
//
// The peak ratchets upward by each winning trade rather than tracking
// the cumulative equity path, so losses never pull future highs down:
// a 1200 win after a 500 loss still lifts the peak by the full 1200.
func ComputeDrawdown(acct *models.Account, trades []models.Trade) DrawdownResult {
	if acct == nil {
		return DrawdownResult{}
	}

	equity := acct.InitialBalance
	peak := acct.InitialBalance
	for _, t := range sortedAsc(trades) {
		equity += t.PnLNet
		if t.PnLNet > 0 {
			peak += t.PnLNet
		}
	}

	liquidation := liquidationPoint(acct, peak)
	buffer := math.Max(equity-liquidation, 0)

	return DrawdownResult{
		CurrentEquity:         equity,
		PeakEquity:            peak,
		LiquidationPoint:      liquidation,
		AvailableRiskBuffer:   buffer,
		SuggestedMaxDailyRisk: throttleTarget(buffer),
	}
}

// liquidationPoint applies the account's drawdown rule to a given peak.
// Static accounts breach at a fixed floor; trailing accounts follow the
// peak, and payout accounts additionally lock the threshold at
// initialBalance + trailingStopThreshold once the trail passes it.
func liquidationPoint(acct *models.Account, peak float64) float64 {
	if acct.DrawdownType == models.DrawdownStatic {
		return acct.InitialBalance - acct.MaxDrawdown
	}
	liq := peak - acct.MaxDrawdown
	if acct.IsPA {
		liq = math.Min(liq, acct.InitialBalance+acct.TrailingStopThreshold)
	}
	return liq
}

// throttleTarget maps the available-risk buffer to a daily risk budget:
// 10% of the buffer, floored, with a $50 floor whenever the buffer can
// still support it.
func throttleTarget(buffer float64) float64 {
	recommended := math.Floor(buffer * 0.10)
	if recommended < 50 && buffer > 500 {
		return 50
	}
	return recommended
}

// SuggestDailyRisk computes the auto-throttle suggestion for an
// account. It returns ok=false when the account's current MaxDailyRisk
// already equals the target, so re-invoking after a write is a no-op;
// persisting the returned value is the caller's separate command.
func SuggestDailyRisk(acct *models.Account, trades []models.Trade) (float64, bool) {
	if acct == nil {
		return 0, false
	}
	target := ComputeDrawdown(acct, trades).SuggestedMaxDailyRisk
	var current float64
	if acct.RiskSettings != nil {
		current = acct.RiskSettings.MaxDailyRisk
	}
	if target == current {
		return target, false
	}
	return target, true
}
