// Package engine implements the discipline and risk protocol engine:
// position sizing, drawdown modeling, the readiness gate, behavioral
// scoring, tilt detection, and challenge projection.
//
// Every function is a pure function of the snapshots passed in plus an
// explicitly supplied "today" date. The engine holds no state, reads no
// clock, and never mutates its inputs; callers own persistence and
// caching. All functions are total: sparse or out-of-range inputs fall
// back to documented defaults instead of failing.
package engine

import (
	"math"
	"sort"

	"tradergym/internal/models"
)

// sortedDesc returns a copy of trades in canonical recency order:
// calendar date descending, trade ID descending as tie-break. This is
// the one ordering used everywhere recency matters (rolling windows,
// streak walks).
func sortedDesc(trades []models.Trade) []models.Trade {
	out := make([]models.Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// sortedAsc returns a copy of trades in replay order: date ascending,
// trade ID ascending as tie-break.
func sortedAsc(trades []models.Trade) []models.Trade {
	out := make([]models.Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// tradesOn filters trades to a single calendar date.
func tradesOn(trades []models.Trade, date string) []models.Trade {
	var out []models.Trade
	for _, t := range trades {
		if t.Date == date {
			out = append(out, t)
		}
	}
	return out
}

// netPnL sums net P&L over a slice of trades.
func netPnL(trades []models.Trade) float64 {
	var sum float64
	for _, t := range trades {
		sum += t.PnLNet
	}
	return sum
}

// clamp restricts a value to the given range.
func clamp(value, minVal, maxVal float64) float64 {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}

// orOne substitutes 1 for a zero or negative denominator.
func orOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// orOneInt substitutes 1 for a zero or negative count.
func orOneInt(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// snap rounds points to the nearest tick increment.
func snap(points, tick float64) float64 {
	tick = orOne(tick)
	return math.Round(points/tick) * tick
}
