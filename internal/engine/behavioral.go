package engine

import (
	"math"

	"tradergym/internal/models"
)

// Tier is a reputation tier shared by the rolling-form score and the
// lifetime reputation metric.
type Tier string

const (
	TierRecruit  Tier = "RECRUIT"
	TierBuilder  Tier = "BUILDER"
	TierOperator Tier = "OPERATOR"
	TierSentinel Tier = "SENTINEL"
)

// BEResult is the recent-form behavioral equity score. Multiplier scales
// the position size the trader has earned; TierALocked keeps full-size
// ("Tier A") deployment off until the top tier is reached.
type BEResult struct {
	Score       int
	Tier        Tier
	Multiplier  float64
	TierALocked bool
}

// beWindow is the number of most-recent trades the form score considers.
const beWindow = 10

// ComputeBehavioralEquity scores the 10 most-recent trades (canonical
// recency order, across all accounts) into a 0-100 form score. An empty
// history is probation: half score, half multiplier, size locked.
func ComputeBehavioralEquity(trades []models.Trade) BEResult {
	if len(trades) == 0 {
		return BEResult{Score: 50, Tier: TierRecruit, Multiplier: 0.5, TierALocked: true}
	}

	window := sortedDesc(trades)
	if len(window) > beWindow {
		window = window[:beWindow]
	}

	score := 50.0
	for _, t := range window {
		if t.DisciplineScore >= 4 {
			score += 5
		} else if t.DisciplineScore <= 2 {
			score -= 5
		}
		if t.ExecutionError == models.ErrorStopLossSabotage {
			score -= 25
		}
		if t.IsAccordingToPlan == models.PlanYes {
			score += 2
		}
	}
	final := int(clamp(score, 0, 100))

	switch {
	case final >= 80:
		return BEResult{Score: final, Tier: TierSentinel, Multiplier: 1.0, TierALocked: false}
	case final >= 50:
		return BEResult{Score: final, Tier: TierBuilder, Multiplier: 0.75, TierALocked: true}
	default:
		return BEResult{Score: final, Tier: TierRecruit, Multiplier: 0.25, TierALocked: true}
	}
}

// ReputationResult is the lifetime reputation metric. Unlike the form
// score it is unbounded and purely a display label; it never gates size.
type ReputationResult struct {
	Score       int
	Tier        Tier
	ProgressPct float64 // linear progress toward the next tier
}

// reputationThresholds are evaluated high to low.
var reputationThresholds = []struct {
	min  float64
	tier Tier
}{
	{25000, TierSentinel},
	{10000, TierOperator},
	{5000, TierBuilder},
	{0, TierRecruit},
}

// ComputeReputation folds lifetime P&L and average discipline into the
// cumulative reputation score and its tier progress.
func ComputeReputation(trades []models.Trade) ReputationResult {
	var totalPnL, discSum float64
	for _, t := range trades {
		totalPnL += t.PnLNet
		discSum += float64(t.DisciplineScore)
	}
	var avgDiscipline float64
	if len(trades) > 0 {
		avgDiscipline = discSum / float64(len(trades))
	}

	score := math.Round(math.Max(0, totalPnL*0.1) + avgDiscipline*150)

	for i, th := range reputationThresholds {
		if score >= th.min {
			progress := 100.0
			if i > 0 {
				span := reputationThresholds[i-1].min - th.min
				progress = clamp((score-th.min)/span*100, 0, 100)
			}
			return ReputationResult{Score: int(score), Tier: th.tier, ProgressPct: progress}
		}
	}
	return ReputationResult{Score: int(score), Tier: TierRecruit}
}

// IsToxicWin reports whether a trade was profitable only by sabotaging
// its stop-loss. Toxic wins are excluded from "good example" surfaces.
func IsToxicWin(t models.Trade) bool {
	return t.PnLNet > 0 && t.ExecutionError == models.ErrorStopLossSabotage
}
