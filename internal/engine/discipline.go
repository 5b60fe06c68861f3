package engine

import (
	"math"

	"tradergym/internal/models"
)

// TGScoreResult is the five-axis daily discipline composite. Veto flags
// a protocol violation on the day; it rides beside the score and does
// not zero it.
type TGScoreResult struct {
	Total         int
	Prep          float64
	Execution     float64
	Review        float64
	RiskIntegrity float64
	Consistency   float64
	Veto          bool
}

// reviewNotesMinLen is the minimum note length that counts as a real
// trade review.
const reviewNotesMinLen = 15

// ComputeTGScore scores one calendar date across the five discipline
// axes. Without a prep record for the date the whole day scores zero
// with no veto: an unprepared day is unscored, not vetoed.
func ComputeTGScore(trades []models.Trade, prep *models.DailyPrepData, date string) TGScoreResult {
	if prep == nil {
		return TGScoreResult{}
	}

	day := tradesOn(trades, date)

	prepAxis := float64(prep.GatekeeperScore) * 0.6
	if prep.UncertaintyAccepted {
		prepAxis += 40
	}

	execution := 100.0
	if len(day) > 0 {
		var discSum float64
		for _, t := range day {
			discSum += float64(t.DisciplineScore)
		}
		execution = discSum / float64(len(day)) * 20
	}

	notesAxis := 50.0
	if len(day) > 0 {
		reviewed := 0
		for _, t := range day {
			if len(t.Notes) >= reviewNotesMinLen {
				reviewed++
			}
		}
		notesAxis = float64(reviewed) / float64(len(day)) * 50
	}
	wrapAxis := 0.0
	if prep.JournalCompleted {
		wrapAxis = 50
	}
	review := notesAxis + wrapAxis

	riskIntegrity := 100.0
	veto := false
	for _, t := range day {
		if t.HasViolation() {
			riskIntegrity = 0
			veto = true
			break
		}
	}

	consistency := 90.0
	dayPnL := netPnL(day)
	riskBudget := prep.DailyRiskAmount
	if riskBudget == 0 {
		riskBudget = 1000
	}
	if dayPnL < 0 && math.Abs(dayPnL) > riskBudget {
		consistency = 20
	}

	total := int(math.Round((prepAxis + execution + review + riskIntegrity + consistency) / 5))

	return TGScoreResult{
		Total:         total,
		Prep:          prepAxis,
		Execution:     execution,
		Review:        review,
		RiskIntegrity: riskIntegrity,
		Consistency:   consistency,
		Veto:          veto,
	}
}
