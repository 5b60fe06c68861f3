package engine

import (
	"math"

	"tradergym/internal/models"
)

// TiltLevel bands the tilt score into display states.
type TiltLevel string

const (
	TiltOptimal  TiltLevel = "OPTIMAL"
	TiltMild     TiltLevel = "MILD"
	TiltFriction TiltLevel = "FRICTION"
	TiltOverload TiltLevel = "OVERLOAD"
)

// TiltResult is the intraday risk-of-error heat score for "today".
type TiltResult struct {
	Score       int
	Level       TiltLevel
	Label       string
	Description string
}

// tiltBands are evaluated high to low; the first matching band wins.
var tiltBands = []struct {
	above       int
	level       TiltLevel
	label       string
	description string
}{
	{75, TiltOverload, "Overload", "Error probability critical. Close the platform and step away."},
	{40, TiltFriction, "Friction", "Decision quality degrading. Reduce size or stop for the day."},
	{15, TiltMild, "Mild Tilt", "Early warning signs. Slow down and re-check the plan before the next entry."},
	{-1, TiltOptimal, "Optimal", "Clear-headed. Execute the plan as prepared."},
}

// ComputeTilt scores the current risk of an unforced error from today's
// running P&L, the consecutive-loss streak, and prep completeness.
// today is the calendar date the caller considers current; the streak
// walk runs over the whole supplied history in canonical recency order,
// so a loss streak carried in from yesterday still registers.
func ComputeTilt(trades []models.Trade, prep *models.DailyPrepData, maxDailyRisk float64, today string) TiltResult {
	var score float64

	todayPnL := netPnL(tradesOn(trades, today))
	if todayPnL < 0 {
		score += math.Min(math.Abs(todayPnL)/orOne(maxDailyRisk)*50, 50)
	}

	streak := 0
	for _, t := range sortedDesc(trades) {
		if t.Status != models.StatusLoss {
			break
		}
		streak++
	}
	score += math.Min(float64(streak)*15, 30)

	if prep == nil {
		score += 20
	} else if prep.HabitDisciplineScore < 5 {
		score += 15
	}

	final := int(math.Min(math.Round(score), 100))

	for _, band := range tiltBands {
		if final > band.above {
			return TiltResult{Score: final, Level: band.level, Label: band.label, Description: band.description}
		}
	}
	return TiltResult{Score: final, Level: TiltOptimal}
}
