package engine

import (
	"math"

	"tradergym/internal/models"
)

// GatekeeperResult is the pre-session readiness score and verdict, with
// the component points exposed for rendering.
type GatekeeperResult struct {
	Score            int
	Verdict          models.Verdict
	HRVPoints        float64
	SleepPoints      float64
	SubjectivePoints float64
}

// Verdict thresholds. Red means no trading today.
const (
	verdictGreenMin  = 80
	verdictYellowMin = 50
)

// ComputeGatekeeper scores a day's physiological and subjective inputs
// into a Green/Yellow/Red verdict. A missing prep record is an
// automatic Red: no check-in, no clearance.
func ComputeGatekeeper(prep *models.DailyPrepData) GatekeeperResult {
	if prep == nil {
		return GatekeeperResult{Verdict: models.VerdictRed}
	}

	baseline := orOne(prep.HRVBaseline)
	value := orOne(prep.HRVValue)
	deviation := math.Abs(value/baseline - 1)

	var hrvPoints float64
	switch {
	case deviation <= 0.06:
		hrvPoints = 50
	case deviation <= 0.12:
		hrvPoints = 35
	case deviation <= 0.20:
		hrvPoints = 15
	}

	var sleepPoints float64
	switch {
	case prep.SleepHours >= 7.5:
		sleepPoints = 30
	case prep.SleepHours >= 6.5:
		sleepPoints = 20
	case prep.SleepHours >= 5.5:
		sleepPoints = 10
	}

	subjective := prep.PhysicalScore + prep.MentalScore + prep.EmotionalScore + prep.ProcessScore
	subjPoints := clamp(float64(subjective), 0, 40) / 40 * 20

	total := int(math.Round(hrvPoints + sleepPoints + subjPoints))

	verdict := models.VerdictRed
	switch {
	case total >= verdictGreenMin:
		verdict = models.VerdictGreen
	case total >= verdictYellowMin:
		verdict = models.VerdictYellow
	}

	return GatekeeperResult{
		Score:            total,
		Verdict:          verdict,
		HRVPoints:        hrvPoints,
		SleepPoints:      sleepPoints,
		SubjectivePoints: subjPoints,
	}
}
