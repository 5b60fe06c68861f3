package engine

import (
	"testing"

	"tradergym/internal/models"
)

const tgDate = "2025-03-04"

func tgPrep() *models.DailyPrepData {
	return &models.DailyPrepData{
		Date:                tgDate,
		GatekeeperScore:     90,
		UncertaintyAccepted: true,
		DailyRiskAmount:     400,
		JournalCompleted:    true,
	}
}

func TestComputeTGScore_NoPrepScoresZero(t *testing.T) {
	trades := []models.Trade{
		{ID: "a", Date: tgDate, DisciplineScore: 5, ExecutionError: models.ErrorRevengeTrading},
	}
	got := ComputeTGScore(trades, nil, tgDate)
	if got != (TGScoreResult{}) {
		t.Errorf("no prep: got %+v, want zero result without veto", got)
	}
}

func TestComputeTGScore_FullDay(t *testing.T) {
	trades := []models.Trade{
		{ID: "a", Date: tgDate, PnLNet: 250, DisciplineScore: 4,
			Notes: "waited for the level, took the A setup"},
		{ID: "b", Date: tgDate, PnLNet: -100, DisciplineScore: 5, Notes: "ok"},
		{ID: "other-day", Date: "2025-03-03", PnLNet: -900, DisciplineScore: 1,
			ExecutionError: models.ErrorRevengeTrading},
	}
	got := ComputeTGScore(trades, tgPrep(), tgDate)

	// 90*0.6 + 40
	if !almostEqual(got.Prep, 94) {
		t.Errorf("Prep = %v, want 94", got.Prep)
	}
	// avg(4,5)*20
	if !almostEqual(got.Execution, 90) {
		t.Errorf("Execution = %v, want 90", got.Execution)
	}
	// 1 of 2 trades reviewed (>=15 chars) -> 25, journal wrap -> 50
	if !almostEqual(got.Review, 75) {
		t.Errorf("Review = %v, want 75", got.Review)
	}
	if got.RiskIntegrity != 100 {
		t.Errorf("RiskIntegrity = %v, want 100", got.RiskIntegrity)
	}
	if got.Consistency != 90 {
		t.Errorf("Consistency = %v, want 90", got.Consistency)
	}
	// round((94+90+75+100+90)/5) = round(89.8)
	if got.Total != 90 {
		t.Errorf("Total = %d, want 90", got.Total)
	}
	if got.Veto {
		t.Error("veto should not trip without a violation on the scored day")
	}
}

func TestComputeTGScore_NoTradesDay(t *testing.T) {
	got := ComputeTGScore(nil, tgPrep(), tgDate)

	if got.Execution != 100 {
		t.Errorf("Execution = %v, want 100 on a no-trade day", got.Execution)
	}
	// notes axis defaults to 50, journal wrap adds 50
	if got.Review != 100 {
		t.Errorf("Review = %v, want 100", got.Review)
	}
	if got.Veto {
		t.Error("no trades, no veto")
	}
}

func TestComputeTGScore_VetoTracksViolations(t *testing.T) {
	base := []models.Trade{
		{ID: "a", Date: tgDate, DisciplineScore: 4, Notes: "clean execution on plan"},
	}

	if got := ComputeTGScore(base, tgPrep(), tgDate); got.Veto {
		t.Error("clean day should not veto")
	}

	for _, violation := range []models.ExecutionError{models.ErrorStopLossSabotage, models.ErrorRevengeTrading} {
		trades := append([]models.Trade{}, base...)
		trades = append(trades, models.Trade{ID: "v", Date: tgDate, DisciplineScore: 2, ExecutionError: violation})
		got := ComputeTGScore(trades, tgPrep(), tgDate)
		if !got.Veto {
			t.Errorf("%s: veto = false, want true", violation)
		}
		if got.RiskIntegrity != 0 {
			t.Errorf("%s: RiskIntegrity = %v, want 0", violation, got.RiskIntegrity)
		}
		if got.Total == 0 {
			t.Errorf("%s: veto must not zero the composite", violation)
		}
	}

	// A lesser error is not a veto offense.
	trades := append([]models.Trade{}, base...)
	trades = append(trades, models.Trade{ID: "e", Date: tgDate, DisciplineScore: 3, ExecutionError: models.ErrorEarlyExit})
	if got := ComputeTGScore(trades, tgPrep(), tgDate); got.Veto {
		t.Error("early exit should not veto")
	}
}

func TestComputeTGScore_ConsistencyBlowsOnOversizedLoss(t *testing.T) {
	trades := []models.Trade{
		{ID: "a", Date: tgDate, PnLNet: -500, DisciplineScore: 3, Status: models.StatusLoss},
	}
	got := ComputeTGScore(trades, tgPrep(), tgDate) // daily risk budget 400
	if got.Consistency != 20 {
		t.Errorf("Consistency = %v, want 20 when the day loss exceeds the budget", got.Consistency)
	}

	// Default budget of 1000 applies when the prep has none.
	prep := tgPrep()
	prep.DailyRiskAmount = 0
	if got := ComputeTGScore(trades, prep, tgDate); got.Consistency != 90 {
		t.Errorf("Consistency = %v, want 90 under the default budget", got.Consistency)
	}
}
