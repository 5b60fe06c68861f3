package engine

import (
	"fmt"
	"testing"

	"tradergym/internal/models"
)

// cleanWindow builds n identically-dated, plan-following trades with
// top discipline and no execution errors.
func cleanWindow(n int) []models.Trade {
	trades := make([]models.Trade, n)
	for i := range trades {
		trades[i] = models.Trade{
			ID:                fmt.Sprintf("t%02d", i),
			Date:              "2025-03-04",
			PnLNet:            150,
			Status:            models.StatusWin,
			DisciplineScore:   5,
			ExecutionError:    models.ErrorNone,
			IsAccordingToPlan: models.PlanYes,
		}
	}
	return trades
}

func TestComputeBehavioralEquity_EmptyHistoryIsProbation(t *testing.T) {
	got := ComputeBehavioralEquity(nil)
	want := BEResult{Score: 50, Tier: TierRecruit, Multiplier: 0.5, TierALocked: true}
	if got != want {
		t.Errorf("empty history = %+v, want %+v", got, want)
	}
}

func TestComputeBehavioralEquity_PerfectWindowIsSentinel(t *testing.T) {
	// 50 base + 10*5 discipline + 10*2 plan = 120, clamped to 100.
	got := ComputeBehavioralEquity(cleanWindow(10))
	want := BEResult{Score: 100, Tier: TierSentinel, Multiplier: 1.0, TierALocked: false}
	if got != want {
		t.Errorf("perfect window = %+v, want %+v", got, want)
	}
}

func TestComputeBehavioralEquity_SabotageCostsExactly25(t *testing.T) {
	neutral := func() []models.Trade {
		trades := make([]models.Trade, 10)
		for i := range trades {
			trades[i] = models.Trade{
				ID:              fmt.Sprintf("n%02d", i),
				Date:            "2025-03-04",
				DisciplineScore: 3,
				ExecutionError:  models.ErrorNone,
			}
		}
		return trades
	}

	clean := ComputeBehavioralEquity(neutral())

	tainted := neutral()
	tainted[4].ExecutionError = models.ErrorStopLossSabotage
	sabotaged := ComputeBehavioralEquity(tainted)

	if clean.Score-sabotaged.Score != 25 {
		t.Errorf("sabotage penalty = %d, want exactly 25 (%d -> %d)",
			clean.Score-sabotaged.Score, clean.Score, sabotaged.Score)
	}
}

func TestComputeBehavioralEquity_OnlyLastTenCount(t *testing.T) {
	trades := cleanWindow(10)
	// An older sabotage trade must fall outside the rolling window.
	trades = append(trades, models.Trade{
		ID:              "old",
		Date:            "2025-02-01",
		DisciplineScore: 1,
		ExecutionError:  models.ErrorStopLossSabotage,
	})

	with := ComputeBehavioralEquity(trades)
	without := ComputeBehavioralEquity(cleanWindow(10))
	if with != without {
		t.Errorf("trade outside window changed result: %+v vs %+v", with, without)
	}
}

func TestComputeBehavioralEquity_Tiers(t *testing.T) {
	cases := []struct {
		name       string
		discipline int
		wantTier   Tier
		wantMult   float64
		wantLocked bool
	}{
		// 50 + 10*5 = 100
		{"sentinel", 5, TierSentinel, 1.0, false},
		// 50 with no adjustments
		{"builder", 3, TierBuilder, 0.75, true},
		// 50 - 10*5 = 0
		{"recruit", 1, TierRecruit, 0.25, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trades := make([]models.Trade, 10)
			for i := range trades {
				trades[i] = models.Trade{
					ID:              fmt.Sprintf("t%02d", i),
					Date:            "2025-03-04",
					DisciplineScore: tc.discipline,
				}
			}
			got := ComputeBehavioralEquity(trades)
			if got.Tier != tc.wantTier || got.Multiplier != tc.wantMult || got.TierALocked != tc.wantLocked {
				t.Errorf("got %+v, want tier=%s mult=%v locked=%v", got, tc.wantTier, tc.wantMult, tc.wantLocked)
			}
		})
	}
}

func TestComputeReputation(t *testing.T) {
	cases := []struct {
		name     string
		trades   []models.Trade
		want     int
		wantTier Tier
	}{
		{"empty", nil, 0, TierRecruit},
		{
			// max(0, 20000*0.1) + 4*150 = 2600
			"recruit",
			[]models.Trade{
				{ID: "a", PnLNet: 12000, DisciplineScore: 4},
				{ID: "b", PnLNet: 8000, DisciplineScore: 4},
			},
			2600, TierRecruit,
		},
		{
			// negative lifetime P&L contributes nothing: 0 + 5*150 = 750
			"loss floor",
			[]models.Trade{{ID: "a", PnLNet: -9000, DisciplineScore: 5}},
			750, TierRecruit,
		},
		{
			// 10000 + 750 = 10750 -> OPERATOR
			"operator",
			[]models.Trade{{ID: "a", PnLNet: 100000, DisciplineScore: 5}},
			10750, TierOperator,
		},
		{
			// 30000 + 750 -> SENTINEL
			"sentinel",
			[]models.Trade{{ID: "a", PnLNet: 300000, DisciplineScore: 5}},
			30750, TierSentinel,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeReputation(tc.trades)
			if got.Score != tc.want || got.Tier != tc.wantTier {
				t.Errorf("got score=%d tier=%s, want score=%d tier=%s", got.Score, got.Tier, tc.want, tc.wantTier)
			}
		})
	}
}

func TestComputeReputation_Progress(t *testing.T) {
	// Score 2600 sits 52% of the way from 0 to the 5000 BUILDER gate.
	got := ComputeReputation([]models.Trade{
		{ID: "a", PnLNet: 20000, DisciplineScore: 4},
	})
	if !almostEqual(got.ProgressPct, 52) {
		t.Errorf("ProgressPct = %v, want 52", got.ProgressPct)
	}

	// The top tier has nowhere further to go.
	top := ComputeReputation([]models.Trade{{ID: "a", PnLNet: 300000, DisciplineScore: 5}})
	if top.ProgressPct != 100 {
		t.Errorf("sentinel ProgressPct = %v, want 100", top.ProgressPct)
	}
}

func TestIsToxicWin(t *testing.T) {
	toxic := models.Trade{PnLNet: 320, ExecutionError: models.ErrorStopLossSabotage}
	if !IsToxicWin(toxic) {
		t.Error("profitable sabotage trade should be toxic")
	}
	if IsToxicWin(models.Trade{PnLNet: -120, ExecutionError: models.ErrorStopLossSabotage}) {
		t.Error("losing sabotage trade is not a toxic win")
	}
	if IsToxicWin(models.Trade{PnLNet: 320, ExecutionError: models.ErrorNone}) {
		t.Error("clean win is not toxic")
	}
}
