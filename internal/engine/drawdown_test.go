package engine

import (
	"fmt"
	"testing"

	"tradergym/internal/models"
)

func trailingAccount() *models.Account {
	return &models.Account{
		ID:             "apex-1",
		InitialBalance: 50000,
		MaxDrawdown:    2500,
		DrawdownType:   models.DrawdownTrailing,
	}
}

func TestComputeDrawdown_TrailingReplay(t *testing.T) {
	trades := []models.Trade{
		{ID: "t1", AccountID: "apex-1", Date: "2025-03-03", PnLNet: -500, Status: models.StatusLoss},
		{ID: "t2", AccountID: "apex-1", Date: "2025-03-04", PnLNet: 1200, Status: models.StatusWin},
	}
	got := ComputeDrawdown(trailingAccount(), trades)

	if got.CurrentEquity != 50700 {
		t.Errorf("CurrentEquity = %v, want 50700", got.CurrentEquity)
	}
	if got.PeakEquity != 51200 {
		t.Errorf("PeakEquity = %v, want 51200", got.PeakEquity)
	}
	if got.LiquidationPoint != 48700 {
		t.Errorf("LiquidationPoint = %v, want 48700", got.LiquidationPoint)
	}
	if got.AvailableRiskBuffer != 2000 {
		t.Errorf("AvailableRiskBuffer = %v, want 2000", got.AvailableRiskBuffer)
	}
	// floor(2000 * 0.10)
	if got.SuggestedMaxDailyRisk != 200 {
		t.Errorf("SuggestedMaxDailyRisk = %v, want 200", got.SuggestedMaxDailyRisk)
	}
}

func TestComputeDrawdown_StaticThresholdIgnoresHistory(t *testing.T) {
	acct := &models.Account{
		ID:             "static-1",
		InitialBalance: 100000,
		MaxDrawdown:    3000,
		DrawdownType:   models.DrawdownStatic,
	}
	histories := [][]models.Trade{
		nil,
		{{ID: "a", Date: "2025-01-02", PnLNet: 5000, Status: models.StatusWin}},
		{
			{ID: "a", Date: "2025-01-02", PnLNet: -1500, Status: models.StatusLoss},
			{ID: "b", Date: "2025-01-03", PnLNet: 4200, Status: models.StatusWin},
			{ID: "c", Date: "2025-01-06", PnLNet: -900, Status: models.StatusLoss},
		},
	}
	for i, trades := range histories {
		if got := ComputeDrawdown(acct, trades).LiquidationPoint; got != 97000 {
			t.Errorf("history %d: LiquidationPoint = %v, want 97000", i, got)
		}
	}
}

func TestComputeDrawdown_PeakMonotone(t *testing.T) {
	trades := []models.Trade{
		{ID: "a", Date: "2025-02-03", PnLNet: 300, Status: models.StatusWin},
		{ID: "b", Date: "2025-02-04", PnLNet: -800, Status: models.StatusLoss},
		{ID: "c", Date: "2025-02-05", PnLNet: 150, Status: models.StatusWin},
		{ID: "d", Date: "2025-02-06", PnLNet: -50, Status: models.StatusLoss},
		{ID: "e", Date: "2025-02-07", PnLNet: 900, Status: models.StatusWin},
	}
	acct := trailingAccount()

	prev := acct.InitialBalance
	for i := range trades {
		got := ComputeDrawdown(acct, trades[:i+1])
		if got.PeakEquity < prev {
			t.Fatalf("peak decreased after trade %d: %v -> %v", i, prev, got.PeakEquity)
		}
		prev = got.PeakEquity
	}
}

func TestComputeDrawdown_PayoutAccountCapsTrail(t *testing.T) {
	acct := trailingAccount()
	acct.IsPA = true
	acct.TrailingStopThreshold = 3000

	// Peak 56000: trail 53500 exceeds the 53000 cap.
	trades := []models.Trade{
		{ID: "a", Date: "2025-04-01", PnLNet: 6000, Status: models.StatusWin},
	}
	if got := ComputeDrawdown(acct, trades).LiquidationPoint; got != 53000 {
		t.Errorf("capped LiquidationPoint = %v, want 53000", got)
	}

	// Peak 52000: trail 49500 still below the cap.
	trades[0].PnLNet = 2000
	if got := ComputeDrawdown(acct, trades).LiquidationPoint; got != 49500 {
		t.Errorf("uncapped LiquidationPoint = %v, want 49500", got)
	}
}

func TestComputeDrawdown_BufferNeverNegative(t *testing.T) {
	acct := trailingAccount()
	trades := []models.Trade{
		{ID: "a", Date: "2025-04-01", PnLNet: 2000, Status: models.StatusWin},
		{ID: "b", Date: "2025-04-02", PnLNet: -6000, Status: models.StatusLoss},
	}
	if got := ComputeDrawdown(acct, trades).AvailableRiskBuffer; got != 0 {
		t.Errorf("AvailableRiskBuffer = %v, want 0 for breached account", got)
	}
}

func TestSuggestDailyRisk_Idempotent(t *testing.T) {
	acct := trailingAccount()
	acct.RiskSettings = &models.AccountRiskSettings{MaxDailyRisk: 500}
	trades := []models.Trade{
		{ID: "t1", Date: "2025-03-03", PnLNet: -500, Status: models.StatusLoss},
		{ID: "t2", Date: "2025-03-04", PnLNet: 1200, Status: models.StatusWin},
	}

	target, ok := SuggestDailyRisk(acct, trades)
	if !ok {
		t.Fatal("expected a suggestion when current risk differs from target")
	}
	if target != 200 {
		t.Fatalf("suggested risk = %v, want 200", target)
	}

	// Writing the suggestion back reaches the fixed point.
	acct.RiskSettings.MaxDailyRisk = target
	if again, ok := SuggestDailyRisk(acct, trades); ok {
		t.Errorf("suggestion after write-back: got %v, want none", again)
	}
}

func TestSuggestDailyRisk_SmallBufferFloor(t *testing.T) {
	// Buffer 600 recommends floor(60) = 60 -> above the $50 floor.
	// Buffer 520 recommends floor(52) = 52. Buffer 510 -> 51.
	// Buffer 490 recommends 49 but is below 500, so stays 49.
	cases := []struct {
		buffer float64
		want   float64
	}{
		{600, 60},
		{510, 51},
		{501, 50},
		{490, 49},
		{30, 3},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("buffer_%v", tc.buffer), func(t *testing.T) {
			if got := throttleTarget(tc.buffer); got != tc.want {
				t.Errorf("throttleTarget(%v) = %v, want %v", tc.buffer, got, tc.want)
			}
		})
	}
}
