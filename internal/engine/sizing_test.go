package engine

import (
	"math"
	"testing"

	"tradergym/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeSizing_FixedContracts(t *testing.T) {
	r := &models.AccountRiskSettings{
		MaxDailyRisk:        300,
		MaxTradesPerDay:     3,
		MaxContractsPerTrade: 2,
		CalcMode:            models.CalcFixedContracts,
		TargetMode:          models.TargetFixedRR,
		RRRatio:             1.5,
		CommPerContract:     1.24,
	}
	got := ComputeSizing(r, Instrument("MES"))

	if got.RiskPerTrade != 100 {
		t.Errorf("RiskPerTrade = %v, want 100", got.RiskPerTrade)
	}
	if got.Lots != 2 {
		t.Errorf("Lots = %d, want 2", got.Lots)
	}
	// 100 / (2 lots * $5/pt) = 10pt, already on tick
	if !almostEqual(got.StopPoints, 10) {
		t.Errorf("StopPoints = %v, want 10", got.StopPoints)
	}
	if !almostEqual(got.TargetPoints, 15) {
		t.Errorf("TargetPoints = %v, want 15", got.TargetPoints)
	}
	if !almostEqual(got.CommissionsPerTrade, 4.96) {
		t.Errorf("CommissionsPerTrade = %v, want 4.96", got.CommissionsPerTrade)
	}
	if !almostEqual(got.TargetNet, 145.04) {
		t.Errorf("TargetNet = %v, want 145.04", got.TargetNet)
	}
	if !almostEqual(got.DailyPotential, 435.12) {
		t.Errorf("DailyPotential = %v, want 435.12", got.DailyPotential)
	}
}

func TestComputeSizing_FixedSL(t *testing.T) {
	r := &models.AccountRiskSettings{
		MaxDailyRisk:    500,
		MaxTradesPerDay: 2,
		CalcMode:        models.CalcFixedSL,
		FixedSLPoints:   10,
		TargetMode:      models.TargetFixedPoints,
		FixedTargetPoints: 25,
		CommPerContract: 0.74,
	}
	got := ComputeSizing(r, Instrument("MNQ"))

	// 250 risk / (10pt * $2/pt) = 12.5 -> floor to 12 lots
	if got.Lots != 12 {
		t.Errorf("Lots = %d, want 12", got.Lots)
	}
	if !almostEqual(got.StopPoints, 10) {
		t.Errorf("StopPoints = %v, want 10", got.StopPoints)
	}
	if !almostEqual(got.TargetPoints, 25) {
		t.Errorf("TargetPoints = %v, want 25", got.TargetPoints)
	}
}

func TestComputeSizing_StopSnapsToTick(t *testing.T) {
	r := &models.AccountRiskSettings{
		MaxDailyRisk:        100,
		MaxTradesPerDay:     3,
		MaxContractsPerTrade: 1,
		CalcMode:            models.CalcFixedContracts,
		TargetMode:          models.TargetFixedRR,
		RRRatio:             2,
	}
	got := ComputeSizing(r, Instrument("MNQ"))

	// 33 / 2 = 16.5pt raw, already a multiple of 0.25
	if rem := math.Mod(got.StopPoints, 0.25); !almostEqual(rem, 0) && !almostEqual(rem, 0.25) {
		t.Errorf("StopPoints %v not snapped to tick", got.StopPoints)
	}
	if rem := math.Mod(got.TargetPoints, 0.25); !almostEqual(rem, 0) && !almostEqual(rem, 0.25) {
		t.Errorf("TargetPoints %v not snapped to tick", got.TargetPoints)
	}
}

// The two calc modes should agree within one tick when each is re-derived
// from the other's outputs.
func TestComputeSizing_ModesRoundTrip(t *testing.T) {
	inst := Instrument("MES")
	fixed := ComputeSizing(&models.AccountRiskSettings{
		MaxDailyRisk:        400,
		MaxTradesPerDay:     2,
		MaxContractsPerTrade: 4,
		CalcMode:            models.CalcFixedContracts,
		TargetMode:          models.TargetFixedRR,
		RRRatio:             2,
	}, inst)

	derived := ComputeSizing(&models.AccountRiskSettings{
		MaxDailyRisk:    400,
		MaxTradesPerDay: 2,
		CalcMode:        models.CalcFixedSL,
		FixedSLPoints:   fixed.StopPoints,
		TargetMode:      models.TargetFixedRR,
		RRRatio:         2,
	}, inst)

	if derived.Lots != fixed.Lots {
		t.Errorf("round-trip lots = %d, want %d", derived.Lots, fixed.Lots)
	}
	if math.Abs(derived.StopPoints-fixed.StopPoints) > inst.TickSize {
		t.Errorf("round-trip stop %v drifted more than one tick from %v", derived.StopPoints, fixed.StopPoints)
	}
}

func TestComputeSizing_ZeroDenominatorsGuarded(t *testing.T) {
	r := &models.AccountRiskSettings{
		MaxDailyRisk: 250,
		CalcMode:     models.CalcFixedSL,
		TargetMode:   models.TargetFixedRR,
		// trades/day, SL points, RR all zero
	}
	got := ComputeSizing(r, InstrumentSpec{Symbol: "X"}) // zero multiplier and tick

	if math.IsNaN(got.StopPoints) || math.IsInf(got.StopPoints, 0) {
		t.Fatalf("StopPoints not finite: %v", got.StopPoints)
	}
	if math.IsNaN(got.TargetNet) || math.IsInf(got.TargetNet, 0) {
		t.Fatalf("TargetNet not finite: %v", got.TargetNet)
	}
	if got.Lots < 1 {
		t.Errorf("Lots = %d, want >= 1", got.Lots)
	}
}

func TestComputeSizing_NilSettingsFallsBack(t *testing.T) {
	got := ComputeSizing(nil, Instrument(DefaultSymbol))
	want := ComputeSizing(func() *models.AccountRiskSettings {
		d := DefaultRiskSettings()
		return &d
	}(), Instrument(DefaultSymbol))

	if got != want {
		t.Errorf("nil settings sizing = %+v, want default profile result %+v", got, want)
	}
}

func TestInstrument_UnknownFallsBackToDefault(t *testing.T) {
	got := Instrument("NO-SUCH-CONTRACT")
	if got.Symbol != DefaultSymbol {
		t.Errorf("fallback instrument = %s, want %s", got.Symbol, DefaultSymbol)
	}
}
