package engine

import (
	"math"

	"tradergym/internal/models"
)

// SizingResult is the per-trade execution plan derived from an account's
// risk profile and the instrument's contract math.
type SizingResult struct {
	Instrument          string
	Lots                int
	StopPoints          float64
	TargetPoints        float64
	RiskPerTrade        float64
	CommissionsPerTrade float64 // round-trip
	TargetNet           float64
	DailyPotential      float64
}

// DefaultRiskSettings is the fallback profile applied when an account
// carries no risk settings: one micro contract, one trade, a token risk
// budget. It keeps sizing total rather than failing on sparse accounts.
func DefaultRiskSettings() models.AccountRiskSettings {
	return models.AccountRiskSettings{
		MaxDailyRisk:        100,
		MaxTradesPerDay:     1,
		MaxContractsPerTrade: 1,
		CalcMode:            models.CalcFixedContracts,
		TargetMode:          models.TargetFixedRR,
		RRRatio:             2,
		CommPerContract:     1.5,
		PreferredInstrument: DefaultSymbol,
	}
}

// ComputeSizing derives lot size, stop and target distances, round-trip
// commissions, and net expectancy from a risk profile and instrument.
// Every potential zero denominator (trades per day, lots, multiplier,
// stop points, tick) falls back to 1 before dividing.
func ComputeSizing(r *models.AccountRiskSettings, inst InstrumentSpec) SizingResult {
	settings := DefaultRiskSettings()
	if r != nil {
		settings = *r
	}

	tradesPerDay := orOneInt(settings.MaxTradesPerDay)
	multiplier := orOne(inst.Multiplier)
	riskPerTrade := math.Round(settings.MaxDailyRisk / float64(tradesPerDay))

	var lots int
	var slPoints float64
	switch settings.CalcMode {
	case models.CalcFixedSL:
		slPoints = orOne(settings.FixedSLPoints)
		lots = int(math.Floor(riskPerTrade / (slPoints * multiplier)))
		if lots < 1 {
			lots = 1
		}
	default: // fixed contracts
		lots = orOneInt(settings.MaxContractsPerTrade)
		raw := riskPerTrade / (float64(lots) * multiplier)
		slPoints = snap(raw, inst.TickSize)
	}

	var tpPoints float64
	if settings.TargetMode == models.TargetFixedPoints {
		tpPoints = settings.FixedTargetPoints
	} else {
		tpPoints = snap(slPoints*settings.RRRatio, inst.TickSize)
	}

	commissions := float64(lots) * settings.CommPerContract * 2
	targetNet := tpPoints*multiplier*float64(lots) - commissions

	return SizingResult{
		Instrument:          inst.Symbol,
		Lots:                lots,
		StopPoints:          slPoints,
		TargetPoints:        tpPoints,
		RiskPerTrade:        riskPerTrade,
		CommissionsPerTrade: commissions,
		TargetNet:           targetNet,
		DailyPotential:      targetNet * float64(tradesPerDay),
	}
}
