// Package models defines the journal's domain records: accounts, trades,
// and daily preparation data. All records are plain value types; the
// engine consumes them as immutable snapshots.
package models

// DrawdownType selects how an account's liquidation threshold moves.
type DrawdownType string

const (
	DrawdownStatic   DrawdownType = "Static"
	DrawdownTrailing DrawdownType = "Trailing"
)

// CalcMode selects how position size is derived from the risk budget.
type CalcMode string

const (
	CalcFixedContracts CalcMode = "fixedContracts"
	CalcFixedSL        CalcMode = "fixedSL"
)

// TargetMode selects how the profit target is derived.
type TargetMode string

const (
	TargetFixedRR     TargetMode = "fixedRR"
	TargetFixedPoints TargetMode = "fixedTargetPoints"
)

// AccountRiskSettings holds the per-account risk profile that drives
// position sizing.
type AccountRiskSettings struct {
	MaxDailyRisk        float64
	MaxTradesPerDay     int
	MaxContractsPerTrade int
	CalcMode            CalcMode
	TargetMode          TargetMode
	RRRatio             float64
	FixedSLPoints       float64
	FixedTargetPoints   float64
	CommPerContract     float64
	PreferredInstrument string
}

// Account is a funded or evaluation trading account. ID must be stable
// and non-empty; everything else may be sparse.
type Account struct {
	ID                    string
	Name                  string
	InitialBalance        float64
	MaxDrawdown           float64
	DrawdownType          DrawdownType
	IsPA                  bool // payout account: trailing threshold locks at a cap
	TrailingStopThreshold float64
	RiskSettings          *AccountRiskSettings
}
