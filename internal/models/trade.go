package models

// TradeStatus classifies the net outcome of a trade.
type TradeStatus string

const (
	StatusWin       TradeStatus = "WIN"
	StatusLoss      TradeStatus = "LOSS"
	StatusBreakEven TradeStatus = "BE"
)

// ExecutionError tags a trade with the rule violation committed during it,
// if any. The labels match what the journal UI shows the trader.
type ExecutionError string

const (
	ErrorNone             ExecutionError = "None"
	ErrorStopLossSabotage ExecutionError = "Stop-Loss Sabotage"
	ErrorRevengeTrading   ExecutionError = "Revenge Trading"
	ErrorEarlyExit        ExecutionError = "Early Exit"
	ErrorOversizing       ExecutionError = "Oversizing"
	ErrorChasedEntry      ExecutionError = "Chased Entry"
)

// PlanAdherence records the trader's own answer to "was this trade
// according to plan?". DA/NU are kept as stored by the journal.
type PlanAdherence string

const (
	PlanYes  PlanAdherence = "DA"
	PlanNo   PlanAdherence = "NU"
	PlanNone PlanAdherence = "None"
)

// Trade is an immutable execution record. Date is a calendar day in
// ISO form (2006-01-02); intraday ordering within a day falls back to ID.
type Trade struct {
	ID                string
	AccountID         string
	Date              string
	Symbol            string
	PnLNet            float64
	Status            TradeStatus
	DisciplineScore   int // 1-5, self-reported
	ExecutionError    ExecutionError
	IsAccordingToPlan PlanAdherence
	Notes             string
}

// IsWin reports whether the trade closed positive.
func (t Trade) IsWin() bool { return t.Status == StatusWin }

// IsLoss reports whether the trade closed negative.
func (t Trade) IsLoss() bool { return t.Status == StatusLoss }

// HasViolation reports whether the trade carries a protocol-breaking
// execution error (the two violations that trip the daily veto).
func (t Trade) HasViolation() bool {
	return t.ExecutionError == ErrorStopLossSabotage || t.ExecutionError == ErrorRevengeTrading
}

// StatusFromPnL derives a trade status from net P&L, used by importers
// when the source data carries no explicit outcome.
func StatusFromPnL(pnl float64) TradeStatus {
	switch {
	case pnl > 0:
		return StatusWin
	case pnl < 0:
		return StatusLoss
	default:
		return StatusBreakEven
	}
}
