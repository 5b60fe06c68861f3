package engine

import "sort"

// InstrumentSpec describes the contract math for a futures instrument:
// dollar value per point of movement and the minimum price increment.
type InstrumentSpec struct {
	Symbol     string
	Name       string
	Multiplier float64 // $ per point per contract
	TickSize   float64 // points
}

// DefaultSymbol is used when an account has no preferred instrument.
const DefaultSymbol = "MNQ"

// registry holds the supported CME contracts. Entries are fixed
// constants; there is no runtime registration.
var registry = map[string]InstrumentSpec{
	"ES":  {Symbol: "ES", Name: "E-mini S&P 500", Multiplier: 50, TickSize: 0.25},
	"MES": {Symbol: "MES", Name: "Micro E-mini S&P 500", Multiplier: 5, TickSize: 0.25},
	"NQ":  {Symbol: "NQ", Name: "E-mini Nasdaq-100", Multiplier: 20, TickSize: 0.25},
	"MNQ": {Symbol: "MNQ", Name: "Micro E-mini Nasdaq-100", Multiplier: 2, TickSize: 0.25},
	"YM":  {Symbol: "YM", Name: "E-mini Dow", Multiplier: 5, TickSize: 1},
	"MYM": {Symbol: "MYM", Name: "Micro E-mini Dow", Multiplier: 0.5, TickSize: 1},
	"RTY": {Symbol: "RTY", Name: "E-mini Russell 2000", Multiplier: 50, TickSize: 0.1},
	"M2K": {Symbol: "M2K", Name: "Micro E-mini Russell 2000", Multiplier: 5, TickSize: 0.1},
	"GC":  {Symbol: "GC", Name: "Gold", Multiplier: 100, TickSize: 0.1},
	"MGC": {Symbol: "MGC", Name: "Micro Gold", Multiplier: 10, TickSize: 0.1},
	"CL":  {Symbol: "CL", Name: "Crude Oil", Multiplier: 1000, TickSize: 0.01},
	"MCL": {Symbol: "MCL", Name: "Micro Crude Oil", Multiplier: 100, TickSize: 0.01},
}

// Instrument looks up an instrument spec by symbol. Unknown or empty
// symbols fall back to the default micro contract so sizing stays total.
func Instrument(symbol string) InstrumentSpec {
	if spec, ok := registry[symbol]; ok {
		return spec
	}
	return registry[DefaultSymbol]
}

// Instruments returns all supported instruments sorted by symbol.
func Instruments() []InstrumentSpec {
	out := make([]InstrumentSpec, 0, len(registry))
	for _, spec := range registry {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
