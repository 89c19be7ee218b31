package symbol

import "github.com/shopspring/decimal"

// DefaultEntries - catalogue used when the game config does not list symbols.
func DefaultEntries() []Entry {
	return []Entry{
		{Kind: KindRed, BaseValue: decimal.RequireFromString("0.1"), Weight: 24},
		{Kind: KindOrange, BaseValue: decimal.RequireFromString("0.15"), Weight: 20},
		{Kind: KindYellow, BaseValue: decimal.RequireFromString("0.2"), Weight: 17},
		{Kind: KindGreen, BaseValue: decimal.RequireFromString("0.3"), Weight: 14},
		{Kind: KindBlue, BaseValue: decimal.RequireFromString("0.5"), Weight: 10},
		{Kind: KindPurple, BaseValue: decimal.NewFromInt(1), Weight: 6},
		{Kind: KindBonus, BaseValue: decimal.Zero, Weight: 3},
		{Kind: KindHazard, BaseValue: decimal.Zero, Weight: 6},
	}
}

// WithHazardBoost returns a copy of entries with the hazard weight multiplied by boost.
// Used for the loss-biased mode; boost <= 0 leaves the weights untouched.
func WithHazardBoost(entries []Entry, boost float64) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	if boost <= 0 {
		return out
	}
	for i := range out {
		if out[i].Kind == KindHazard {
			out[i].Weight *= boost
		}
	}
	return out
}
