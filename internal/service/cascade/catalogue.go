package cascade

import (
	"clusterpay_backend/internal/config"
	"clusterpay_backend/internal/game/session"
	"clusterpay_backend/internal/game/symbol"
	"fmt"

	"github.com/shopspring/decimal"
)

// NewCatalogue builds the symbol table described by cfg. An empty symbol list means the default catalogue.
func NewCatalogue(cfg config.CascadeConfig, rng symbol.RandomSource) (*symbol.Table, error) {
	entries := symbol.DefaultEntries()
	if syms := cfg.Symbols(); len(syms) > 0 {
		entries = make([]symbol.Entry, 0, len(syms))
		for _, sc := range syms {
			kind, err := symbol.ParseKind(sc.Name)
			if err != nil {
				return nil, err
			}
			value, err := decimal.NewFromString(sc.BaseValue)
			if err != nil {
				return nil, fmt.Errorf("symbol %s: %w", sc.Name, err)
			}
			entries = append(entries, symbol.Entry{Kind: kind, BaseValue: value, Weight: sc.Weight})
		}
	}

	if cfg.LossBiased() {
		entries = symbol.WithHazardBoost(entries, cfg.HazardWeightBoost())
	}

	return symbol.NewTable(entries, rng)
}

// SessionConfig - engine parameters from the game config
func SessionConfig(cfg config.CascadeConfig) session.Config {
	return session.Config{
		GridSize:       cfg.GridSize(),
		MinClusterSize: cfg.MinClusterSize(),
		MaxRounds:      cfg.MaxRounds(),
		MaxWinXBet:     cfg.MaxWinXBet(),
	}
}
