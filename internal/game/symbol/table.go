package symbol

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTable    = errors.New("symbol table is empty")
	ErrInvalidWeight = errors.New("symbol weight must be positive")
	ErrNegativeValue = errors.New("symbol base value must not be negative")
	ErrDuplicateKind = errors.New("symbol kind listed twice")
	ErrUnknownKind   = errors.New("symbol kind is not in the catalogue")
)

// Sampler draws one symbol kind per call.
type Sampler interface {
	Sample() Kind
}

// Entry - one catalogue row.
type Entry struct {
	Kind      Kind
	BaseValue decimal.Decimal
	Weight    float64
}

// Table - weighted catalogue of symbol kinds. Immutable after NewTable.
type Table struct {
	entries     []Entry
	values      [kindCount]decimal.Decimal
	present     [kindCount]bool
	totalWeight float64
	rng         RandomSource
}

// NewTable validates entries and builds a table sampling from rng (DefaultRNG when nil).
// Catalogue order is the order of entries.
func NewTable(entries []Entry, rng RandomSource) (*Table, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}
	if rng == nil {
		rng = DefaultRNG()
	}

	t := &Table{
		entries: make([]Entry, len(entries)),
		rng:     rng,
	}
	copy(t.entries, entries)

	for _, e := range t.entries {
		if !e.Kind.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKind, e.Kind)
		}
		if t.present[e.Kind] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKind, e.Kind)
		}
		if !(e.Weight > 0) || math.IsInf(e.Weight, 1) {
			return nil, fmt.Errorf("%w: %s has %v", ErrInvalidWeight, e.Kind, e.Weight)
		}
		if e.BaseValue.IsNegative() {
			return nil, fmt.Errorf("%w: %s has %s", ErrNegativeValue, e.Kind, e.BaseValue)
		}
		t.present[e.Kind] = true
		t.values[e.Kind] = e.BaseValue
		t.totalWeight += e.Weight
	}
	if math.IsInf(t.totalWeight, 1) {
		return nil, fmt.Errorf("%w: total weight overflows", ErrInvalidWeight)
	}
	return t, nil
}

// Sample - weighted draw. A uniform value in [0, total) is reduced by each weight in catalogue
// order; the kind that takes the remainder to zero or below wins.
func (t *Table) Sample() Kind {
	rem := t.rng.Float64() * t.totalWeight
	for _, e := range t.entries {
		rem -= e.Weight
		if rem <= 0 {
			return e.Kind
		}
	}
	// float rounding can leave a sliver above zero after the last entry
	return t.entries[len(t.entries)-1].Kind
}

// BaseValue returns the payout base of kind. Asking for a kind the table does not carry is a
// programming error.
func (t *Table) BaseValue(k Kind) decimal.Decimal {
	if !k.Valid() || !t.present[k] {
		panic(fmt.Sprintf("symbol: kind %s is not in the table", k))
	}
	return t.values[k]
}

// Entries returns a copy of the catalogue.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// TotalWeight - sum of all weights.
func (t *Table) TotalWeight() float64 {
	return t.totalWeight
}
