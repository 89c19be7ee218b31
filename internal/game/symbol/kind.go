package symbol

import "fmt"

// Kind - symbol kind on the board. The set is closed: KindRed..KindPurple pay in clusters,
// KindBonus and KindHazard are specials and never cluster.
type Kind uint8

const (
	KindRed Kind = iota
	KindOrange
	KindYellow
	KindGreen
	KindBlue
	KindPurple
	KindBonus
	KindHazard

	kindCount
)

var kindNames = [kindCount]string{
	KindRed:    "red",
	KindOrange: "orange",
	KindYellow: "yellow",
	KindGreen:  "green",
	KindBlue:   "blue",
	KindPurple: "purple",
	KindBonus:  "bonus",
	KindHazard: "hazard",
}

// Kinds returns every known kind in catalogue order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Valid reports whether k belongs to the catalogue.
func (k Kind) Valid() bool {
	return k < kindCount
}

// IsSpecial reports whether k is a non-clustering kind.
func (k Kind) IsSpecial() bool {
	switch k {
	case KindBonus, KindHazard:
		return true
	case KindRed, KindOrange, KindYellow, KindGreen, KindBlue, KindPurple:
		return false
	default:
		panic(fmt.Sprintf("symbol: unknown kind %d", uint8(k)))
	}
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// ParseKind maps a catalogue name back to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
