package grid

import (
	"strings"

	"clusterpay_backend/internal/game/symbol"
)

// Snapshot - copy of the board, Kinds[r][c]. Empty cells are not representable, snapshots are
// only taken from settled grids.
type Snapshot struct {
	Kinds       [][]symbol.Kind
	Multipliers [][]int
}

// Snapshot copies the current board and multiplier map.
func (g *Grid) Snapshot() Snapshot {
	g.CheckFull()
	s := Snapshot{
		Kinds:       make([][]symbol.Kind, g.size),
		Multipliers: g.Multipliers(),
	}
	for r := 0; r < g.size; r++ {
		s.Kinds[r] = make([]symbol.Kind, g.size)
		for c := 0; c < g.size; c++ {
			s.Kinds[r][c] = g.cells[r*g.size+c].kind
		}
	}
	return s
}

// Multipliers copies the multiplier map, [r][c].
func (g *Grid) Multipliers() [][]int {
	out := make([][]int, g.size)
	for r := 0; r < g.size; r++ {
		out[r] = make([]int, g.size)
		copy(out[r], g.mult[r*g.size:(r+1)*g.size])
	}
	return out
}

// Names returns the board as kind names, used by the API layer.
func (s Snapshot) Names() [][]string {
	out := make([][]string, len(s.Kinds))
	for r, row := range s.Kinds {
		out[r] = make([]string, len(row))
		for c, k := range row {
			out[r][c] = k.String()
		}
	}
	return out
}

// String renders the board with two-letter kind names, one row per line.
func (s Snapshot) String() string {
	var b strings.Builder
	for _, row := range s.Kinds {
		for c, k := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(k.String()[:2])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
