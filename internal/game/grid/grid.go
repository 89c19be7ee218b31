package grid

import (
	"fmt"

	"clusterpay_backend/internal/game/symbol"
)

// Position - cell address, row 0 is the top of the board.
type Position struct {
	Row int
	Col int
}

type cell struct {
	kind     symbol.Kind
	occupied bool
	removed  bool
}

// Grid - N×N board plus a multiplier map keyed by position. Multipliers stay with the position
// when symbols fall, so a cell keeps its multiplier for the whole spin.
type Grid struct {
	size    int
	cells   []cell
	mult    []int
	sampler symbol.Sampler
}

// New creates an empty size×size grid that draws symbols from sampler.
func New(size int, sampler symbol.Sampler) *Grid {
	if size <= 0 {
		panic(fmt.Sprintf("grid: size must be positive, got %d", size))
	}
	if sampler == nil {
		panic("grid: nil sampler")
	}
	g := &Grid{
		size:    size,
		cells:   make([]cell, size*size),
		mult:    make([]int, size*size),
		sampler: sampler,
	}
	g.resetMultipliers()
	return g
}

// FromRows builds a fully occupied grid from explicit kinds, rows[r][c]. Multipliers start at 1.
func FromRows(rows [][]symbol.Kind, sampler symbol.Sampler) *Grid {
	g := New(len(rows), sampler)
	for r, row := range rows {
		if len(row) != g.size {
			panic(fmt.Sprintf("grid: row %d has %d cells, want %d", r, len(row), g.size))
		}
		for c, k := range row {
			g.Set(Position{Row: r, Col: c}, k)
		}
	}
	return g
}

func (g *Grid) Size() int { return g.size }

func (g *Grid) idx(p Position) int {
	if p.Row < 0 || p.Row >= g.size || p.Col < 0 || p.Col >= g.size {
		panic(fmt.Sprintf("grid: position %v outside %dx%d board", p, g.size, g.size))
	}
	return p.Row*g.size + p.Col
}

// Fill places a fresh sample on every position and resets every multiplier to 1.
func (g *Grid) Fill() {
	for i := range g.cells {
		g.cells[i] = cell{kind: g.sampler.Sample(), occupied: true}
	}
	g.resetMultipliers()
}

func (g *Grid) resetMultipliers() {
	for i := range g.mult {
		g.mult[i] = 1
	}
}

// Set places kind on p, clearing any removal mark.
func (g *Grid) Set(p Position, k symbol.Kind) {
	if !k.Valid() {
		panic(fmt.Sprintf("grid: foreign symbol kind %d", uint8(k)))
	}
	g.cells[g.idx(p)] = cell{kind: k, occupied: true}
}

// At returns the occupant of p; ok is false when p is empty.
func (g *Grid) At(p Position) (k symbol.Kind, ok bool) {
	c := g.cells[g.idx(p)]
	return c.kind, c.occupied
}

// Multiplier returns the multiplier bound to p.
func (g *Grid) Multiplier(p Position) int {
	return g.mult[g.idx(p)]
}

// MarkRemoval flags positions as removed. They are vacated by CompactColumn.
func (g *Grid) MarkRemoval(positions []Position) {
	for _, p := range positions {
		g.cells[g.idx(p)].removed = true
	}
}

// BumpMultiplier increments the multiplier of every given position by one.
func (g *Grid) BumpMultiplier(positions []Position) {
	for _, p := range positions {
		g.mult[g.idx(p)]++
	}
}

// CompactColumn drops the surviving symbols of col to the bottom, keeping their order, and leaves
// the vacated slots empty at the top. Multipliers do not move.
func (g *Grid) CompactColumn(col int) {
	g.idx(Position{Row: 0, Col: col})

	removed := 0
	for r := 0; r < g.size; r++ {
		if g.cells[r*g.size+col].removed {
			removed++
		}
	}
	if removed == 0 {
		return
	}

	// walk bottom-up, writing survivors to the lowest free slot
	write := g.size - 1
	for r := g.size - 1; r >= 0; r-- {
		c := g.cells[r*g.size+col]
		if c.removed || !c.occupied {
			continue
		}
		g.cells[write*g.size+col] = c
		write--
	}
	for r := write; r >= 0; r-- {
		g.cells[r*g.size+col] = cell{}
	}
}

// RefillColumn samples a new symbol into every empty slot of col, top to bottom.
func (g *Grid) RefillColumn(col int) {
	g.idx(Position{Row: 0, Col: col})

	for r := 0; r < g.size; r++ {
		i := r*g.size + col
		if g.cells[i].occupied {
			continue
		}
		g.cells[i] = cell{kind: g.sampler.Sample(), occupied: true}
	}
}

// CheckFull panics unless every position is occupied and unmarked.
func (g *Grid) CheckFull() {
	for i, c := range g.cells {
		if !c.occupied || c.removed {
			panic(fmt.Sprintf("grid: position %v not settled (occupied=%v removed=%v)",
				Position{Row: i / g.size, Col: i % g.size}, c.occupied, c.removed))
		}
	}
}
