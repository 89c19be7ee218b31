package cluster

import (
	"clusterpay_backend/internal/game/grid"
	"clusterpay_backend/internal/game/symbol"

	"github.com/shopspring/decimal"
)

// DefaultMinSize - smallest region that pays.
const DefaultMinSize = 5

// Cluster - maximal 4-connected region of one ordinary kind.
type Cluster struct {
	Kind          symbol.Kind
	Cells         []grid.Position
	Multiplier    decimal.Decimal // mean of the member multipliers, at least 1; rounded for display
	MultiplierSum int64
}

func (c Cluster) Size() int { return len(c.Cells) }

// Weight - size * mean multiplier, computed without division: max(sum, size).
func (c Cluster) Weight() decimal.Decimal {
	return decimal.NewFromInt(max(c.MultiplierSum, int64(len(c.Cells))))
}

// Detector finds paying clusters on a grid.
type Detector struct {
	minSize int
}

// NewDetector returns a detector with the given minimum size; minSize <= 0 selects DefaultMinSize.
func NewDetector(minSize int) *Detector {
	if minSize <= 0 {
		minSize = DefaultMinSize
	}
	return &Detector{minSize: minSize}
}

// up, right, down, left
var dirs = [4][2]int{{-1, 0}, {0, 1}, {1, 0}, {0, -1}}

// Detect scans g row-major and returns every qualifying cluster. Each region is flood-filled with
// an explicit stack; every reached cell is marked visited whether or not the region qualifies, so
// clusters never share a cell.
func (d *Detector) Detect(g *grid.Grid) []Cluster {
	size := g.Size()
	visited := make([]bool, size*size)
	var clusters []Cluster

	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			start := grid.Position{Row: r, Col: c}
			if visited[r*size+c] {
				continue
			}
			kind, ok := g.At(start)
			if !ok || kind.IsSpecial() {
				visited[r*size+c] = true
				continue
			}

			members := fill(g, start, kind, visited)
			if len(members) < d.minSize {
				continue
			}
			sum := multiplierSum(g, members)
			clusters = append(clusters, Cluster{
				Kind:          kind,
				Cells:         members,
				Multiplier:    averageMultiplier(sum, len(members)),
				MultiplierSum: sum,
			})
		}
	}
	return clusters
}

// fill collects the region of kind containing start.
func fill(g *grid.Grid, start grid.Position, kind symbol.Kind, visited []bool) []grid.Position {
	size := g.Size()
	visited[start.Row*size+start.Col] = true
	stack := []grid.Position{start}
	var members []grid.Position

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		members = append(members, cur)

		// pushed in reverse so neighbours pop in up, right, down, left order
		for i := len(dirs) - 1; i >= 0; i-- {
			n := grid.Position{Row: cur.Row + dirs[i][0], Col: cur.Col + dirs[i][1]}
			if n.Row < 0 || n.Row >= size || n.Col < 0 || n.Col >= size || visited[n.Row*size+n.Col] {
				continue
			}
			if k, ok := g.At(n); !ok || k != kind {
				continue
			}
			visited[n.Row*size+n.Col] = true
			stack = append(stack, n)
		}
	}
	return members
}

func multiplierSum(g *grid.Grid, members []grid.Position) int64 {
	var sum int64
	for _, p := range members {
		sum += int64(g.Multiplier(p))
	}
	return sum
}

func averageMultiplier(sum int64, n int) decimal.Decimal {
	avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(n)))
	if avg.LessThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return avg
}
