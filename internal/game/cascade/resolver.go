package cascade

import (
	"context"
	"fmt"
	"sort"

	"clusterpay_backend/internal/game/cluster"
	"clusterpay_backend/internal/game/grid"
	"clusterpay_backend/internal/game/symbol"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultMaxRounds - safety cap on cascade rounds per spin.
const DefaultMaxRounds = 300

// BaseValuer prices a symbol kind.
type BaseValuer interface {
	BaseValue(k symbol.Kind) decimal.Decimal
}

// ClusterPay - one cluster resolved in a round.
type ClusterPay struct {
	cluster.Cluster
	Payout decimal.Decimal
}

// Round - one detect, pay, remove, compact, refill cycle.
type Round struct {
	Index    int
	Clusters []ClusterPay
	Payout   decimal.Decimal
	Removed  []grid.Position
	Board    grid.Snapshot // after refill
}

// Outcome - result of resolving one spin.
type Outcome struct {
	TotalPayout decimal.Decimal
	RoundCount  int
	Rounds      []Round
	Final       grid.Snapshot
	Capped      bool // stopped by MaxRounds
}

// Resolver runs cascade rounds until the board has no cluster.
type Resolver struct {
	detector  *cluster.Detector
	values    BaseValuer
	maxRounds int
	onRound   func(Round)
	logger    *zap.Logger
}

type Option func(*Resolver)

// WithMaxRounds overrides DefaultMaxRounds.
func WithMaxRounds(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxRounds = n
		}
	}
}

// WithRoundObserver registers fn to be called after every settled round, in order.
func WithRoundObserver(fn func(Round)) Option {
	return func(r *Resolver) { r.onRound = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver builds a resolver that prices clusters with values.
func NewResolver(detector *cluster.Detector, values BaseValuer, opts ...Option) *Resolver {
	r := &Resolver{
		detector:  detector,
		values:    values,
		maxRounds: DefaultMaxRounds,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs rounds on g until no cluster is found. Payouts are exact; rounding to currency
// units is left to the caller. The only error is a cancelled ctx, checked between rounds.
func (r *Resolver) Resolve(ctx context.Context, g *grid.Grid, bet decimal.Decimal) (Outcome, error) {
	if g == nil {
		panic("cascade: nil grid")
	}
	if !bet.IsPositive() {
		panic(fmt.Sprintf("cascade: bet must be positive, got %s", bet))
	}
	g.CheckFull()

	out := Outcome{TotalPayout: decimal.Zero}

	for {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}

		// Detecting
		clusters := r.detector.Detect(g)
		if len(clusters) == 0 {
			break
		}
		if out.RoundCount >= r.maxRounds {
			out.Capped = true
			r.logger.Warn("cascade round cap reached",
				zap.Int("rounds", out.RoundCount),
				zap.String("payout", out.TotalPayout.String()))
			break
		}

		// Scoring
		round := Round{Index: out.RoundCount, Payout: decimal.Zero}
		for _, cl := range clusters {
			pay := r.price(cl, bet)
			round.Clusters = append(round.Clusters, ClusterPay{Cluster: cl, Payout: pay})
			round.Payout = round.Payout.Add(pay)
		}
		out.TotalPayout = out.TotalPayout.Add(round.Payout)

		// Marking
		round.Removed = union(clusters)
		g.BumpMultiplier(round.Removed)
		g.MarkRemoval(round.Removed)

		// Settling round
		for _, col := range columns(round.Removed) {
			g.CompactColumn(col)
			g.RefillColumn(col)
		}
		g.CheckFull()

		round.Board = g.Snapshot()
		out.Rounds = append(out.Rounds, round)
		out.RoundCount++

		r.logger.Debug("cascade round settled",
			zap.Int("round", round.Index),
			zap.Int("clusters", len(round.Clusters)),
			zap.String("payout", round.Payout.String()),
			zap.Stringer("board", round.Board))

		if r.onRound != nil {
			r.onRound(round)
		}
	}

	out.Final = g.Snapshot()
	return out, nil
}

// price - size * average multiplier * base value * bet. The weight is exact, so the
// rounded display mean never reaches the payout.
func (r *Resolver) price(cl cluster.Cluster, bet decimal.Decimal) decimal.Decimal {
	return cl.Weight().
		Mul(r.values.BaseValue(cl.Kind)).
		Mul(bet)
}

// union merges cluster members; a position in two clusters means the detector is broken.
func union(clusters []cluster.Cluster) []grid.Position {
	seen := make(map[grid.Position]struct{})
	var out []grid.Position
	for _, cl := range clusters {
		for _, p := range cl.Cells {
			if _, dup := seen[p]; dup {
				panic(fmt.Sprintf("cascade: position %v belongs to more than one cluster", p))
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// columns returns the distinct columns of positions, ascending.
func columns(positions []grid.Position) []int {
	set := make(map[int]struct{})
	for _, p := range positions {
		set[p.Col] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}
