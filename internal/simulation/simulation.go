// Package simulation plays many spins offline against an in-memory ledger to measure the game.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clusterpay_backend/internal/config"
	"clusterpay_backend/internal/game/session"
	"clusterpay_backend/internal/game/symbol"
	"clusterpay_backend/internal/ledger/memledger"
	"clusterpay_backend/internal/model"
	"clusterpay_backend/internal/repository/stats_repo"
	"clusterpay_backend/internal/service/cascade"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Params struct {
	Spins   int
	Bet     int64
	Seed    uint64
	Workers int
	// Clock times the run; nil means the real clock.
	Clock clockwork.Clock
}

type Report struct {
	Spins       int
	TotalBet    int64
	TotalPayout int64
	RTP         float64 // percent
	HitRate     float64 // percent of spins with a payout
	CappedSpins int64
	MaxPayout   int64
	// RoundHistogram[n] - spins that resolved in n rounds
	RoundHistogram map[int]int
	Stats          model.CascadeStats
	Elapsed        time.Duration
	SpinsPerSecond float64
}

// Run splits the spins across workers. Each worker has its own session and a source seeded with
// Seed+worker, so a run is reproducible for a fixed worker count.
func Run(ctx context.Context, cfg config.CascadeConfig, p Params, logger *zap.Logger) (*Report, error) {
	if p.Spins <= 0 {
		return nil, errors.New("spins must be positive")
	}
	if p.Bet <= 0 {
		return nil, session.ErrInvalidBet
	}
	if p.Workers <= 0 {
		p.Workers = 1
	}
	if p.Workers > p.Spins {
		p.Workers = p.Spins
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if p.Clock == nil {
		p.Clock = clockwork.NewRealClock()
	}
	started := p.Clock.Now()

	stats := stats_repo.NewStatsRepository(stats_repo.DefaultWindowSize)
	report := &Report{Spins: p.Spins, RoundHistogram: make(map[int]int)}
	var mtx sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < p.Workers; w++ {
		spins := p.Spins / p.Workers
		if w < p.Spins%p.Workers {
			spins++
		}
		seed := p.Seed + uint64(w)

		g.Go(func() error {
			table, err := cascade.NewCatalogue(cfg, symbol.NewSeededRNG(seed))
			if err != nil {
				return err
			}
			ledger := memledger.New(int64(spins) * p.Bet)
			sess := session.New(cascade.SessionConfig(cfg), table, ledger, session.WithLogger(logger))

			for i := 0; i < spins; i++ {
				res, err := sess.Spin(gctx, p.Bet)
				if err != nil {
					return fmt.Errorf("worker %d spin %d: %w", w, i, err)
				}
				stats.UpdateState(model.SpinRecord{
					Bet:    res.Bet,
					Payout: res.Payout,
					Rounds: res.RoundCount,
					Capped: res.Capped,
				})

				mtx.Lock()
				report.RoundHistogram[res.RoundCount]++
				if res.Payout > report.MaxPayout {
					report.MaxPayout = res.Payout
				}
				mtx.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Elapsed = p.Clock.Since(started)
	if report.Elapsed > 0 {
		report.SpinsPerSecond = float64(p.Spins) / report.Elapsed.Seconds()
	}

	st := stats.State()
	report.Stats = st
	report.TotalBet = st.TotalBet
	report.TotalPayout = st.TotalPayout
	report.RTP = st.CurrentRTP
	report.CappedSpins = st.CappedSpins
	report.HitRate = float64(st.WinningSpins) / float64(p.Spins) * 100

	logger.Info("simulation finished",
		zap.Int("spins", p.Spins),
		zap.Float64("rtp", report.RTP),
		zap.Float64("hit_rate", report.HitRate),
		zap.Duration("elapsed", report.Elapsed))
	return report, nil
}
