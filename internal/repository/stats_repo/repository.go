package stats_repo

import (
	"clusterpay_backend/internal/model"
	"clusterpay_backend/internal/repository"
	"sync"
)

// DefaultWindowSize - spins kept for the sliding RTP window
const DefaultWindowSize = 500

type spinResult struct {
	bet    int64
	payout int64
}

// StateRepo - in-memory totals of settled spins. It only observes, nothing reads it back into the game.
type StateRepo struct {
	mtx        sync.RWMutex
	state      model.CascadeStats
	window     []spinResult
	windowSize int
}

// NewStatsRepository - windowSize <= 0 falls back to DefaultWindowSize
func NewStatsRepository(windowSize int) repository.StatsRepository {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &StateRepo{
		state:      model.CascadeStats{WindowSize: windowSize},
		window:     make([]spinResult, 0, windowSize),
		windowSize: windowSize,
	}
}

// State returns a copy of the current totals.
func (r *StateRepo) State() model.CascadeStats {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.state
}

// UpdateState - account one settled spin
func (r *StateRepo) UpdateState(rec model.SpinRecord) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.state.TotalSpins++
	r.state.TotalBet += rec.Bet
	r.state.TotalPayout += rec.Payout
	if rec.Payout > 0 {
		r.state.WinningSpins++
	}
	if rec.Capped {
		r.state.CappedSpins++
	}
	if rec.Rounds > r.state.LongestCascade {
		r.state.LongestCascade = rec.Rounds
	}
	r.state.CurrentRTP = rtp(r.state.TotalPayout, r.state.TotalBet)

	r.window = append(r.window, spinResult{bet: rec.Bet, payout: rec.Payout})
	if len(r.window) > r.windowSize {
		r.window = r.window[1:]
	}

	var windowBet, windowPayout int64
	for _, spin := range r.window {
		windowBet += spin.bet
		windowPayout += spin.payout
	}
	r.state.WindowRTP = rtp(windowPayout, windowBet)
}

// rtp in percent
func rtp(payout, bet int64) float64 {
	if bet <= 0 {
		return 0
	}
	return float64(payout) / float64(bet) * 100
}
