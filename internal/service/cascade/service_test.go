package cascade

import (
	"clusterpay_backend/internal/config"
	"clusterpay_backend/internal/game/session"
	"clusterpay_backend/internal/game/symbol"
	"clusterpay_backend/internal/game/symbol/symboltest"
	"clusterpay_backend/internal/model"
	"clusterpay_backend/internal/repository"
	"clusterpay_backend/internal/repository/stats_repo"
	"clusterpay_backend/internal/service"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

type fakeUserRepo struct {
	mtx        sync.Mutex
	balances   map[int]int64
	balanceErr error
}

func (f *fakeUserRepo) GetBalance(_ context.Context, id int) (int64, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.balanceErr != nil {
		return 0, f.balanceErr
	}
	b, ok := f.balances[id]
	if !ok {
		return 0, repository.ErrUserNotFound
	}
	return b, nil
}

func (f *fakeUserRepo) Debit(_ context.Context, id int, amount int64) (bool, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.balances[id] < amount {
		return false, nil
	}
	f.balances[id] -= amount
	return true, nil
}

func (f *fakeUserRepo) Credit(_ context.Context, id int, amount int64) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if _, ok := f.balances[id]; !ok {
		return repository.ErrUserNotFound
	}
	f.balances[id] += amount
	return nil
}

type scripted struct {
	*symbol.Table
	script symbol.Sampler
}

func (s scripted) Sample() symbol.Kind { return s.script.Sample() }

// greenColumn: column 0 green (base 2) over a red/orange checkerboard, refills alternate blue/yellow.
func greenColumn(t *testing.T) scripted {
	t.Helper()
	one := decimal.NewFromInt(1)
	tbl, err := symbol.NewTable([]symbol.Entry{
		{Kind: symbol.KindRed, BaseValue: one, Weight: 1},
		{Kind: symbol.KindOrange, BaseValue: one, Weight: 1},
		{Kind: symbol.KindYellow, BaseValue: one, Weight: 1},
		{Kind: symbol.KindGreen, BaseValue: decimal.NewFromInt(2), Weight: 1},
		{Kind: symbol.KindBlue, BaseValue: one, Weight: 1},
	}, symbol.NewSeededRNG(1))
	if err != nil {
		t.Fatal(err)
	}

	var fill []symbol.Kind
	for r := 0; r < 6; r++ {
		for c := 0; c < 6; c++ {
			switch {
			case c == 0:
				fill = append(fill, symbol.KindGreen)
			case (r+c)%2 == 0:
				fill = append(fill, symbol.KindRed)
			default:
				fill = append(fill, symbol.KindOrange)
			}
		}
	}
	return scripted{Table: tbl, script: symboltest.NewScript(fill, symbol.KindBlue, symbol.KindYellow)}
}

func newTestService(t *testing.T, balances map[int]int64) (*serv, *fakeUserRepo) {
	t.Helper()
	users := &fakeUserRepo{balances: balances}
	s := newService(session.Config{GridSize: 6}, greenColumn(t), users, stats_repo.NewStatsRepository(0), nil, nil)
	return s, users
}

func TestSpin(t *testing.T) {
	s, users := newTestService(t, map[int]int64{1: 100})

	res, err := s.Spin(context.Background(), 1, model.CascadeSpin{Bet: 10})
	if err != nil {
		t.Fatal(err)
	}

	if res.Payout != 120 || res.TotalPayout != "120" || res.RoundCount != 1 || res.Balance != 210 {
		t.Fatalf("result = payout %d (%s), rounds %d, balance %d", res.Payout, res.TotalPayout, res.RoundCount, res.Balance)
	}
	if users.balances[1] != 210 {
		t.Fatalf("stored balance = %d", users.balances[1])
	}
	if res.InitialBoard[0][0] != "green" || res.FinalBoard[0][0] != "blue" || res.FinalBoard[1][0] != "yellow" {
		t.Fatalf("boards = %v / %v", res.InitialBoard, res.FinalBoard)
	}

	if len(res.Steps) != 1 {
		t.Fatalf("steps = %d", len(res.Steps))
	}
	step := res.Steps[0]
	if len(step.Clusters) != 1 {
		t.Fatalf("clusters = %+v", step.Clusters)
	}
	cl := step.Clusters[0]
	if cl.Symbol != "green" || len(cl.Cells) != 6 || cl.Multiplier != "1" || cl.Payout != "120" {
		t.Fatalf("cluster = %+v", cl)
	}
	for r := 0; r < 6; r++ {
		if step.Multipliers[r][0] != 2 || step.Multipliers[r][1] != 1 {
			t.Fatalf("multipliers row %d = %v", r, step.Multipliers[r])
		}
	}

	stats := s.Stats()
	if stats.TotalSpins != 1 || stats.TotalBet != 10 || stats.TotalPayout != 120 || stats.LongestCascade != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestSpinBalanceReadFailsAfterSettle(t *testing.T) {
	s, users := newTestService(t, map[int]int64{1: 100})
	users.balanceErr = errors.New("db down")

	res, err := s.Spin(context.Background(), 1, model.CascadeSpin{Bet: 10})
	if err != nil {
		t.Fatalf("settled spin reported as failed: %v", err)
	}
	if !res.BalanceStale || res.Balance != 0 || res.Payout != 120 {
		t.Fatalf("result = payout %d, balance %d, stale %v", res.Payout, res.Balance, res.BalanceStale)
	}
	if users.balances[1] != 210 {
		t.Fatalf("stored balance = %d, want 210", users.balances[1])
	}
	if s.Stats().TotalSpins != 1 {
		t.Fatal("settled spin missing from stats")
	}
}

func TestSpinErrors(t *testing.T) {
	tests := []struct {
		name    string
		userID  int
		bet     int64
		wantErr error
	}{
		{name: "declined", userID: 1, bet: 10, wantErr: session.ErrInsufficientFunds},
		{name: "zero bet", userID: 1, bet: 0, wantErr: session.ErrInvalidBet},
		{name: "unknown user", userID: 9, bet: 1, wantErr: session.ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, users := newTestService(t, map[int]int64{1: 5})

			_, err := s.Spin(context.Background(), tt.userID, model.CascadeSpin{Bet: tt.bet})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if users.balances[1] != 5 {
				t.Fatalf("balance = %d, want 5", users.balances[1])
			}
			if s.Stats().TotalSpins != 0 {
				t.Fatal("failed spin recorded in stats")
			}
		})
	}
}

func TestDepositAndCheckData(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, map[int]int64{1: 5})

	if err := s.Deposit(ctx, 1, 0); !errors.Is(err, service.ErrInvalidAmount) {
		t.Fatalf("Deposit(0) err = %v", err)
	}
	if err := s.Deposit(ctx, 1, 45); err != nil {
		t.Fatal(err)
	}
	data, err := s.CheckData(ctx, 1)
	if err != nil || data.Balance != 50 {
		t.Fatalf("CheckData = %+v, %v", data, err)
	}
	if _, err := s.CheckData(ctx, 2); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("unknown user err = %v", err)
	}
}

func TestSessionPerPlayer(t *testing.T) {
	s, _ := newTestService(t, map[int]int64{1: 5, 2: 5})
	if s.session(1) != s.session(1) {
		t.Fatal("player session not reused")
	}
	if s.session(1) == s.session(2) {
		t.Fatal("players share a session")
	}
}

type fakeCascadeConfig struct {
	symbols    []config.SymbolConfig
	lossBiased bool
}

func (fakeCascadeConfig) GridSize() int                    { return 6 }
func (fakeCascadeConfig) MinClusterSize() int              { return 5 }
func (fakeCascadeConfig) MaxRounds() int                   { return 300 }
func (fakeCascadeConfig) MaxWinXBet() int64                { return 10000 }
func (f fakeCascadeConfig) LossBiased() bool               { return f.lossBiased }
func (fakeCascadeConfig) HazardWeightBoost() float64       { return 3 }
func (f fakeCascadeConfig) Symbols() []config.SymbolConfig { return f.symbols }

func TestNewCatalogue(t *testing.T) {
	rng := symbol.NewSeededRNG(1)

	tbl, err := NewCatalogue(fakeCascadeConfig{}, rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Entries()) != len(symbol.DefaultEntries()) {
		t.Fatalf("default catalogue has %d entries", len(tbl.Entries()))
	}

	tbl, err = NewCatalogue(fakeCascadeConfig{
		symbols: []config.SymbolConfig{
			{Name: "red", BaseValue: "0.5", Weight: 4},
			{Name: "hazard", BaseValue: "0", Weight: 1},
		},
		lossBiased: true,
	}, rng)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.TotalWeight() != 7 {
		t.Fatalf("total weight = %v, want 4 + 1*3", tbl.TotalWeight())
	}
	if !tbl.BaseValue(symbol.KindRed).Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("red value = %s", tbl.BaseValue(symbol.KindRed))
	}

	_, err = NewCatalogue(fakeCascadeConfig{symbols: []config.SymbolConfig{{Name: "wild", BaseValue: "1", Weight: 1}}}, rng)
	if err == nil {
		t.Fatal("unknown symbol accepted")
	}
}

func TestSessionConfig(t *testing.T) {
	got := SessionConfig(fakeCascadeConfig{})
	want := session.Config{GridSize: 6, MinClusterSize: 5, MaxRounds: 300, MaxWinXBet: 10000}
	if got != want {
		t.Fatalf("config = %+v", got)
	}
}
