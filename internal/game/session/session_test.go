package session

import (
	"context"
	"errors"
	"math"
	"testing"

	"clusterpay_backend/internal/game/cascade"
	"clusterpay_backend/internal/game/symbol"
	"clusterpay_backend/internal/game/symbol/symboltest"
	"clusterpay_backend/internal/ledger/memledger"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/shopspring/decimal"
)

const (
	R = symbol.KindRed
	O = symbol.KindOrange
	Y = symbol.KindYellow
	G = symbol.KindGreen
	B = symbol.KindBlue
)

// scripted prices with a table and draws from a script
type scripted struct {
	*symbol.Table
	script symbol.Sampler
}

func (s scripted) Sample() symbol.Kind { return s.script.Sample() }

type panicking struct{ *symbol.Table }

func (panicking) Sample() symbol.Kind { panic("broken sampler") }

func table(t *testing.T, green string) *symbol.Table {
	t.Helper()
	one := decimal.NewFromInt(1)
	tbl, err := symbol.NewTable([]symbol.Entry{
		{Kind: R, BaseValue: one, Weight: 1},
		{Kind: O, BaseValue: one, Weight: 1},
		{Kind: Y, BaseValue: one, Weight: 1},
		{Kind: G, BaseValue: decimal.RequireFromString(green), Weight: 1},
		{Kind: B, BaseValue: one, Weight: 1},
	}, symbol.NewSeededRNG(3))
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

// clusterScript fills a 6x6 board with green in column 0 over a red/orange checkerboard, then
// refills column 0 with blue/yellow.
func clusterScript() *symboltest.Script {
	var fill []symbol.Kind
	for r := 0; r < 6; r++ {
		for c := 0; c < 6; c++ {
			switch {
			case c == 0:
				fill = append(fill, G)
			case (r+c)%2 == 0:
				fill = append(fill, R)
			default:
				fill = append(fill, O)
			}
		}
	}
	return symboltest.NewScript(fill, B, Y)
}

// recordingLedger counts calls on top of an in-memory ledger
type recordingLedger struct {
	*memledger.Ledger
	debits, credits []int64
	onDebit         func()
}

func (l *recordingLedger) Debit(ctx context.Context, amount int64) (bool, error) {
	l.debits = append(l.debits, amount)
	if l.onDebit != nil {
		l.onDebit()
	}
	return l.Ledger.Debit(ctx, amount)
}

func (l *recordingLedger) Credit(ctx context.Context, amount int64) error {
	l.credits = append(l.credits, amount)
	return l.Ledger.Credit(ctx, amount)
}

func TestSpinRejectsInvalidBet(t *testing.T) {
	ledger := &recordingLedger{Ledger: memledger.New(100)}
	s := New(Config{}, table(t, "2"), ledger)

	for _, bet := range []int64{0, -5} {
		if _, err := s.Spin(context.Background(), bet); !errors.Is(err, ErrInvalidBet) {
			t.Fatalf("Spin(%d) err = %v, want ErrInvalidBet", bet, err)
		}
	}
	if len(ledger.debits) != 0 || len(ledger.credits) != 0 {
		t.Fatal("ledger touched for an invalid bet")
	}
}

func TestSpinDeclined(t *testing.T) {
	ledger := &recordingLedger{Ledger: memledger.New(5)}
	script := clusterScript()
	s := New(Config{}, scripted{Table: table(t, "2"), script: script}, ledger)

	res, err := s.Spin(context.Background(), 10)
	if !errors.Is(err, ErrInsufficientFunds) || res != nil {
		t.Fatalf("Spin(10) = %v, %v; want ErrInsufficientFunds", res, err)
	}
	if ledger.Balance() != 5 {
		t.Fatalf("balance = %d, want 5", ledger.Balance())
	}
	if script.Drawn != 0 {
		t.Fatal("grid was filled for a declined bet")
	}
	if len(ledger.credits) != 0 {
		t.Fatal("credit requested for a declined bet")
	}
}

func TestSpinSettlesPayout(t *testing.T) {
	tests := []struct {
		name        string
		green       string
		cfg         Config
		wantTotal   string
		wantPayout  int64
		wantBalance int64
	}{
		{name: "whole payout", green: "2", wantTotal: "12", wantPayout: 12, wantBalance: 111},
		{name: "fraction rounded down", green: "0.25", wantTotal: "1.5", wantPayout: 1, wantBalance: 100},
		{name: "below one unit", green: "0.15", wantTotal: "0.9", wantPayout: 0, wantBalance: 99},
		{name: "max win cap", green: "2", cfg: Config{MaxWinXBet: 5}, wantTotal: "12", wantPayout: 5, wantBalance: 104},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &recordingLedger{Ledger: memledger.New(100)}
			s := New(tt.cfg, scripted{Table: table(t, tt.green), script: clusterScript()}, ledger)

			res, err := s.Spin(context.Background(), 1)
			if err != nil {
				t.Fatal(err)
			}
			if res.RoundCount != 1 {
				t.Fatalf("RoundCount = %d, want 1", res.RoundCount)
			}
			if !res.TotalPayout.Equal(decimal.RequireFromString(tt.wantTotal)) {
				t.Errorf("TotalPayout = %s, want %s", res.TotalPayout, tt.wantTotal)
			}
			if res.Payout != tt.wantPayout {
				t.Errorf("Payout = %d, want %d", res.Payout, tt.wantPayout)
			}
			if ledger.Balance() != tt.wantBalance {
				t.Errorf("balance = %d, want %d", ledger.Balance(), tt.wantBalance)
			}
			if len(ledger.credits) != 1 || ledger.credits[0] != tt.wantPayout {
				t.Errorf("credits = %v, want [%d]", ledger.credits, tt.wantPayout)
			}
			if res.Initial.Kinds[0][0] != G || res.Final.Kinds[0][0] != B {
				t.Errorf("initial/final boards not reported")
			}
		})
	}
}

// checkerFill - red/orange checkerboard only: no cluster
func checkerFill() []symbol.Kind {
	var fill []symbol.Kind
	for r := 0; r < 6; r++ {
		for c := 0; c < 6; c++ {
			if (r+c)%2 == 0 {
				fill = append(fill, R)
			} else {
				fill = append(fill, O)
			}
		}
	}
	return fill
}

func TestSpinZeroPayoutStillCredits(t *testing.T) {
	ledger := &recordingLedger{Ledger: memledger.New(10)}
	s := New(Config{}, scripted{Table: table(t, "2"), script: symboltest.NewScript(checkerFill())}, ledger)

	res, err := s.Spin(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if res.RoundCount != 0 || res.Payout != 0 {
		t.Fatalf("rounds=%d payout=%d, want 0 0", res.RoundCount, res.Payout)
	}
	if len(ledger.credits) != 1 || ledger.credits[0] != 0 {
		t.Fatalf("credits = %v, want [0]", ledger.credits)
	}
	if ledger.Balance() != 7 {
		t.Fatalf("balance = %d, want 7", ledger.Balance())
	}
}

func TestSpinLargeBetCap(t *testing.T) {
	const bet = 1_000_000_000_000_000

	tests := []struct {
		name       string
		script     *symboltest.Script
		wantPayout int64
	}{
		{name: "no cluster", script: symboltest.NewScript(checkerFill()), wantPayout: 0},
		{name: "cluster below cap", script: clusterScript(), wantPayout: 12 * bet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &recordingLedger{Ledger: memledger.New(bet)}
			s := New(Config{MaxWinXBet: 10000}, scripted{Table: table(t, "2"), script: tt.script}, ledger)

			res, err := s.Spin(context.Background(), bet)
			if err != nil {
				t.Fatal(err)
			}
			if res.Payout != tt.wantPayout {
				t.Errorf("Payout = %d, want %d", res.Payout, tt.wantPayout)
			}
			if len(ledger.credits) != 1 || ledger.credits[0] != tt.wantPayout {
				t.Errorf("credits = %v, want [%d]", ledger.credits, tt.wantPayout)
			}
		})
	}
}

func TestCreditAmount(t *testing.T) {
	tests := []struct {
		name  string
		maxX  int64
		total string
		bet   int64
		want  int64
	}{
		{name: "floor", total: "13.99", bet: 1, want: 13},
		{name: "cap", maxX: 10, total: "500", bet: 3, want: 30},
		{name: "cap above int64", maxX: 10000, total: "7", bet: math.MaxInt64 / 2, want: 7},
		{name: "saturated without cap", total: "1e20", bet: 1, want: math.MaxInt64},
		{name: "saturated under cap", maxX: 10000, total: "1e25", bet: math.MaxInt64 / 2, want: math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{MaxWinXBet: tt.maxX}, table(t, "2"), memledger.New(0))
			if got := s.creditAmount(decimal.RequireFromString(tt.total), tt.bet); got != tt.want {
				t.Fatalf("creditAmount(%s, %d) = %d, want %d", tt.total, tt.bet, got, tt.want)
			}
		})
	}
}

func TestSpinCancelledAfterDebitRefunds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ledger := &recordingLedger{Ledger: memledger.New(50), onDebit: cancel}
	s := New(Config{}, scripted{Table: table(t, "2"), script: clusterScript()}, ledger)

	_, err := s.Spin(ctx, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if ledger.Balance() != 50 {
		t.Fatalf("balance = %d, want 50 after refund", ledger.Balance())
	}
	if len(ledger.credits) != 1 || ledger.credits[0] != 10 {
		t.Fatalf("credits = %v, want refund [10]", ledger.credits)
	}
}

func TestSpinPanicRefundsAndRepanics(t *testing.T) {
	ledger := &recordingLedger{Ledger: memledger.New(50)}
	s := New(Config{}, panicking{Table: table(t, "2")}, ledger)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("invariant panic was swallowed")
			}
		}()
		_, _ = s.Spin(context.Background(), 10)
	}()

	if ledger.Balance() != 50 {
		t.Fatalf("balance = %d, want 50 after refund", ledger.Balance())
	}
}

// fakeManager records that work ran inside it
type fakeManager struct{ calls int }

func (m *fakeManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func (m *fakeManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

func TestSpinRunsInsideTransaction(t *testing.T) {
	m := &fakeManager{}
	ledger := memledger.New(10)
	s := New(Config{}, table(t, "2"), ledger, WithTxManager(m))

	if _, err := s.Spin(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if m.calls != 1 {
		t.Fatalf("transaction manager used %d times, want 1", m.calls)
	}
}

func TestSpinStreamsRounds(t *testing.T) {
	var rounds []int
	s := New(Config{}, scripted{Table: table(t, "2"), script: clusterScript()}, memledger.New(10),
		WithRoundObserver(func(r cascade.Round) { rounds = append(rounds, r.Index) }))

	res, err := s.Spin(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(rounds) != res.RoundCount || len(res.Rounds) != res.RoundCount {
		t.Fatalf("observer saw %d rounds, outcome has %d", len(rounds), res.RoundCount)
	}
}

func TestSpinRandomBalanceIsConserved(t *testing.T) {
	tbl, err := symbol.NewTable(symbol.DefaultEntries(), symbol.NewSeededRNG(99))
	if err != nil {
		t.Fatal(err)
	}
	ledger := memledger.New(1_000_000)
	s := New(Config{}, tbl, ledger)

	var won int64
	for i := 0; i < 200; i++ {
		res, err := s.Spin(context.Background(), 10)
		if err != nil {
			t.Fatal(err)
		}
		if res.Payout < 0 || res.Payout != res.TotalPayout.Floor().IntPart() {
			t.Fatalf("spin %d: payout %d for total %s", i, res.Payout, res.TotalPayout)
		}
		won += res.Payout
	}
	if want := 1_000_000 - 200*10 + won; ledger.Balance() != want {
		t.Fatalf("balance = %d, want %d", ledger.Balance(), want)
	}
}
