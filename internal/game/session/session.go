package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"clusterpay_backend/internal/game/cascade"
	"clusterpay_backend/internal/game/cluster"
	"clusterpay_backend/internal/game/grid"
	"clusterpay_backend/internal/game/symbol"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultGridSize = 6

var (
	ErrInvalidBet        = errors.New("bet must be positive")
	ErrInsufficientFunds = errors.New("not enough balance")
)

// Ledger - external currency ledger of one player.
type Ledger interface {
	// Debit reserves amount; false means the bet is declined.
	Debit(ctx context.Context, amount int64) (bool, error)
	Credit(ctx context.Context, amount int64) error
}

// Catalogue samples symbols and prices them.
type Catalogue interface {
	symbol.Sampler
	cascade.BaseValuer
}

// Config - game parameters, fixed for the session lifetime.
type Config struct {
	GridSize       int
	MinClusterSize int
	MaxRounds      int
	// MaxWinXBet caps the credited payout at MaxWinXBet*bet; 0 disables the cap.
	MaxWinXBet int64
}

func (c Config) withDefaults() Config {
	if c.GridSize <= 0 {
		c.GridSize = DefaultGridSize
	}
	if c.MinClusterSize <= 0 {
		c.MinClusterSize = cluster.DefaultMinSize
	}
	if c.MaxRounds <= 0 {
		c.MaxRounds = cascade.DefaultMaxRounds
	}
	if c.MaxWinXBet < 0 {
		c.MaxWinXBet = 0
	}
	return c
}

// Result - settled spin.
type Result struct {
	cascade.Outcome
	Bet     int64
	Payout  int64 // amount credited to the ledger
	Initial grid.Snapshot
}

// Session - entry point of the engine for one player. Spins on one session run one at a time.
type Session struct {
	mu        sync.Mutex
	cfg       Config
	catalogue Catalogue
	ledger    Ledger
	txManager trm.Manager
	resolver  *cascade.Resolver
	logger    *zap.Logger
	onRound   func(cascade.Round)
}

type Option func(*Session)

// WithTxManager runs debit, resolve and credit inside one transaction.
func WithTxManager(m trm.Manager) Option {
	return func(s *Session) { s.txManager = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRoundObserver forwards every settled round to fn, e.g. for animation.
func WithRoundObserver(fn func(cascade.Round)) Option {
	return func(s *Session) { s.onRound = fn }
}

// New creates a session settling against ledger.
func New(cfg Config, catalogue Catalogue, ledger Ledger, opts ...Option) *Session {
	if catalogue == nil || ledger == nil {
		panic("session: nil catalogue or ledger")
	}
	s := &Session{
		cfg:       cfg.withDefaults(),
		catalogue: catalogue,
		ledger:    ledger,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	resolverOpts := []cascade.Option{
		cascade.WithMaxRounds(s.cfg.MaxRounds),
		cascade.WithLogger(s.logger),
	}
	if s.onRound != nil {
		resolverOpts = append(resolverOpts, cascade.WithRoundObserver(s.onRound))
	}
	s.resolver = cascade.NewResolver(cluster.NewDetector(s.cfg.MinClusterSize), catalogue, resolverOpts...)
	return s
}

// Spin debits bet, plays a fresh grid to a stable state and credits the payout.
// A declined debit returns ErrInsufficientFunds with no currency movement.
func (s *Session) Spin(ctx context.Context, bet int64) (*Result, error) {
	if bet <= 0 {
		return nil, ErrInvalidBet
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var res *Result
	err := s.do(ctx, func(txCtx context.Context) error {
		ok, err := s.ledger.Debit(txCtx, bet)
		if err != nil {
			return fmt.Errorf("debit: %w", err)
		}
		if !ok {
			return ErrInsufficientFunds
		}

		res, err = s.play(txCtx, bet)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrInsufficientFunds) {
			s.logger.Error("spin failed", zap.Int64("bet", bet), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("spin settled",
		zap.Int64("bet", bet),
		zap.Int64("payout", res.Payout),
		zap.Int("rounds", res.RoundCount),
		zap.Bool("capped", res.Capped))
	return res, nil
}

func (s *Session) do(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txManager == nil {
		return fn(ctx)
	}
	return s.txManager.Do(ctx, fn)
}

// play runs after a successful debit. Anything that stops it before the credit refunds the bet,
// including a panic, which is re-raised after the refund.
func (s *Session) play(ctx context.Context, bet int64) (res *Result, err error) {
	settled := false
	defer func() {
		if settled {
			return
		}
		p := recover()
		if rerr := s.ledger.Credit(context.WithoutCancel(ctx), bet); rerr != nil {
			s.logger.Error("refund failed", zap.Int64("bet", bet), zap.Error(rerr))
			err = errors.Join(err, fmt.Errorf("refund: %w", rerr))
		} else {
			s.logger.Warn("bet refunded", zap.Int64("bet", bet), zap.Any("panic", p), zap.Error(err))
		}
		if p != nil {
			panic(p)
		}
	}()

	g := grid.New(s.cfg.GridSize, s.catalogue)
	g.Fill()
	initial := g.Snapshot()

	out, err := s.resolver.Resolve(ctx, g, decimal.NewFromInt(bet))
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	payout := s.creditAmount(out.TotalPayout, bet)
	if err := s.ledger.Credit(ctx, payout); err != nil {
		return nil, fmt.Errorf("credit: %w", err)
	}
	settled = true

	return &Result{
		Outcome: out,
		Bet:     bet,
		Payout:  payout,
		Initial: initial,
	}, nil
}

var maxCredit = decimal.NewFromInt(math.MaxInt64)

// creditAmount rounds the exact payout down to whole units and applies the max win cap.
// The cap is compared in decimal and the result saturates at math.MaxInt64.
func (s *Session) creditAmount(total decimal.Decimal, bet int64) int64 {
	payout := total.Floor()
	if s.cfg.MaxWinXBet > 0 {
		if limit := decimal.NewFromInt(s.cfg.MaxWinXBet).Mul(decimal.NewFromInt(bet)); payout.GreaterThan(limit) {
			s.logger.Info("payout capped", zap.String("payout", payout.String()), zap.String("cap", limit.String()))
			payout = limit
		}
	}
	if payout.GreaterThan(maxCredit) {
		s.logger.Warn("payout saturated", zap.String("payout", payout.String()))
		payout = maxCredit
	}
	return payout.IntPart()
}
