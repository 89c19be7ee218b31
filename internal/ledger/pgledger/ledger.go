// Package pgledger settles one player's spins against the users table.
package pgledger

import (
	"clusterpay_backend/internal/repository"
	"context"
	"errors"
	"fmt"
)

var ErrNegativeAmount = errors.New("amount must not be negative")

type Ledger struct {
	repo   repository.UserRepository
	userID int
}

func New(repo repository.UserRepository, userID int) *Ledger {
	return &Ledger{repo: repo, userID: userID}
}

func (l *Ledger) Debit(ctx context.Context, amount int64) (bool, error) {
	if amount < 0 {
		return false, ErrNegativeAmount
	}
	ok, err := l.repo.Debit(ctx, l.userID, amount)
	if err != nil {
		return false, fmt.Errorf("user %d: %w", l.userID, err)
	}
	return ok, nil
}

// Credit skips the round trip for a zero payout.
func (l *Ledger) Credit(ctx context.Context, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	if amount == 0 {
		return nil
	}
	if err := l.repo.Credit(ctx, l.userID, amount); err != nil {
		return fmt.Errorf("user %d: %w", l.userID, err)
	}
	return nil
}

func (l *Ledger) Balance(ctx context.Context) (int64, error) {
	return l.repo.GetBalance(ctx, l.userID)
}
