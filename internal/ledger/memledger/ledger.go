// Package memledger keeps a player balance in memory. Used by the simulator and tests.
package memledger

import (
	"context"
	"errors"
	"sync"
)

var ErrNegativeAmount = errors.New("amount must not be negative")

type Ledger struct {
	mtx      sync.Mutex
	balance  int64
	debited  int64
	credited int64
}

func New(balance int64) *Ledger {
	return &Ledger{balance: balance}
}

// Debit takes amount if the balance covers it.
func (l *Ledger) Debit(_ context.Context, amount int64) (bool, error) {
	if amount < 0 {
		return false, ErrNegativeAmount
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if l.balance < amount {
		return false, nil
	}
	l.balance -= amount
	l.debited += amount
	return true, nil
}

func (l *Ledger) Credit(_ context.Context, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.balance += amount
	l.credited += amount
	return nil
}

func (l *Ledger) Balance() int64 {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.balance
}

// Totals returns everything debited and credited so far.
func (l *Ledger) Totals() (debited, credited int64) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.debited, l.credited
}
