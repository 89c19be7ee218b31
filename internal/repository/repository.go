package repository

import (
	"clusterpay_backend/internal/model"
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	GetBalance(ctx context.Context, id int) (int64, error)
	// Debit subtracts amount only if the balance covers it; false means it does not.
	Debit(ctx context.Context, id int, amount int64) (bool, error)
	Credit(ctx context.Context, id int, amount int64) error
}

type StatsRepository interface {
	UpdateState(rec model.SpinRecord)
	State() model.CascadeStats
}
