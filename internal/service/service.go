package service

import (
	"clusterpay_backend/internal/model"
	"context"
	"errors"
)

var ErrInvalidAmount = errors.New("amount must be positive")

type CascadeService interface {
	Spin(ctx context.Context, userID int, req model.CascadeSpin) (*model.CascadeSpinResult, error)
	Deposit(ctx context.Context, userID int, amount int64) error
	CheckData(ctx context.Context, userID int) (*model.CascadeData, error)
	Stats() model.CascadeStats
}
