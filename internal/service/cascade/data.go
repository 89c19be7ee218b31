package cascade

import (
	"clusterpay_backend/internal/model"
	"clusterpay_backend/internal/service"
	"context"
)

// Deposit adds amount to the player balance
func (s *serv) Deposit(ctx context.Context, userID int, amount int64) error {
	if amount <= 0 {
		return service.ErrInvalidAmount
	}
	return s.userRepo.Credit(ctx, userID, amount)
}

// CheckData - current balance of the player
func (s *serv) CheckData(ctx context.Context, userID int) (*model.CascadeData, error) {
	balance, err := s.userRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.CascadeData{Balance: balance}, nil
}

func (s *serv) Stats() model.CascadeStats {
	return s.statsRepo.State()
}
