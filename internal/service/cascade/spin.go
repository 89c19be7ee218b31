package cascade

import (
	"clusterpay_backend/internal/game/grid"
	"clusterpay_backend/internal/game/session"
	"clusterpay_backend/internal/model"
	"context"

	"go.uber.org/zap"
)

// Spin plays one paid spin for the player and returns the animation steps with the new balance.
func (s *serv) Spin(ctx context.Context, userID int, req model.CascadeSpin) (*model.CascadeSpinResult, error) {
	res, err := s.session(userID).Spin(ctx, req.Bet)
	if err != nil {
		return nil, err
	}

	s.statsRepo.UpdateState(model.SpinRecord{
		Bet:    res.Bet,
		Payout: res.Payout,
		Rounds: res.RoundCount,
		Capped: res.Capped,
	})

	out := spinResult(res)

	// the spin is settled at this point, so a failed read only leaves the balance unknown
	balance, err := s.userRepo.GetBalance(ctx, userID)
	if err != nil {
		s.logger.Warn("balance read after spin failed",
			zap.Int("user_id", userID),
			zap.Int64("payout", res.Payout),
			zap.Error(err))
		out.BalanceStale = true
		return out, nil
	}
	out.Balance = balance
	return out, nil
}

func spinResult(res *session.Result) *model.CascadeSpinResult {
	out := &model.CascadeSpinResult{
		InitialBoard: res.Initial.Names(),
		Steps:        make([]model.CascadeStep, 0, len(res.Rounds)),
		FinalBoard:   res.Final.Names(),
		RoundCount:   res.RoundCount,
		TotalPayout:  res.TotalPayout.String(),
		Payout:       res.Payout,
		Capped:       res.Capped,
	}

	for _, round := range res.Rounds {
		step := model.CascadeStep{
			Index:       round.Index,
			Clusters:    make([]model.ClusterWin, 0, len(round.Clusters)),
			Payout:      round.Payout.String(),
			Board:       round.Board.Names(),
			Multipliers: round.Board.Multipliers,
		}
		for _, cl := range round.Clusters {
			step.Clusters = append(step.Clusters, model.ClusterWin{
				Symbol:     cl.Kind.String(),
				Cells:      positions(cl.Cells),
				Multiplier: cl.Multiplier.String(),
				Payout:     cl.Payout.String(),
			})
		}
		out.Steps = append(out.Steps, step)
	}

	return out
}

func positions(cells []grid.Position) []model.Position {
	out := make([]model.Position, len(cells))
	for i, c := range cells {
		out[i] = model.Position{Row: c.Row, Col: c.Col}
	}
	return out
}
