package converter

import (
	"clusterpay_backend/internal/api/dto/cascade"
	"clusterpay_backend/internal/model"
)

func ToCascadeSpin(req cascade.SpinRequest) model.CascadeSpin {
	return model.CascadeSpin{
		Bet: req.Bet,
	}
}

func ToCascadeSpinResponse(res model.CascadeSpinResult) cascade.SpinResponse {
	return cascade.SpinResponse{
		InitialBoard: res.InitialBoard,
		Steps:        toSteps(res.Steps),
		FinalBoard:   res.FinalBoard,
		RoundCount:   res.RoundCount,
		TotalPayout:  res.TotalPayout,
		Payout:       res.Payout,
		Capped:       res.Capped,
		Balance:      res.Balance,
		BalanceStale: res.BalanceStale,
	}
}

func toSteps(steps []model.CascadeStep) []cascade.Step {
	out := make([]cascade.Step, 0, len(steps))
	for _, s := range steps {
		out = append(out, cascade.Step{
			Index:       s.Index,
			Clusters:    toClusterWins(s.Clusters),
			Payout:      s.Payout,
			Board:       s.Board,
			Multipliers: s.Multipliers,
		})
	}
	return out
}

func toClusterWins(wins []model.ClusterWin) []cascade.ClusterWin {
	out := make([]cascade.ClusterWin, 0, len(wins))
	for _, w := range wins {
		cells := make([]cascade.Position, 0, len(w.Cells))
		for _, p := range w.Cells {
			cells = append(cells, cascade.Position{Row: p.Row, Col: p.Col})
		}
		out = append(out, cascade.ClusterWin{
			Symbol:     w.Symbol,
			Cells:      cells,
			Multiplier: w.Multiplier,
			Payout:     w.Payout,
		})
	}
	return out
}

func ToCascadeDataResponse(data model.CascadeData) cascade.DataResponse {
	return cascade.DataResponse{
		Balance: data.Balance,
	}
}

func ToCascadeStatsResponse(s model.CascadeStats) cascade.StatsResponse {
	return cascade.StatsResponse{
		TotalSpins:     s.TotalSpins,
		TotalBet:       s.TotalBet,
		TotalPayout:    s.TotalPayout,
		WinningSpins:   s.WinningSpins,
		CappedSpins:    s.CappedSpins,
		LongestCascade: s.LongestCascade,
		CurrentRTP:     s.CurrentRTP,
		WindowRTP:      s.WindowRTP,
		WindowSize:     s.WindowSize,
	}
}
