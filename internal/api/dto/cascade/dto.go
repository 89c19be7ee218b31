package cascade

type SpinRequest struct {
	Bet int64 `json:"bet"` // stake in whole units, > 0
}

type DepositRequest struct {
	Amount int64 `json:"amount"`
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type ClusterWin struct {
	Symbol     string     `json:"symbol"`
	Cells      []Position `json:"cells"`
	Multiplier string     `json:"multiplier"` // mean cell multiplier, decimal string
	Payout     string     `json:"payout"`
}

// Step - board after one cascade round, for the client animation
type Step struct {
	Index       int          `json:"index"`
	Clusters    []ClusterWin `json:"clusters"`
	Payout      string       `json:"payout"`
	Board       [][]string   `json:"board"`
	Multipliers [][]int      `json:"multipliers"`
}

type SpinResponse struct {
	InitialBoard [][]string `json:"initial_board"`
	Steps        []Step     `json:"steps"`
	FinalBoard   [][]string `json:"final_board"`
	RoundCount   int        `json:"round_count"`
	TotalPayout  string     `json:"total_payout"` // exact
	Payout       int64      `json:"payout"`       // credited
	Capped       bool       `json:"capped"`
	Balance      int64      `json:"balance"`
	BalanceStale bool       `json:"balance_stale,omitempty"`
}

type DataResponse struct {
	Balance int64 `json:"balance"`
}

type StatsResponse struct {
	TotalSpins     int64   `json:"total_spins"`
	TotalBet       int64   `json:"total_bet"`
	TotalPayout    int64   `json:"total_payout"`
	WinningSpins   int64   `json:"winning_spins"`
	CappedSpins    int64   `json:"capped_spins"`
	LongestCascade int     `json:"longest_cascade"`
	CurrentRTP     float64 `json:"current_rtp"`
	WindowRTP      float64 `json:"window_rtp"`
	WindowSize     int     `json:"window_size"`
}
