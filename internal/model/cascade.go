package model

type CascadeSpin struct {
	Bet int64
}

type Position struct {
	Row int
	Col int
}

// ClusterWin - one scored cluster of a cascade step
type ClusterWin struct {
	Symbol     string
	Cells      []Position
	Multiplier string
	Payout     string
}

// CascadeStep - board after one settled round
type CascadeStep struct {
	Index       int
	Clusters    []ClusterWin
	Payout      string
	Board       [][]string
	Multipliers [][]int
}

type CascadeSpinResult struct {
	InitialBoard [][]string
	Steps        []CascadeStep
	FinalBoard   [][]string
	RoundCount   int
	TotalPayout  string // exact, before rounding
	Payout       int64  // credited
	Capped       bool
	Balance      int64
	BalanceStale bool // Balance could not be read after the spin settled
}

type CascadeData struct {
	Balance int64
}

// SpinRecord - settled spin as seen by the stats repository
type SpinRecord struct {
	Bet    int64
	Payout int64
	Rounds int
	Capped bool
}

type CascadeStats struct {
	TotalSpins     int64
	TotalBet       int64
	TotalPayout    int64
	WinningSpins   int64
	CappedSpins    int64
	LongestCascade int
	CurrentRTP     float64
	WindowRTP      float64
	WindowSize     int
}
