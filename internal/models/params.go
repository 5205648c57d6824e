package models

// GameParams is a closed tagged variant over the supported games: exactly
// one branch must be set, matching the requested game type. Dispatch is an
// exhaustive switch, so adding a game is a compile-time-checked change.
type GameParams struct {
	Dice      *DiceParams      `json:"dice,omitempty"`
	Coinflip  *CoinflipParams  `json:"coinflip,omitempty"`
	Mines     *MinesParams     `json:"mines,omitempty"`
	Plinko    *PlinkoParams    `json:"plinko,omitempty"`
	Roulette  *RouletteParams  `json:"roulette,omitempty"`
	Blackjack *BlackjackParams `json:"blackjack,omitempty"`
}

type DiceParams struct {
	Target float64 `json:"target"`
	Over   bool    `json:"over"`
}

type CoinflipParams struct {
	Pick string `json:"pick"` // "heads" or "tails"
}

type MinesParams struct {
	MineCount int `json:"mine_count"`
}

type PlinkoRisk string

const (
	PlinkoRiskLow    PlinkoRisk = "low"
	PlinkoRiskMedium PlinkoRisk = "medium"
	PlinkoRiskHigh   PlinkoRisk = "high"
)

type PlinkoParams struct {
	Rows int        `json:"rows"` // 8, 12 or 16
	Risk PlinkoRisk `json:"risk"`
}

type RouletteBetType string

const (
	RouletteBetStraight RouletteBetType = "straight"
	RouletteBetRed      RouletteBetType = "red"
	RouletteBetBlack    RouletteBetType = "black"
	RouletteBetOdd      RouletteBetType = "odd"
	RouletteBetEven     RouletteBetType = "even"
	RouletteBetLow      RouletteBetType = "low"  // 1-18
	RouletteBetHigh     RouletteBetType = "high" // 19-36
	RouletteBetDozen    RouletteBetType = "dozen"
	RouletteBetColumn   RouletteBetType = "column"
)

// RouletteBet is one predicate on the spun pocket. Pick is the straight
// number, or the 1-based dozen/column index; ignored for the even-money
// bets.
type RouletteBet struct {
	Type   RouletteBetType `json:"type"`
	Pick   int             `json:"pick,omitempty"`
	Amount float64         `json:"amount"`
}

// RouletteParams allows several predicates on one spin; the bet amounts
// must sum to the wager.
type RouletteParams struct {
	Bets []RouletteBet `json:"bets"`
}

type BlackjackParams struct{}

// Results. Each game persists its own payload in Bet.Result; for the
// multi-step games the payload doubles as the durable round state.

type DiceResult struct {
	Roll   float64 `json:"roll"`
	Target float64 `json:"target"`
	Over   bool    `json:"over"`
	Win    bool    `json:"win"`
}

type CoinflipResult struct {
	Side string `json:"side"`
	Pick string `json:"pick"`
	Win  bool   `json:"win"`
}

// MinesState is the authoritative round state for a mines bet. Mines stays
// server-side until the round settles; clients only ever see Revealed.
type MinesState struct {
	Phase      string  `json:"phase"`
	GridSize   int     `json:"grid_size"`
	MineCount  int     `json:"mine_count"`
	Mines      []int   `json:"mines"`
	Revealed   []int   `json:"revealed"`
	Multiplier float64 `json:"multiplier"`
	HitMine    *int    `json:"hit_mine,omitempty"`
}

type PlinkoResult struct {
	Rows       int        `json:"rows"`
	Risk       PlinkoRisk `json:"risk"`
	Path       []int      `json:"path"` // 0 = left, 1 = right per row
	Bucket     int        `json:"bucket"`
	Multiplier float64    `json:"multiplier"`
}

type RouletteResult struct {
	Pocket int             `json:"pocket"`
	Color  string          `json:"color"`
	Bets   []RouletteBet   `json:"bets"`
	Wins   []RouletteWin   `json:"wins"`
}

type RouletteWin struct {
	Type   RouletteBetType `json:"type"`
	Pick   int             `json:"pick,omitempty"`
	Payout float64         `json:"payout"`
}

// BlackjackState is the durable round state for a blackjack bet. Cards are
// shoe indexes 0..51; NextCursor is the next float to consume under the
// round's nonce, so the hand is resumable from this payload alone.
type BlackjackState struct {
	Phase       string `json:"phase"`
	PlayerCards []int  `json:"player_cards"`
	DealerCards []int  `json:"dealer_cards"`
	Doubled     bool   `json:"doubled"`
	NextCursor  int    `json:"next_cursor"`
	Outcome     string `json:"outcome,omitempty"` // win, lose, push, blackjack
}
