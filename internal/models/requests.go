package models

// PlaceBetRequest starts a round. IdempotencyKey is caller-supplied; a
// retry with the same key replays the original bet instead of re-running.
type PlaceBetRequest struct {
	Game           GameType   `json:"game" binding:"required"`
	Amount         float64    `json:"amount" binding:"required,gt=0"`
	Params         GameParams `json:"params"`
	IdempotencyKey string     `json:"idempotency_key" binding:"required"`
}

type RoundActionType string

const (
	ActionReveal RoundActionType = "reveal"
	ActionHit    RoundActionType = "hit"
	ActionStand  RoundActionType = "stand"
	ActionDouble RoundActionType = "double"
)

// RoundAction advances a multi-step round. Cell is the tile index for a
// mines reveal; unused for the card actions.
type RoundAction struct {
	Type RoundActionType `json:"type" binding:"required"`
	Cell int             `json:"cell"`
}

type AdvanceRoundRequest struct {
	BetID          string      `json:"bet_id" binding:"required"`
	Action         RoundAction `json:"action" binding:"required"`
	IdempotencyKey string      `json:"idempotency_key" binding:"required"`
}

type CashOutRequest struct {
	BetID          string `json:"bet_id" binding:"required"`
	IdempotencyKey string `json:"idempotency_key" binding:"required"`
}

type CreditRequest struct {
	UserID    int64   `json:"user_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Type      string  `json:"type"` // deposit, withdraw, bonus; defaults to deposit
	Reference string  `json:"reference" binding:"required"`
}

type SetClientSeedRequest struct {
	ClientSeed string `json:"client_seed" binding:"required,min=1,max=64"`
}

// VerifyRequest recomputes a settled outcome from first principles.
type VerifyRequest struct {
	Game       GameType   `json:"game" binding:"required"`
	ServerSeed string     `json:"server_seed" binding:"required"`
	ClientSeed string     `json:"client_seed" binding:"required"`
	Nonce      int64      `json:"nonce"`
	Params     GameParams `json:"params"`
}

type FairnessResponse struct {
	ServerSeedHash string `json:"server_seed_hash"`
	ClientSeed     string `json:"client_seed"`
	Nonce          int64  `json:"nonce"`
}

type RotateSeedResponse struct {
	RevealedServerSeed     string `json:"revealed_server_seed"`
	RevealedServerSeedHash string `json:"revealed_server_seed_hash"`
	NextServerSeedHash     string `json:"next_server_seed_hash"`
}

type RevealResponse struct {
	BetID          string `json:"bet_id"`
	ServerSeed     string `json:"server_seed"`
	ServerSeedHash string `json:"server_seed_hash"`
	ClientSeed     string `json:"client_seed"`
	Nonce          int64  `json:"nonce"`
	RngProof       string `json:"rng_proof"`
}
