package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"casino-engine-backend/internal/config"
	"casino-engine-backend/internal/fair"
	"casino-engine-backend/internal/games"
	"casino-engine-backend/internal/models"
	"casino-engine-backend/internal/store"
)

// Engine runs the wagering pipeline. Every money-moving entry point goes
// through the same stages: idempotency, guard checks, then a single
// database transaction that holds the user row lock while the nonce is
// consumed, the ledger moves and the bet row is written. Nothing outside
// that transaction can observe a half-settled round.
type Engine struct {
	db     *gorm.DB
	users  *store.UserRepository
	bets   *store.BetRepository
	txns   *store.TransactionRepository
	ledger *Ledger
	dedup  *Deduplicator
	guard  *Guard
	plinko *games.PlinkoTables
	cfg    config.EngineConfig
	log    *logrus.Logger

	// onSettle receives every freshly settled bet, already sanitized for
	// public consumption. Wired to the websocket hub in main.
	onSettle func(*models.Bet)
}

func NewEngine(db *gorm.DB, rdb *redis.Client, cfg config.EngineConfig, log *logrus.Logger) *Engine {
	users := store.NewUserRepository(db)
	txns := store.NewTransactionRepository(db)

	return &Engine{
		db:     db,
		users:  users,
		bets:   store.NewBetRepository(db),
		txns:   txns,
		ledger: NewLedger(db, users, txns, log),
		dedup:  NewDeduplicator(rdb, cfg.IdempotencyTTL, log),
		guard:  NewGuard(rdb, cfg),
		plinko: games.NewPlinkoTables(cfg.RTP),
		cfg:    cfg,
		log:    log,
	}
}

func (e *Engine) Ledger() *Ledger { return e.ledger }

func (e *Engine) OnSettle(fn func(*models.Bet)) { e.onSettle = fn }

// CreateUser provisions a player with a fresh seed pair. The starting
// balance arrives through the ledger so a replay from entry zero still
// reproduces the cached balances.
func (e *Engine) CreateUser(ctx context.Context, username string) (*models.User, error) {
	serverSeed, err := fair.GenerateSeed()
	if err != nil {
		return nil, err
	}
	clientSeed, err := models.GenerateClientSeed()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       username,
		ClientSeed:     clientSeed,
		ServerSeed:     serverSeed,
		ServerSeedHash: fair.HashSeed(serverSeed),
	}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if e.cfg.StartingBalance > 0 {
			if err := e.ledger.append(tx, user, models.TransactionTypeBonus, e.cfg.StartingBalance, nil, "starting_balance"); err != nil {
				return err
			}
		}
		return e.users.Save(tx, user)
	})
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": username,
	}).Info("user created")

	return user, nil
}

// PlaceBet starts a round. Single-shot games settle inside the same
// transaction; multi-step games come back active with the stake locked.
func (e *Engine) PlaceBet(ctx context.Context, userID int64, req *models.PlaceBetRequest) (*models.Bet, bool, error) {
	amount := models.RoundAmount(req.Amount)

	return e.dedup.Execute(ctx, userID, req.IdempotencyKey, func(ctx context.Context) (*models.Bet, error) {
		return e.placeBet(ctx, userID, req.Game, amount, req.Params, req.IdempotencyKey)
	})
}

func (e *Engine) placeBet(ctx context.Context, userID int64, game models.GameType, amount float64, params models.GameParams, idemKey string) (*models.Bet, error) {
	if err := e.guard.CheckBetRate(ctx, userID); err != nil {
		return nil, err
	}
	if err := e.guard.ValidateAmount(amount); err != nil {
		return nil, err
	}

	// Parameters are rejected before any randomness is drawn, so a refused
	// request never consumes a nonce.
	if game == models.GameTypeRoulette {
		if err := games.ValidateRoulette(params.Roulette, amount); err != nil {
			return nil, err
		}
	} else if err := games.Validate(game, params); err != nil {
		return nil, err
	}

	var bet *models.Bet
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := e.users.GetForUpdate(tx, userID)
		if err != nil {
			return err
		}

		nonce := user.Nonce
		user.Nonce++

		floats := fair.DeriveFloats(user.ServerSeed, user.ClientSeed, nonce, 0, games.FloatsNeeded(game, params))

		bet = &models.Bet{
			ID:             uuid.New().String(),
			UserID:         userID,
			Game:           game,
			BetAmount:      amount,
			ClientSeed:     user.ClientSeed,
			ServerSeed:     user.ServerSeed,
			ServerSeedHash: user.ServerSeedHash,
			Nonce:          nonce,
			RngProof:       fair.Proof(user.ServerSeed, user.ClientSeed, nonce),
			Active:         game.MultiStep(),
			IdempotencyKey: idemKey,
			CreatedAt:      time.Now(),
		}

		if err := e.ledger.DebitWager(tx, user, amount, game.MultiStep(), bet.ID); err != nil {
			return err
		}

		switch game {
		case models.GameTypeDice:
			result, mult := games.PlayDice(*params.Dice, floats[0], e.cfg.RTP)
			if err := e.settle(tx, user, bet, result, winMultiplier(result.Win, mult)); err != nil {
				return err
			}
		case models.GameTypeCoinflip:
			result, mult := games.PlayCoinflip(*params.Coinflip, floats[0], e.cfg.RTP)
			if err := e.settle(tx, user, bet, result, winMultiplier(result.Win, mult)); err != nil {
				return err
			}
		case models.GameTypePlinko:
			result, mult := games.PlayPlinko(*params.Plinko, floats, e.plinko)
			if err := e.settle(tx, user, bet, result, mult); err != nil {
				return err
			}
		case models.GameTypeRoulette:
			result, mult := games.PlayRoulette(*params.Roulette, floats[0], e.cfg.RTP)
			if err := e.settle(tx, user, bet, result, mult); err != nil {
				return err
			}
		case models.GameTypeMines:
			state := games.NewMinesState(floats, *params.Mines)
			if err := setResult(bet, state); err != nil {
				return err
			}
		case models.GameTypeBlackjack:
			state := games.NewBlackjackState(floats)
			// An opening natural on either side ends the hand before the
			// player ever acts.
			if games.IsNatural(state.PlayerCards) || games.IsNatural(state.DealerCards) {
				if err := e.settleBlackjack(tx, user, bet, &state); err != nil {
					return err
				}
			} else if err := setResult(bet, state); err != nil {
				return err
			}
		}

		if err := e.bets.Create(tx, bet); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: randomness tuple for nonce %d already consumed", ErrIntegrity, nonce)
			}
			return err
		}
		return e.users.Save(tx, user)
	})
	if err != nil {
		return nil, err
	}

	e.logBet(bet)
	if !bet.Active {
		e.emitSettled(bet)
	}
	return bet, nil
}

// winMultiplier collapses a binary game's outcome to its settled
// multiplier: the full quote on a win, zero on a loss.
func winMultiplier(win bool, mult float64) float64 {
	if win {
		return mult
	}
	return 0
}

func setResult(bet *models.Bet, state interface{}) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	bet.Result = payload
	return nil
}

// settle finalizes a bet at the given multiplier: pays out, releases any
// locked stake and freezes the outcome fields. The caller has already set
// bet.Result (or passes the result payload here for single-shot games).
func (e *Engine) settle(tx *gorm.DB, user *models.User, bet *models.Bet, result interface{}, mult float64) error {
	if result != nil {
		if err := setResult(bet, result); err != nil {
			return err
		}
	}

	payout := models.RoundAmount(bet.BetAmount * mult)
	payout, capped := e.guard.CapPayout(payout)
	if capped {
		bet.PayoutCapped = true
		mult = models.RoundMultiplier(payout / bet.BetAmount)
	}

	var unlock float64
	if bet.Game.MultiStep() {
		unlock = bet.BetAmount
	}
	if err := e.ledger.CreditPayout(tx, user, payout, unlock, bet.ID); err != nil {
		return err
	}

	profit := models.RoundAmount(payout - bet.BetAmount)
	won := profit > 0
	now := time.Now()

	bet.PayoutMultiplier = &mult
	bet.Profit = &profit
	bet.Won = &won
	bet.Active = false
	bet.SettledAt = &now
	return nil
}

// AdvanceRound applies one action to an open multi-step round.
func (e *Engine) AdvanceRound(ctx context.Context, userID int64, req *models.AdvanceRoundRequest) (*models.Bet, bool, error) {
	return e.dedup.Execute(ctx, userID, req.IdempotencyKey, func(ctx context.Context) (*models.Bet, error) {
		if err := e.guard.CheckActionRate(ctx, userID); err != nil {
			return nil, err
		}
		return e.withOpenRound(ctx, userID, req.BetID, func(tx *gorm.DB, user *models.User, bet *models.Bet) error {
			switch bet.Game {
			case models.GameTypeMines:
				return e.advanceMines(tx, user, bet, req.Action)
			case models.GameTypeBlackjack:
				return e.advanceBlackjack(tx, user, bet, req.Action)
			default:
				return fmt.Errorf("%w: %s rounds take no actions", ErrInvalidTransition, bet.Game)
			}
		})
	})
}

// CashOut ends an open mines round at the current multiplier.
func (e *Engine) CashOut(ctx context.Context, userID int64, req *models.CashOutRequest) (*models.Bet, bool, error) {
	return e.dedup.Execute(ctx, userID, req.IdempotencyKey, func(ctx context.Context) (*models.Bet, error) {
		if err := e.guard.CheckActionRate(ctx, userID); err != nil {
			return nil, err
		}
		return e.withOpenRound(ctx, userID, req.BetID, func(tx *gorm.DB, user *models.User, bet *models.Bet) error {
			if bet.Game != models.GameTypeMines {
				return fmt.Errorf("%w: %s rounds do not cash out", ErrNothingToCashOut, bet.Game)
			}
			return e.cashOutMines(tx, user, bet)
		})
	})
}

// withOpenRound wraps a round transition: user lock first, then the bet
// lock, ownership and liveness checks, the game-specific step, then both
// rows are persisted. Lock order matches placeBet so the graph stays
// acyclic.
func (e *Engine) withOpenRound(ctx context.Context, userID int64, betID string, step func(*gorm.DB, *models.User, *models.Bet) error) (*models.Bet, error) {
	var bet *models.Bet

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := e.users.GetForUpdate(tx, userID)
		if err != nil {
			return err
		}

		bet, err = e.bets.GetForUpdate(tx, betID)
		if err != nil {
			return err
		}
		if bet.UserID != userID {
			return ErrNotOwner
		}
		if !bet.Active {
			return ErrRoundNotActive
		}

		if err := step(tx, user, bet); err != nil {
			return err
		}

		if err := e.bets.Save(tx, bet); err != nil {
			return err
		}
		return e.users.Save(tx, user)
	})
	if err != nil {
		return nil, err
	}

	if !bet.Active {
		e.emitSettled(bet)
	}
	return bet, nil
}

// Fairness returns the active commitment a player bets against.
func (e *Engine) Fairness(ctx context.Context, userID int64) (*models.FairnessResponse, error) {
	user, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.FairnessResponse{
		ServerSeedHash: user.ServerSeedHash,
		ClientSeed:     user.ClientSeed,
		Nonce:          user.Nonce,
	}, nil
}

// RevealBet discloses the randomness inputs of a settled bet. The server
// seed itself stays hidden until the player rotates away from it; until
// then only the committed hash is available.
func (e *Engine) RevealBet(ctx context.Context, userID int64, betID string) (*models.RevealResponse, error) {
	bet, err := e.bets.GetByID(ctx, betID)
	if err != nil {
		return nil, err
	}
	if bet.UserID != userID {
		return nil, ErrNotOwner
	}
	if bet.Active {
		return nil, fmt.Errorf("%w: round must settle before disclosure", ErrRoundNotActive)
	}

	user, err := e.users.GetByID(ctx, bet.UserID)
	if err != nil {
		return nil, err
	}

	resp := &models.RevealResponse{
		BetID:          bet.ID,
		ServerSeedHash: bet.ServerSeedHash,
		ClientSeed:     bet.ClientSeed,
		Nonce:          bet.Nonce,
		RngProof:       bet.RngProof,
	}
	if user.ServerSeedHash != bet.ServerSeedHash {
		resp.ServerSeed = bet.ServerSeed
	}
	return resp, nil
}

// RotateSeed retires the current server seed, revealing it, and commits to
// a fresh one. Refused while any round is open: an open round's layout
// would otherwise become computable mid-game.
func (e *Engine) RotateSeed(ctx context.Context, userID int64) (*models.RotateSeedResponse, error) {
	newSeed, err := fair.GenerateSeed()
	if err != nil {
		return nil, err
	}

	var resp *models.RotateSeedResponse
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := e.users.GetForUpdate(tx, userID)
		if err != nil {
			return err
		}

		open, err := e.bets.CountActive(tx, userID)
		if err != nil {
			return err
		}
		if open > 0 {
			return fmt.Errorf("%w: %d round(s) still open", ErrSeedInUse, open)
		}

		resp = &models.RotateSeedResponse{
			RevealedServerSeed:     user.ServerSeed,
			RevealedServerSeedHash: user.ServerSeedHash,
			NextServerSeedHash:     fair.HashSeed(newSeed),
		}

		user.ServerSeed = newSeed
		user.ServerSeedHash = resp.NextServerSeedHash
		user.Nonce = 0
		return e.users.Save(tx, user)
	})
	if err != nil {
		return nil, err
	}

	e.log.WithField("user_id", userID).Info("server seed rotated")
	return resp, nil
}

// SetClientSeed replaces the player's contribution to the stream. Same
// open-round restriction as rotation and the nonce restarts, since the
// committed stream changes identity.
func (e *Engine) SetClientSeed(ctx context.Context, userID int64, seed string) (*models.FairnessResponse, error) {
	var resp *models.FairnessResponse

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := e.users.GetForUpdate(tx, userID)
		if err != nil {
			return err
		}

		open, err := e.bets.CountActive(tx, userID)
		if err != nil {
			return err
		}
		if open > 0 {
			return fmt.Errorf("%w: %d round(s) still open", ErrSeedInUse, open)
		}

		// The nonce restarts, so a pair that already resolved bets would
		// re-consume its draw tuples. Rotating the server seed clears the
		// history.
		used, err := e.bets.CountByDraw(tx, userID, user.ServerSeedHash, seed)
		if err != nil {
			return err
		}
		if used > 0 {
			return fmt.Errorf("%w: client seed already consumed draws under the current server seed", ErrSeedInUse)
		}

		user.ClientSeed = seed
		user.Nonce = 0
		if err := e.users.Save(tx, user); err != nil {
			return err
		}

		resp = &models.FairnessResponse{
			ServerSeedHash: user.ServerSeedHash,
			ClientSeed:     user.ClientSeed,
			Nonce:          user.Nonce,
		}
		return nil
	})
	return resp, err
}

// Verify recomputes an outcome from disclosed inputs. Pure: no storage is
// touched, so anyone holding a revealed seed can audit a settled bet.
func (e *Engine) Verify(req *models.VerifyRequest) (map[string]interface{}, error) {
	if req.Game == models.GameTypeRoulette {
		if req.Params.Roulette == nil || len(req.Params.Roulette.Bets) == 0 {
			return nil, fmt.Errorf("%w: roulette verification needs the original bets", ErrInvalidParams)
		}
	} else if err := games.Validate(req.Game, req.Params); err != nil {
		return nil, err
	}

	out := map[string]interface{}{
		"server_seed_hash": fair.HashSeed(req.ServerSeed),
		"rng_proof":        fair.Proof(req.ServerSeed, req.ClientSeed, req.Nonce),
	}

	floats := fair.DeriveFloats(req.ServerSeed, req.ClientSeed, req.Nonce, 0, games.FloatsNeeded(req.Game, req.Params))

	switch req.Game {
	case models.GameTypeDice:
		result, _ := games.PlayDice(*req.Params.Dice, floats[0], e.cfg.RTP)
		out["result"] = result
	case models.GameTypeCoinflip:
		result, _ := games.PlayCoinflip(*req.Params.Coinflip, floats[0], e.cfg.RTP)
		out["result"] = result
	case models.GameTypePlinko:
		result, _ := games.PlayPlinko(*req.Params.Plinko, floats, e.plinko)
		out["result"] = result
	case models.GameTypeRoulette:
		result, _ := games.PlayRoulette(*req.Params.Roulette, floats[0], e.cfg.RTP)
		out["result"] = result
	case models.GameTypeMines:
		out["mines"] = games.MineLayout(floats, games.MinesGridSize, req.Params.Mines.MineCount)
	case models.GameTypeBlackjack:
		state := games.NewBlackjackState(floats)
		out["player_cards"] = state.PlayerCards
		out["dealer_cards"] = state.DealerCards
	}

	return out, nil
}

func (e *Engine) Balance(ctx context.Context, userID int64) (*models.BalanceResponse, error) {
	user, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.BalanceResponse{
		Available:    user.AvailableBalance,
		Locked:       user.LockedBalance,
		TotalWagered: user.TotalWagered,
		TotalWon:     user.TotalWon,
	}, nil
}

func (e *Engine) User(ctx context.Context, userID int64) (*models.User, error) {
	return e.users.GetByID(ctx, userID)
}

func (e *Engine) Bet(ctx context.Context, userID int64, betID string) (*models.Bet, error) {
	bet, err := e.bets.GetByID(ctx, betID)
	if err != nil {
		return nil, err
	}
	if bet.UserID != userID {
		return nil, ErrNotOwner
	}
	return bet, nil
}

func (e *Engine) BetHistory(ctx context.Context, userID int64, limit int) ([]models.Bet, error) {
	return e.bets.ListByUser(ctx, userID, limit)
}

func (e *Engine) ActiveBets(ctx context.Context, userID int64) ([]models.Bet, error) {
	return e.bets.ListActiveByUser(ctx, userID)
}

func (e *Engine) TransactionHistory(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	return e.txns.ListByUser(ctx, userID, limit)
}

// PublicBet strips the state an opponent of the house must not see while
// a round is open: the mine layout and the dealer's hole card. Settled
// bets pass through whole.
func (e *Engine) PublicBet(bet *models.Bet) *models.Bet {
	if !bet.Active {
		return bet
	}

	out := *bet
	switch bet.Game {
	case models.GameTypeMines:
		var state models.MinesState
		if err := json.Unmarshal(bet.Result, &state); err != nil {
			return &out
		}
		state.Mines = nil
		payload, err := json.Marshal(state)
		if err != nil {
			return &out
		}
		out.Result = payload
	case models.GameTypeBlackjack:
		var state models.BlackjackState
		if err := json.Unmarshal(bet.Result, &state); err != nil {
			return &out
		}
		if len(state.DealerCards) > 1 {
			state.DealerCards = state.DealerCards[:1]
		}
		payload, err := json.Marshal(state)
		if err != nil {
			return &out
		}
		out.Result = payload
	}
	return &out
}

func (e *Engine) emitSettled(bet *models.Bet) {
	if e.onSettle != nil {
		e.onSettle(e.PublicBet(bet))
	}
}

func (e *Engine) logBet(bet *models.Bet) {
	fields := logrus.Fields{
		"bet_id":  bet.ID,
		"user_id": bet.UserID,
		"game":    bet.Game,
		"amount":  bet.BetAmount,
		"nonce":   bet.Nonce,
		"active":  bet.Active,
	}
	if bet.PayoutMultiplier != nil {
		fields["multiplier"] = *bet.PayoutMultiplier
	}
	e.log.WithFields(fields).Info("bet placed")
}
