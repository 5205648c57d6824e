package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"casino-engine-backend/internal/config"
)

// Guard caps bet frequency and enforces the absolute wagering bounds:
// min/max bet and the single-payout cap.
type Guard struct {
	client *redis.Client
	cfg    config.EngineConfig
}

func NewGuard(client *redis.Client, cfg config.EngineConfig) *Guard {
	return &Guard{client: client, cfg: cfg}
}

// checkRate counts actions in a rolling window per (user, action).
func (g *Guard) checkRate(ctx context.Context, userID int64, action string, limit int, window time.Duration) error {
	key := fmt.Sprintf("ratelimit:%d:%s", userID, action)

	count, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("rate limit check failed: %w", err)
	}
	if count == 1 {
		g.client.Expire(ctx, key, window)
	}

	if count > int64(limit) {
		return fmt.Errorf("%w: %d %s requests per %s", ErrRateLimited, limit, action, window)
	}
	return nil
}

func (g *Guard) CheckBetRate(ctx context.Context, userID int64) error {
	return g.checkRate(ctx, userID, "bet", g.cfg.BetsPerMinute, time.Minute)
}

func (g *Guard) CheckActionRate(ctx context.Context, userID int64) error {
	return g.checkRate(ctx, userID, "action", g.cfg.ActionsPerMinute, time.Minute)
}

func (g *Guard) ValidateAmount(amount float64) error {
	if amount < g.cfg.MinBet {
		return fmt.Errorf("%w: minimum bet is %.2f", ErrInvalidParams, g.cfg.MinBet)
	}
	if amount > g.cfg.MaxBet {
		return fmt.Errorf("%w: maximum bet is %.2f", ErrInvalidParams, g.cfg.MaxBet)
	}
	return nil
}

// CapPayout clamps a computed payout to the house cap. Clamped payouts are
// flagged on the bet record, never silently allowed through.
func (g *Guard) CapPayout(payout float64) (float64, bool) {
	if payout > g.cfg.MaxPayout {
		return g.cfg.MaxPayout, true
	}
	return payout, false
}
