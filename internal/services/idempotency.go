package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"casino-engine-backend/internal/models"
)

const (
	idemPendingMarker = "__pending__"
	idemPollInterval  = 50 * time.Millisecond
	idemWaitTimeout   = 10 * time.Second

	// The pending marker outlives any in-flight execution but not much
	// more: if the winner dies before storing its result, the key frees
	// itself instead of blocking retries for the full record TTL.
	idemPendingTTL = 30 * time.Second
)

// Deduplicator applies an idempotency key to every money-moving
// operation: the first request under a key executes, every retry before
// the key expires replays the stored result instead of re-running.
// Concurrent duplicates serialize on the pending marker — the loser waits
// for the winner's result rather than racing the ledger.
type Deduplicator struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func NewDeduplicator(client *redis.Client, ttl time.Duration, log *logrus.Logger) *Deduplicator {
	return &Deduplicator{client: client, ttl: ttl, log: log}
}

// Execute runs op at most once per (user, key). The returned bool reports
// whether the result was replayed from a previous execution.
func (d *Deduplicator) Execute(ctx context.Context, userID int64, key string, op func(context.Context) (*models.Bet, error)) (*models.Bet, bool, error) {
	redisKey := fmt.Sprintf("idem:%d:%s", userID, key)

	won, err := d.client.SetNX(ctx, redisKey, idemPendingMarker, idemPendingTTL).Result()
	if err != nil {
		return nil, false, fmt.Errorf("idempotency check failed: %w", err)
	}

	if !won {
		bet, err := d.waitForResult(ctx, redisKey)
		return bet, true, err
	}

	bet, err := op(ctx)
	if err != nil {
		// A failed operation had no effect, so the retry may re-execute.
		d.client.Del(ctx, redisKey)
		return nil, false, err
	}

	data, err := json.Marshal(bet)
	if err != nil {
		return nil, false, fmt.Errorf("failed to store idempotent result: %w", err)
	}
	if err := d.client.Set(ctx, redisKey, data, d.ttl).Err(); err != nil {
		// The operation committed; losing the stored response only costs
		// replay capability, so report but do not fail the request.
		d.log.WithError(err).WithField("key", redisKey).Error("failed to persist idempotency record")
	}

	return bet, false, nil
}

func (d *Deduplicator) waitForResult(ctx context.Context, redisKey string) (*models.Bet, error) {
	deadline := time.Now().Add(idemWaitTimeout)

	for time.Now().Before(deadline) {
		data, err := d.client.Get(ctx, redisKey).Result()
		if err == redis.Nil {
			// Winner failed and released the key; treat the retry as new by
			// reporting in-flight so the caller retries cleanly.
			return nil, ErrDuplicateInFlight
		}
		if err != nil {
			return nil, fmt.Errorf("idempotency lookup failed: %w", err)
		}

		if data != idemPendingMarker {
			var bet models.Bet
			if err := json.Unmarshal([]byte(data), &bet); err != nil {
				return nil, fmt.Errorf("corrupt idempotency record: %w", err)
			}
			return &bet, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(idemPollInterval):
		}
	}

	return nil, ErrDuplicateInFlight
}
