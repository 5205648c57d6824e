package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"casino-engine-backend/internal/config"
	"casino-engine-backend/internal/models"
	"casino-engine-backend/internal/services"
)

func setupTestDedup(t *testing.T, ttl time.Duration) (*services.Deduplicator, *redis.Client) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	return services.NewDeduplicator(rdb, ttl, log), rdb
}

func TestDeduplicatorReplaysStoredResult(t *testing.T) {
	dedup, rdb := setupTestDedup(t, time.Hour)
	defer rdb.Close()

	ctx := context.Background()
	userID := int64(time.Now().UnixNano())
	key := fmt.Sprintf("dedup-test-%d", userID)

	calls := 0
	op := func(context.Context) (*models.Bet, error) {
		calls++
		return &models.Bet{ID: "bet-1", UserID: userID}, nil
	}

	first, replayed, err := dedup.Execute(ctx, userID, key, op)
	if err != nil || replayed {
		t.Fatalf("First execution failed: replayed=%v err=%v", replayed, err)
	}

	second, replayed, err := dedup.Execute(ctx, userID, key, op)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if !replayed {
		t.Error("Second call must replay")
	}
	if calls != 1 {
		t.Errorf("Operation ran %d times, want 1", calls)
	}
	if second.ID != first.ID {
		t.Errorf("Replay returned bet %s, want %s", second.ID, first.ID)
	}

	rdb.Del(ctx, fmt.Sprintf("idem:%d:%s", userID, key))
}

func TestDeduplicatorPendingMarkerExpiresEarly(t *testing.T) {
	dedup, rdb := setupTestDedup(t, 24*time.Hour)
	defer rdb.Close()

	ctx := context.Background()
	userID := int64(time.Now().UnixNano())
	key := fmt.Sprintf("dedup-ttl-test-%d", userID)
	redisKey := fmt.Sprintf("idem:%d:%s", userID, key)

	// A crash between claiming the key and storing the result must not
	// block the key for the full record TTL: the in-flight marker carries
	// its own short expiry.
	var pendingTTL time.Duration
	op := func(context.Context) (*models.Bet, error) {
		pendingTTL = rdb.TTL(ctx, redisKey).Val()
		return &models.Bet{ID: "bet-ttl", UserID: userID}, nil
	}

	if _, _, err := dedup.Execute(ctx, userID, key, op); err != nil {
		t.Fatalf("Execution failed: %v", err)
	}

	if pendingTTL <= 0 || pendingTTL > time.Minute {
		t.Errorf("Pending marker TTL should be short, got %v", pendingTTL)
	}

	// The stored result keeps the full replay window.
	resultTTL := rdb.TTL(ctx, redisKey).Val()
	if resultTTL <= time.Hour {
		t.Errorf("Stored result TTL should be the record TTL, got %v", resultTTL)
	}

	rdb.Del(ctx, redisKey)
}
