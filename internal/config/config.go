package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env  string
	Port string

	Database DatabaseConfig
	Redis    RedisConfig
	AMQP     AMQPConfig

	JWTSecret string

	Engine EngineConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AMQPConfig struct {
	URL     string
	Queue   string
	Workers int
}

// EngineConfig holds the wagering policy knobs. RTP and the bet/payout
// bounds are configuration, not code: the numeric values here are house
// policy and may differ per deployment.
type EngineConfig struct {
	RTP             float64
	MinBet          float64
	MaxBet          float64
	MaxPayout       float64
	StartingBalance float64

	BetsPerMinute    int
	ActionsPerMinute int

	IdempotencyTTL time.Duration
}

func Load() (*Config, error) {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	amqpWorkers, _ := strconv.Atoi(getEnv("AMQP_WORKERS", "2"))

	rtp, err := strconv.ParseFloat(getEnv("ENGINE_RTP", "0.96"), 64)
	if err != nil || rtp <= 0 || rtp > 1 {
		return nil, fmt.Errorf("invalid ENGINE_RTP: %q", os.Getenv("ENGINE_RTP"))
	}

	minBet, _ := strconv.ParseFloat(getEnv("ENGINE_MIN_BET", "0.01"), 64)
	maxBet, _ := strconv.ParseFloat(getEnv("ENGINE_MAX_BET", "1000"), 64)
	maxPayout, _ := strconv.ParseFloat(getEnv("ENGINE_MAX_PAYOUT", "100000"), 64)
	startBalance, _ := strconv.ParseFloat(getEnv("ENGINE_STARTING_BALANCE", "100"), 64)

	betsPerMin, _ := strconv.Atoi(getEnv("ENGINE_BETS_PER_MINUTE", "60"))
	actionsPerMin, _ := strconv.Atoi(getEnv("ENGINE_ACTIONS_PER_MINUTE", "180"))
	idemTTLSec, _ := strconv.Atoi(getEnv("ENGINE_IDEMPOTENCY_TTL_SECONDS", "86400"))

	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "casino"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		AMQP: AMQPConfig{
			URL:     getEnv("AMQP_URL", ""),
			Queue:   getEnv("AMQP_QUEUE", "engine_credits"),
			Workers: amqpWorkers,
		},
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		Engine: EngineConfig{
			RTP:              rtp,
			MinBet:           minBet,
			MaxBet:           maxBet,
			MaxPayout:        maxPayout,
			StartingBalance:  startBalance,
			BetsPerMinute:    betsPerMin,
			ActionsPerMinute: actionsPerMin,
			IdempotencyTTL:   time.Duration(idemTTLSec) * time.Second,
		},
	}, nil
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
