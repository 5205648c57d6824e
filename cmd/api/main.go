package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"casino-engine-backend/internal/config"
	"casino-engine-backend/internal/events"
	"casino-engine-backend/internal/handlers"
	"casino-engine-backend/internal/logger"
	"casino-engine-backend/internal/middleware"
	"casino-engine-backend/internal/services"
	"casino-engine-backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.Env)

	db, err := store.New(cfg.Database, log)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	jwtService := services.NewJWTService(cfg.JWTSecret)
	engine := services.NewEngine(db.DB, rdb, cfg.Engine, log)

	if cfg.AMQP.URL != "" {
		consumer, err := events.NewConsumer(cfg.AMQP, engine.Ledger(), log)
		if err != nil {
			log.Fatalf("Failed to connect to AMQP broker: %v", err)
		}
		defer consumer.Close()

		go func() {
			if err := consumer.Start(context.Background()); err != nil {
				log.WithError(err).Error("credit consumer stopped")
			}
		}()
	}

	wsHandler := handlers.NewWebSocketHandler(engine, log)
	userHandler := handlers.NewUserHandler(engine, jwtService)
	gameHandler := handlers.NewGameHandler(engine, log)
	fairnessHandler := handlers.NewFairnessHandler(engine)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Verification needs no account: it recomputes from disclosed inputs.
	router.POST("/fair/verify", fairnessHandler.Verify)

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuth(cfg.JWTSecret))
	{
		internal.POST("/users", userHandler.CreateUser)
		internal.POST("/credits", userHandler.Credit)
	}

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/me", userHandler.GetCurrentUser)
		protected.GET("/ws", wsHandler.HandleWebSocket)

		games := protected.Group("/games")
		{
			games.POST("/bet", gameHandler.PlaceBet)
			games.POST("/action", gameHandler.AdvanceRound)
			games.POST("/cashout", gameHandler.CashOut)

			games.GET("/balance", gameHandler.GetBalance)
			games.GET("/active", gameHandler.GetActiveBets)
			games.GET("/history", gameHandler.GetBetHistory)
			games.GET("/transactions", gameHandler.GetTransactions)
			games.GET("/bets/:id", gameHandler.GetBet)
		}

		fair := protected.Group("/fair")
		{
			fair.GET("", fairnessHandler.GetFairness)
			fair.GET("/bets/:id", fairnessHandler.RevealBet)
			fair.POST("/rotate", fairnessHandler.RotateSeed)
			fair.POST("/client-seed", fairnessHandler.SetClientSeed)
		}
	}

	log.WithField("port", cfg.Port).Info("server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
