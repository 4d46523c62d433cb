package main

import (
	"context" // context package is needed for Redis ping
	"time"    // Ping timeout

	"wallet_ledger/internal/api"     // HTTP handlers and routes
	"wallet_ledger/internal/config"  // Configuration
	"wallet_ledger/internal/db"      // Database connection
	"wallet_ledger/internal/logging" // Logger setup
	"wallet_ledger/internal/service" // Ledger core

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// Main function to set up and run the server
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logging.New(cfg)

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	// Redis is optional; without REDIS_ADDR every read goes to the database
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		log.Warn("REDIS_ADDR not set, caching disabled")
	}

	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	svc := service.New(conn, redisClient, cfg, log)
	r := api.NewRouter(svc, cfg.JWTSecret, log)
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		log.Fatalf("failed to set trusted proxies: %v", err)
	}

	log.Info("Server running on " + cfg.AppPort)
	if err := r.Run(":" + cfg.AppPort); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
