package config

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

type RedisConfig struct {
	Addr     string
	Password string
}

func NewRedisConfig() *RedisConfig {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Fatal("REDIS_ADDR not set")
	}
	return &RedisConfig{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")}
}

// NewRedisClient connects the client that backs sessions and reset tokens.
func NewRedisClient(lc fx.Lifecycle, config *RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to ping Redis: %v", err)
	}
	log.Println("Connected to Redis")

	lc.Append(fx.Hook{
		OnStop: func(stopCtx context.Context) error {
			log.Println("Closing Redis connection ...")
			return client.Close()
		},
	})
	return client, nil
}
