package redisclient

import (
	"github.com/redis/go-redis/v9"

	"todolist/internal/config"
)

// New builds the Redis client used for flash messages and login
// throttling scratch state.
func New(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
