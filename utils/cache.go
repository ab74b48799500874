// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"neira/config"

	"github.com/go-redis/redis/v8"
)

var (
	// AuthCacheClient is the dedicated client for authorization caching.
	AuthCacheClient *redis.Client
	// PipelineCacheClient holds in-flight contract pipeline states.
	PipelineCacheClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (db %d): %v", db, err)
	}
	return client
}

// InitRedis initializes all Redis clients used by the service.
func InitRedis() {
	AuthCacheClient = newRedisClient(config.AppConfig.RedisAuthDB)
	PipelineCacheClient = newRedisClient(config.AppConfig.RedisPipelineDB)
}

// GetAuthCacheClient returns the Redis client for authorization caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		AuthCacheClient = newRedisClient(config.AppConfig.RedisAuthDB)
	}
	return AuthCacheClient
}

// GetPipelineCacheClient returns the Redis client holding pipeline states.
func GetPipelineCacheClient() *redis.Client {
	if PipelineCacheClient == nil {
		PipelineCacheClient = newRedisClient(config.AppConfig.RedisPipelineDB)
	}
	return PipelineCacheClient
}
