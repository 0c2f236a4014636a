package config

import (
	"sync"

	"github.com/redis/go-redis/v9"
)

// SetRedisClientForTest installs client as the shared Redis client, usually
// one backed by miniredis or redismock in rate limiter tests.
func SetRedisClientForTest(client *redis.Client) {
	redisClient = client
}

// ResetRedisClientForTest drops the shared client so the rate limiter fails
// open and the next ConnectRedis dials again.
func ResetRedisClientForTest() {
	redisClient = nil
	redisOnce = sync.Once{}
}
