package middleware

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariebrainware/clinic-booking/config"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	config.SetRedisClientForTest(client)
	t.Cleanup(func() {
		client.Close()
		config.ResetRedisClientForTest()
	})
	return mr
}

func newRateLimitedRouter(cfg RateLimitConfig) *gin.Engine {
	r := newTestRouter(RateLimiter(cfg))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	return r
}

func TestRateLimiter_WithoutRedis(t *testing.T) {
	config.ResetRedisClientForTest()
	r := newRateLimitedRouter(RateLimitConfig{Limit: 5, Window: 15 * time.Minute})

	// Without Redis, all requests should be allowed
	for i := 0; i < 10; i++ {
		w := performRequest(r, "GET", "/test", nil)
		if w.Code != http.StatusOK {
			t.Errorf("Request %d: expected status 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	mr := setupTestRedis(t)
	r := newRateLimitedRouter(RateLimitConfig{Limit: 2, Window: time.Minute})

	assert.Equal(t, http.StatusOK, performRequest(r, "GET", "/test", nil).Code)
	assert.Equal(t, http.StatusOK, performRequest(r, "GET", "/test", nil).Code)

	w := performRequest(r, "GET", "/test", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	got, err := mr.Get("ratelimit:/test:192.168.1.1")
	require.NoError(t, err)
	assert.Equal(t, "3", got)
	assert.True(t, mr.TTL("ratelimit:/test:192.168.1.1") > 0)
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	mr := setupTestRedis(t)
	r := newRateLimitedRouter(RateLimitConfig{Limit: 1, Window: time.Minute})

	assert.Equal(t, http.StatusOK, performRequest(r, "GET", "/test", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, performRequest(r, "GET", "/test", nil).Code)

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusOK, performRequest(r, "GET", "/test", nil).Code)
}

func TestRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	config.SetRedisClientForTest(db)
	t.Cleanup(config.ResetRedisClientForTest)

	key := "ratelimit:/test:192.168.1.1"
	mock.ExpectIncr(key).SetErr(errors.New("redis connection error"))
	mock.ExpectExpire(key, time.Minute).SetVal(true)

	r := newRateLimitedRouter(RateLimitConfig{Limit: 1, Window: time.Minute})
	w := performRequest(r, "GET", "/test", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_DefaultConfig(t *testing.T) {
	config.ResetRedisClientForTest()
	r := newRateLimitedRouter(RateLimitConfig{})

	w := performRequest(r, "GET", "/test", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

