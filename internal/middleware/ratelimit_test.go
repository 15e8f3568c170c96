package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLimiter(t *testing.T) *RedisRateLimiter {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisRateLimiter(rdb)
}

func TestRedisRateLimiter_FixedWindow(t *testing.T) {
	limiter := newTestLimiter(t)
	cfg := &RateLimitConfig{Limit: 3, Window: 60, Algorithm: RateLimitFixedWindow}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.Allow(ctx, "ip:1.2.3.4", cfg)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := limiter.Allow(ctx, "ip:1.2.3.4", cfg)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = limiter.Allow(ctx, "ip:5.6.7.8", cfg)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "other keys have their own window")
}

func TestRedisRateLimiter_TokenBucket(t *testing.T) {
	limiter := newTestLimiter(t)
	cfg := &RateLimitConfig{Limit: 2, Window: 3600, Algorithm: RateLimitTokenBucket}
	ctx := context.Background()

	first, err := limiter.Allow(ctx, "user:1", cfg)
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	second, err := limiter.Allow(ctx, "user:1", cfg)
	require.NoError(t, err)
	assert.True(t, second.Allowed)
	third, err := limiter.Allow(ctx, "user:1", cfg)
	require.NoError(t, err)
	assert.False(t, third.Allowed)
}

func TestRedisRateLimiter_ZeroLimitIsUnlimited(t *testing.T) {
	limiter := newTestLimiter(t)
	res, err := limiter.Allow(context.Background(), "k", &RateLimitConfig{})
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, *RateLimitConfig) (*RateLimitResult, error) {
	return nil, errors.New("redis down")
}

func TestRateLimitGroup_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := newTestLimiter(t)
	resolve := func(path string) *RateLimitConfig {
		if path == "/free" {
			return nil
		}
		return &RateLimitConfig{Limit: 1, Window: 60, Algorithm: RateLimitFixedWindow, Type: RateLimitByIP}
	}

	r := gin.New()
	r.Use(NewRateLimitGroup(limiter, resolve, zap.NewNop()).Middleware())
	r.GET("/limited", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/free", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do("/limited")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusTooManyRequests, do("/limited").Code)
	assert.Equal(t, http.StatusOK, do("/free").Code)
	assert.Equal(t, http.StatusOK, do("/free").Code)
}

func TestRateLimitGroup_FailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resolve := func(string) *RateLimitConfig { return &RateLimitConfig{Limit: 1, Window: 60} }
	r := gin.New()
	r.Use(NewRateLimitGroup(failingLimiter{}, resolve, zap.NewNop()).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/assistant/sos", nil)
	c.Request.Header.Set("X-Real-Ip", "192.168.1.9")

	assert.Equal(t, "ip:192.168.1.9", generateKey(c, &RateLimitConfig{Type: RateLimitByUser}))

	c.Set(ContextUserID, uint(42))
	assert.Equal(t, "assistant:user:42", generateKey(c, &RateLimitConfig{Type: RateLimitByUser, Scope: "assistant"}))
	assert.Equal(t, "endpoint:POST:/api/v1/assistant/sos", generateKey(c, &RateLimitConfig{Type: RateLimitByEndpoint}))
}
