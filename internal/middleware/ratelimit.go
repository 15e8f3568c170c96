package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitAlgorithm selects the limiting strategy.
type RateLimitAlgorithm string

const (
	RateLimitTokenBucket RateLimitAlgorithm = "token_bucket"
	RateLimitFixedWindow RateLimitAlgorithm = "fixed_window"
)

// RateLimitType selects what a bucket is keyed on.
type RateLimitType string

const (
	RateLimitByIP       RateLimitType = "ip"
	RateLimitByUser     RateLimitType = "user"
	RateLimitByEndpoint RateLimitType = "endpoint"
)

// RateLimitConfig describes one bucket. Window is in seconds.
type RateLimitConfig struct {
	Limit     int
	Window    int
	Algorithm RateLimitAlgorithm
	Type      RateLimitType
	// Scope separates buckets of different rules that share a key.
	Scope   string
	KeyFunc func(*gin.Context) string
}

// RateLimitResult is the outcome of one Allow call.
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   int64
	Limit     int
}

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string, config *RateLimitConfig) (*RateLimitResult, error)
}

var tokenBucketScript = redis.NewScript(`
local bucket = redis.call('HMGET', KEYS[1], 'tokens', 'last_update')
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local tokens = tonumber(bucket[1]) or capacity
local last_update = tonumber(bucket[2]) or now

local elapsed = math.max(0, now - last_update)
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'last_update', tostring(now))
redis.call('EXPIRE', KEYS[1], math.ceil(capacity / rate) + 1)

return {allowed, math.floor(tokens), capacity}
`)

var fixedWindowScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or 0)
local limit = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])

if current >= limit then
	return {0, 0, limit}
end

redis.call('INCR', KEYS[1])
if current == 0 then
	redis.call('EXPIRE', KEYS[1], ttl)
end

return {1, limit - current - 1, limit}
`)

// RedisRateLimiter keeps bucket state in Redis so limits hold across replicas.
type RedisRateLimiter struct {
	redis *redis.Client
}

// NewRedisRateLimiter creates a Redis backed limiter
func NewRedisRateLimiter(rdb *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{redis: rdb}
}

// Allow checks and consumes one unit for key.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string, config *RateLimitConfig) (*RateLimitResult, error) {
	if config.Window <= 0 || config.Limit <= 0 {
		return &RateLimitResult{Allowed: true, Limit: config.Limit}, nil
	}
	switch config.Algorithm {
	case RateLimitFixedWindow:
		return r.fixedWindow(ctx, key, config)
	default:
		return r.tokenBucket(ctx, key, config)
	}
}

func (r *RedisRateLimiter) tokenBucket(ctx context.Context, key string, config *RateLimitConfig) (*RateLimitResult, error) {
	now := time.Now().Unix()
	bucketKey := fmt.Sprintf("vigi:ratelimit:token:%s", key)
	ratePerSecond := float64(config.Limit) / float64(config.Window)

	values, err := tokenBucketScript.Run(ctx, r.redis, []string{bucketKey}, config.Limit, ratePerSecond, now).Int64Slice()
	if err != nil {
		return nil, err
	}

	return &RateLimitResult{
		Allowed:   values[0] == 1,
		Remaining: int(values[1]),
		ResetAt:   now + int64(config.Window),
		Limit:     int(values[2]),
	}, nil
}

func (r *RedisRateLimiter) fixedWindow(ctx context.Context, key string, config *RateLimitConfig) (*RateLimitResult, error) {
	now := time.Now().Unix()
	window := now / int64(config.Window)
	windowKey := fmt.Sprintf("vigi:ratelimit:fixed:%s:%d", key, window)

	values, err := fixedWindowScript.Run(ctx, r.redis, []string{windowKey}, config.Limit, config.Window+1).Int64Slice()
	if err != nil {
		return nil, err
	}

	return &RateLimitResult{
		Allowed:   values[0] == 1,
		Remaining: int(values[1]),
		ResetAt:   (window + 1) * int64(config.Window),
		Limit:     int(values[2]),
	}, nil
}

// RateLimitGroup applies a per-path rule chosen by resolve.
type RateLimitGroup struct {
	limiter RateLimiter
	resolve func(path string) *RateLimitConfig
	logger  *zap.Logger
}

// NewRateLimitGroup creates the middleware group. resolve returns nil for unlimited paths.
func NewRateLimitGroup(limiter RateLimiter, resolve func(path string) *RateLimitConfig, logger *zap.Logger) *RateLimitGroup {
	return &RateLimitGroup{limiter: limiter, resolve: resolve, logger: logger}
}

// Middleware returns the gin handler.
func (g *RateLimitGroup) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		config := g.resolve(c.Request.URL.Path)
		if config == nil {
			c.Next()
			return
		}

		key := generateKey(c, config)
		result, err := g.limiter.Allow(c.Request.Context(), key, config)
		if err != nil {
			// fail open when Redis is unavailable
			g.logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": result.ResetAt - time.Now().Unix(),
			})
			return
		}

		c.Next()
	}
}

func generateKey(c *gin.Context, config *RateLimitConfig) string {
	var key string
	switch {
	case config.KeyFunc != nil:
		key = config.KeyFunc(c)
	case config.Type == RateLimitByUser:
		if userID, ok := c.Get(ContextUserID); ok {
			key = fmt.Sprintf("user:%v", userID)
		} else {
			key = "ip:" + clientIP(c)
		}
	case config.Type == RateLimitByEndpoint:
		key = fmt.Sprintf("endpoint:%s:%s", c.Request.Method, c.Request.URL.Path)
	default:
		key = "ip:" + clientIP(c)
	}
	if config.Scope != "" {
		key = config.Scope + ":" + key
	}
	return key
}

func clientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xri := c.GetHeader("X-Real-Ip"); xri != "" {
		return xri
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
