package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	appErrors "github.com/registra/records-api/pkg/errors"
	"github.com/registra/records-api/pkg/response"
)

// Limiter enforces a per-client request budget over a fixed window. Counters
// live in Redis so the limit holds across instances; when no Redis client is
// supplied an in-memory fallback keeps single-instance deployments covered.
type Limiter struct {
	client    *redis.Client
	perWindow int
	window    time.Duration

	mu    sync.Mutex
	local map[string]*counter
}

type counter struct {
	count int
	reset time.Time
}

// New creates a limiter allowing perMinute requests per client per minute.
func New(client *redis.Client, perMinute int) *Limiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &Limiter{
		client:    client,
		perWindow: perMinute,
		window:    time.Minute,
		local:     make(map[string]*counter),
	}
}

// Middleware rejects requests over the budget with 429 and a Retry-After hint.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if key == "" {
			key = "unknown"
		}

		allowed, retryAfter := l.allow(c.Request.Context(), key)
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			response.Error(c, appErrors.New("RATE_LIMITED", http.StatusTooManyRequests, "Too many requests, slow down"))
			c.Abort()
			return
		}

		c.Next()
	}
}

func (l *Limiter) allow(ctx context.Context, key string) (bool, time.Duration) {
	if l.client != nil {
		if ok, retryAfter, err := l.allowRedis(ctx, key); err == nil {
			return ok, retryAfter
		}
		// Redis trouble must not take the API down with it.
	}
	return l.allowLocal(key)
}

func (l *Limiter) allowRedis(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, 0, err
		}
	}
	if count > int64(l.perWindow) {
		ttl, err := l.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return false, ttl, nil
	}
	return true, 0, nil
}

func (l *Limiter) allowLocal(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, ok := l.local[key]
	if !ok || now.After(c.reset) {
		l.local[key] = &counter{count: 1, reset: now.Add(l.window)}
		return true, 0
	}
	if c.count >= l.perWindow {
		return false, time.Until(c.reset)
	}
	c.count++
	return true, 0
}
