package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Counter decide se mais uma requisição da chave cabe na janela
type Counter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type RateLimiter struct {
	counter Counter
	log     *logrus.Logger
}

func NewRateLimiter(counter Counter, log *logrus.Logger) *RateLimiter {
	return &RateLimiter{counter: counter, log: log}
}

// RateLimit limita por IP. Se o contador falhar, a requisição passa.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := rl.counter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			rl.log.WithError(err).Warn("Contador de requisições indisponível")
			c.Next()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Muitas requisições. Tente novamente em instantes.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// MemoryCounter é uma janela deslizante em memória, válida para uma instância
type MemoryCounter struct {
	requests map[string][]time.Time
	mutex    sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

func NewMemoryCounter(limit int, window time.Duration) *MemoryCounter {
	mc := &MemoryCounter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	// Limpeza de registros antigos a cada 5 minutos
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				mc.cleanup()
			case <-mc.stop:
				return
			}
		}
	}()

	return mc
}

func (mc *MemoryCounter) Allow(_ context.Context, key string) (bool, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	now := mc.now()
	validRequests := mc.recent(mc.requests[key], now)

	if len(validRequests) >= mc.limit {
		mc.requests[key] = validRequests
		return false, nil
	}

	mc.requests[key] = append(validRequests, now)
	return true, nil
}

// Stop encerra a rotina de limpeza
func (mc *MemoryCounter) Stop() {
	mc.once.Do(func() { close(mc.stop) })
}

func (mc *MemoryCounter) recent(requests []time.Time, now time.Time) []time.Time {
	var validRequests []time.Time
	cutoff := now.Add(-mc.window)
	for _, reqTime := range requests {
		if reqTime.After(cutoff) {
			validRequests = append(validRequests, reqTime)
		}
	}
	return validRequests
}

func (mc *MemoryCounter) cleanup() {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	now := mc.now()
	for key, requests := range mc.requests {
		validRequests := mc.recent(requests, now)
		if len(validRequests) == 0 {
			delete(mc.requests, key)
		} else {
			mc.requests[key] = validRequests
		}
	}
}

// RedisCounter usa janela fixa (INCR + EXPIRE) compartilhada entre instâncias
type RedisCounter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRedisCounter(client *redis.Client, limit int, window time.Duration) *RedisCounter {
	return &RedisCounter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "gabinete:ratelimit:",
	}
}

func (rc *RedisCounter) Allow(ctx context.Context, key string) (bool, error) {
	slot := time.Now().UnixNano() / int64(rc.window)
	redisKey := fmt.Sprintf("%s%s:%d", rc.prefix, key, slot)

	pipe := rc.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rc.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return incr.Val() <= int64(rc.limit), nil
}
