package handlers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

const (
	// LoginRate: 10 tentativas por minuto por IP.
	LoginRate       = "10-M"
	rateLimitPrefix = "oneconsig:ratelimit:login"
)

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// NewRateLimitStore guarda os contadores no Redis quando houver cliente, para
// valer entre réplicas. Sem Redis (ou se o store não subir) fica em memória.
func NewRateLimitStore(client *redis.Client) limiter.Store {
	if client != nil {
		store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: rateLimitPrefix})
		if err == nil {
			return store
		}
		zap.L().Warn("⚠️ Rate limit: falha ao usar Redis, caindo para memória", zap.Error(err))
	}
	return memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          rateLimitPrefix,
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	})
}

type RateLimiter struct {
	limiter *limiter.Limiter
}

// NewRateLimiter aceita a taxa no formato do limiter ("10-M", "100-H").
func NewRateLimiter(store limiter.Store, formatted string) (*RateLimiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("taxa de rate limit inválida %q: %w", formatted, err)
	}
	return &RateLimiter{limiter: limiter.New(store, rate)}, nil
}

// Allow conta mais uma tentativa do IP. Se o store falhar, deixa passar.
func (rl *RateLimiter) Allow(ctx context.Context, ip string) bool {
	res, err := rl.limiter.Get(ctx, ip)
	if err != nil {
		zap.L().Warn("⚠️ Rate limit indisponível", zap.String("ip", ip), zap.Error(err))
		return true
	}
	return !res.Reached
}
