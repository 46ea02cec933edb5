// Package rate limita requests por key (usuario o IP) con ventanas fijas. RedisLimiter
// comparte el contador entre réplicas; MemoryLimiter sirve para un solo nodo.
package rate

import (
	"context"
	"time"
)

// Result es el estado de la ventana después de contar el request.
type Result struct {
	Allowed    bool
	Limit      int64         // máximo por ventana
	Hits       int64         // requests contados en la ventana actual
	Remaining  int64         // Limit - Hits, nunca negativo
	ResetIn    time.Duration // hasta el cierre de la ventana
	RetryAfter time.Duration // sólo si !Allowed
}

// Limiter cuenta un request para key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// windowAt ubica now en su ventana fija de tamaño size.
func windowAt(now time.Time, size time.Duration) (start time.Time, resetIn time.Duration) {
	start = now.UTC().Truncate(size)
	return start, start.Add(size).Sub(now)
}

func newResult(hits, limit int64, resetIn, size time.Duration) Result {
	res := Result{
		Allowed:   hits <= limit,
		Limit:     limit,
		Hits:      hits,
		Remaining: max(limit-hits, 0),
		ResetIn:   resetIn,
	}
	if !res.Allowed {
		res.RetryAfter = resetIn
		if res.RetryAfter <= 0 {
			res.RetryAfter = size
		}
	}
	return res
}
