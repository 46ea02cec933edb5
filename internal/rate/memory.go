package rate

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter es la versión in-process de RedisLimiter.
type MemoryLimiter struct {
	c      *gocache.Cache
	Max    int64
	Window time.Duration
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		c:      gocache.New(2*window, 2*window),
		Max:    int64(max),
		Window: window,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	start, resetIn := windowAt(time.Now(), l.Window)
	k := fmt.Sprintf("%s:%d", key, start.UnixNano())

	// La entrada vive una ventana más que su cierre: no puede expirar entre Add e
	// IncrementInt64 aunque el request caiga justo en el borde.
	_ = l.c.Add(k, int64(0), resetIn+l.Window)
	hits, err := l.c.IncrementInt64(k, 1)
	if err != nil {
		return Result{}, fmt.Errorf("rate: memory: %w", err)
	}
	return newResult(hits, l.Max, resetIn, l.Window), nil
}
