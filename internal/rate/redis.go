package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// expiryGrace mantiene la key un poco después del cierre de la ventana.
const expiryGrace = time.Second

// RedisLimiter guarda un contador por key y ventana: INCR + EXPIREAT en una transacción.
type RedisLimiter struct {
	Client *rdb.Client
	Prefix string
	Max    int64
	Window time.Duration
}

func NewRedisLimiter(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{Client: client, Prefix: prefix, Max: int64(max), Window: window}
}

func (l *RedisLimiter) key(key string, start time.Time) string {
	return fmt.Sprintf("%s%s:%d", l.Prefix, strings.ReplaceAll(key, " ", "_"), start.Unix())
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	start, resetIn := windowAt(time.Now(), l.Window)
	k := l.key(key, start)

	var incr *rdb.IntCmd
	_, err := l.Client.TxPipelined(ctx, func(p rdb.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.ExpireAt(ctx, k, start.Add(l.Window+expiryGrace))
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("rate: redis: %w", err)
	}
	return newResult(incr.Val(), l.Max, resetIn, l.Window), nil
}
