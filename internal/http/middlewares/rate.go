package middlewares

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/roleviews/internal/http/errors"
	"github.com/dropDatabas3/roleviews/internal/observability/logger"
	"github.com/dropDatabas3/roleviews/internal/rate"
)

// clientIP: primer hop de X-Forwarded-For, si no el host de RemoteAddr.
func clientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		first, _, _ := strings.Cut(xf, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateKeyFunc arma la key de rate limiting de un request.
type RateKeyFunc func(r *http.Request) string

// DefaultRateKey cuenta por usuario autenticado y, si es anónimo, por IP.
// Va después de OptionalAuth.
func DefaultRateKey(r *http.Request) string {
	if uid := GetUserID(r.Context()); uid != "" {
		return "user|" + uid
	}
	return "ip|" + clientIP(r)
}

// RateLimitConfig configura WithRateLimit. Limiter nil desactiva el middleware.
type RateLimitConfig struct {
	Limiter   rate.Limiter
	KeyFunc   RateKeyFunc
	Whitelist []string // paths exentos (ej: /healthz, /metrics)
}

func ceilSeconds(d time.Duration) string {
	return strconv.FormatInt(int64(math.Ceil(d.Seconds())), 10)
}

// setRateHeaders publica el estado de la ventana en cada respuesta limitada.
func setRateHeaders(h http.Header, res rate.Result) {
	h.Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
	h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetIn).Unix(), 10))
	if !res.Allowed {
		h.Set("Retry-After", ceilSeconds(res.RetryAfter))
	}
}

// WithRateLimit responde 429 RATE_LIMIT_EXCEEDED al superar el límite. Si el limiter
// falla el request pasa (fail open) y se loguea.
func WithRateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	keyFor := cfg.KeyFunc
	if keyFor == nil {
		keyFor = DefaultRateKey
	}
	exempt := make(map[string]bool, len(cfg.Whitelist))
	for _, p := range cfg.Whitelist {
		exempt[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if exempt[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			res, err := cfg.Limiter.Allow(r.Context(), keyFor(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable, allowing request", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			setRateHeaders(w.Header(), res)
			if !res.Allowed {
				errors.WriteError(w, r, errors.ErrRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
