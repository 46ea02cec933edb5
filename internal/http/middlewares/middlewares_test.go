package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	jwtx "github.com/dropDatabas3/roleviews/internal/jwt"
	"github.com/dropDatabas3/roleviews/internal/observability/logger"
	"github.com/dropDatabas3/roleviews/internal/rate"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(GetUserID(r.Context())))
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChain_Order(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(okHandler), mk("a"), mk("b"), mk("c"))
	serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	serve(h, req)
	assert.Equal(t, "abc", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", maxRequestIDLen+1))
	serve(h, req)
	assert.Len(t, seen, 36)
}

func TestWithRecover(t *testing.T) {
	h := WithRecover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL")
}

func TestAuth(t *testing.T) {
	iss := jwtx.NewIssuer("test", []byte("secret"))
	tok, err := iss.Sign("u1", time.Minute)
	require.NoError(t, err)

	withToken := func(tok string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		return req
	}

	required := RequireAuth(iss)(http.HandlerFunc(okHandler))
	assert.Equal(t, http.StatusUnauthorized, serve(required, withToken("")).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(required, withToken("garbage")).Code)
	rec := serve(required, withToken(tok))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())

	optional := OptionalAuth(iss)(http.HandlerFunc(okHandler))
	rec = serve(optional, withToken(""))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, http.StatusUnauthorized, serve(optional, withToken("garbage")).Code)
	assert.Equal(t, "u1", serve(optional, withToken(tok)).Body.String())
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer   xyz ")
	assert.Equal(t, "xyz", bearerToken(req))

	req.Header.Set("Authorization", "Basic xyz")
	assert.Empty(t, bearerToken(req))
}

func TestWithLogging_PassesStatus(t *testing.T) {
	h := WithLogging()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestWithLogging_ScopesRequestLogger(t *testing.T) {
	var scoped *zap.Logger
	h := WithRequestID()(WithLogging()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scoped = logger.From(r.Context())
		_, _ = w.Write([]byte("ok"))
	})))
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/articles", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, scoped)
	assert.NotSame(t, logger.L(), scoped)
}

func TestAccessLevel(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, accessLevel(http.StatusOK))
	assert.Equal(t, zapcore.InfoLevel, accessLevel(http.StatusNoContent))
	assert.Equal(t, zapcore.WarnLevel, accessLevel(http.StatusForbidden))
	assert.Equal(t, zapcore.ErrorLevel, accessLevel(http.StatusNotImplemented))
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (rate.Result, error) {
	return rate.Result{}, errors.New("redis down")
}

func TestWithRateLimit(t *testing.T) {
	h := WithRateLimit(RateLimitConfig{
		Limiter:   rate.NewMemoryLimiter(1, time.Hour),
		Whitelist: []string{"/healthz"},
	})(http.HandlerFunc(okHandler))

	req := func(path, ip string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		r.RemoteAddr = ip + ":1234"
		return r
	}

	rec := serve(h, req("/articles", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	assert.Empty(t, rec.Header().Get("Retry-After"))

	rec = serve(h, req("/articles", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE_LIMIT_EXCEEDED")

	assert.Equal(t, http.StatusOK, serve(h, req("/articles", "10.0.0.2")).Code)
	rec = serve(h, req("/healthz", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))

	// usuarios autenticados tienen su propio contador
	r := req("/articles", "10.0.0.1")
	r = r.WithContext(WithUserID(r.Context(), "u1"))
	assert.Equal(t, http.StatusOK, serve(h, r).Code)
}

func TestWithRateLimit_FailsOpen(t *testing.T) {
	h := WithRateLimit(RateLimitConfig{Limiter: failingLimiter{}})(http.HandlerFunc(okHandler))
	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}
