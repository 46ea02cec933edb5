package middlewares

import (
	"net/http"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/dropDatabas3/roleviews/internal/observability/logger"
)

// responseMeter registra status y bytes que el handler escribió.
type responseMeter struct {
	http.ResponseWriter
	status int // 0 hasta el primer WriteHeader/Write
	bytes  int
}

func (m *responseMeter) WriteHeader(code int) {
	if m.status != 0 {
		return
	}
	m.status = code
	m.ResponseWriter.WriteHeader(code)
}

func (m *responseMeter) Write(b []byte) (int, error) {
	if m.status == 0 {
		m.WriteHeader(http.StatusOK)
	}
	n, err := m.ResponseWriter.Write(b)
	m.bytes += n
	return n, err
}

func (m *responseMeter) code() int {
	if m.status == 0 {
		return http.StatusOK
	}
	return m.status
}

// accessLevel: 5xx error, 4xx warn, resto info.
func accessLevel(status int) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status >= 400:
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}

// WithLogging deja en el contexto el logger del request (ver logger.From) y escribe
// una línea de acceso al terminar. Va después de WithRequestID y OptionalAuth.
func WithLogging() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			reqLog := logger.With(
				logger.RequestID(GetRequestID(ctx)),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.ClientIP(clientIP(r)),
				logger.UserAgent(r.UserAgent()),
			)
			if uid := GetUserID(ctx); uid != "" {
				reqLog = reqLog.With(logger.UserID(uid))
			}

			meter := &responseMeter{ResponseWriter: w}
			next.ServeHTTP(meter, r.WithContext(logger.ToContext(ctx, reqLog)))

			status := meter.code()
			if ce := reqLog.Check(accessLevel(status), "request"); ce != nil {
				ce.Write(
					logger.Status(status),
					logger.Bytes(meter.bytes),
					logger.DurationMs(time.Since(start).Milliseconds()),
				)
			}
		})
	}
}
