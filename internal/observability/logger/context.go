package logger

import (
	"context"

	"go.uber.org/zap"
)

type scopedKey struct{}

// ToContext guarda el logger del request (ver middlewares.WithLogging).
func ToContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, scopedKey{}, l)
}

// From retorna el logger del request, o el global si no hay uno, con fields agregados.
func From(ctx context.Context, fields ...zap.Field) *zap.Logger {
	l := L()
	if ctx != nil {
		if scoped, ok := ctx.Value(scopedKey{}).(*zap.Logger); ok {
			l = scoped
		}
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
