package middlewares

import "context"

// ctxKey es una key tipada: el tipo del valor viaja con la key.
type ctxKey[T any] struct{ name string }

func (k ctxKey[T]) set(ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, k, v)
}

func (k ctxKey[T]) get(ctx context.Context) T {
	v, _ := ctx.Value(k).(T)
	return v
}

var (
	userIDKey    = ctxKey[string]{"user_id"}    // sub del JWT
	requestIDKey = ctxKey[string]{"request_id"} // X-Request-ID
)

// WithUserID marca el request como autenticado por userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return userIDKey.set(ctx, userID)
}

// GetUserID retorna el usuario autenticado; vacío si el request es anónimo.
func GetUserID(ctx context.Context) string { return userIDKey.get(ctx) }

// GetRequestID retorna el id asignado por WithRequestID.
func GetRequestID(ctx context.Context) string { return requestIDKey.get(ctx) }
