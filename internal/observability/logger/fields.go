package logger

import "go.uber.org/zap"

// Nombres de campo compartidos; los dashboards filtran por estas keys.
const (
	KeyRequestID = "request_id"
	KeyUserID    = "user_id"
	KeyHook      = "hook"
	KeyRole      = "role"
	KeyOutcome   = "outcome"
	KeyResource  = "resource"
	KeyAction    = "action"
)

// Request HTTP.
func RequestID(v string) zap.Field { return zap.String(KeyRequestID, v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }
func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }
func UserID(v string) zap.Field    { return zap.String(KeyUserID, v) }

// Dispatch por rol. Role vacío significa que no se resolvió ninguno.
func Hook(v string) zap.Field    { return zap.String(KeyHook, v) }
func Role(v string) zap.Field    { return zap.String(KeyRole, v) }
func Outcome(v string) zap.Field { return zap.String(KeyOutcome, v) }

// Viewset: recurso REST y acción (list, retrieve, create, update, destroy).
func Resource(v string) zap.Field { return zap.String(KeyResource, v) }
func Action(v string) zap.Field   { return zap.String(KeyAction, v) }

// Sistema.
func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Err(err error) zap.Field      { return zap.Error(err) }
func Count(v int) zap.Field        { return zap.Int("count", v) }
func ID(v string) zap.Field        { return zap.String("id", v) }

// Genéricos, para campos sin helper propio.
func Any(key string, v any) zap.Field   { return zap.Any(key, v) }
func String(key, v string) zap.Field    { return zap.String(key, v) }
func Int(key string, v int) zap.Field   { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
