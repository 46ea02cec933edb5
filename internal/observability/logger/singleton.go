package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var global atomic.Pointer[zap.Logger]

// Init reemplaza el logger global. main lo llama una vez con la config cargada.
func Init(cfg Config) {
	global.Store(build(cfg))
}

// L retorna el logger global (dev/info si Init no fue llamado).
func L() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	l := build(Config{})
	if global.CompareAndSwap(nil, l) {
		return l
	}
	return global.Load()
}

// With retorna el logger global con fields fijos (ej: component).
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync vacía los buffers del logger global.
func Sync() error {
	return L().Sync()
}
