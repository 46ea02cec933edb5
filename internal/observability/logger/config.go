package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configura el logger del servicio.
type Config struct {
	// Env: "dev" (consola con colores) o "prod" (JSON). Default "dev".
	Env string
	// Level: debug | info | warn | error. Default "info".
	Level string
	// Service y Version se agregan a cada entrada.
	Service string
	Version string
	// Output reemplaza stderr (tests, o un archivo en prod).
	Output io.Writer
}

// ParseLevel valida y convierte log.level. Vacío => info.
func ParseLevel(lvl string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("logger: unknown level %q", lvl)
}

func isProd(env string) bool { return strings.EqualFold(strings.TrimSpace(env), "prod") }

// encoderConfig: JSON con tiempos ISO8601 en prod, consola compacta en dev.
func encoderConfig(prod bool) zapcore.EncoderConfig {
	if prod {
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.EncodeCaller = zapcore.ShortCallerEncoder
		return ec
	}
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	ec.EncodeCaller = zapcore.ShortCallerEncoder
	return ec
}

// build arma el *zap.Logger. Un nivel inválido cae a info (config ya lo valida).
func build(cfg Config) *zap.Logger {
	level, _ := ParseLevel(cfg.Level)
	prod := isProd(cfg.Env)

	ec := encoderConfig(prod)
	var enc zapcore.Encoder
	if prod {
		enc = zapcore.NewJSONEncoder(ec)
	} else {
		enc = zapcore.NewConsoleEncoder(ec)
	}

	out := zapcore.Lock(os.Stderr)
	if cfg.Output != nil {
		out = zapcore.Lock(zapcore.AddSync(cfg.Output))
	}

	opts := []zap.Option{zap.AddCaller()}
	if prod {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	l := zap.New(zapcore.NewCore(enc, out, zap.NewAtomicLevelAt(level)), opts...)

	var base []zap.Field
	if cfg.Service != "" {
		base = append(base, zap.String("service", cfg.Service))
	}
	if cfg.Version != "" {
		base = append(base, zap.String("version", cfg.Version))
	}
	return l.With(base...)
}
