package logger

import (
	"context"
	"log"

	"go.uber.org/zap"
)

type ctxKey int

const loggerKey ctxKey = iota

var defaultLogger = zap.NewNop().Sugar()

// Run builds the process-wide logger with the given level ("debug",
// "info", "error", "fatal"...). Unknown levels fall back to "info".
func Run(level string) *zap.SugaredLogger {
	atom := zap.NewAtomicLevel()
	if err := atom.UnmarshalText([]byte(level)); err != nil {
		atom.SetLevel(zap.InfoLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = atom
	zl, err := cfg.Build()
	if err != nil {
		log.Fatalln("logger: can't build zap logger:", err)
	}

	defaultLogger = zl.Sugar()
	return defaultLogger
}

func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Log returns the request-scoped logger if the middleware put one into
// the context, the process-wide one otherwise.
func Log(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(loggerKey).(*zap.SugaredLogger); ok && l != nil {
		return l
	}
	return defaultLogger
}
