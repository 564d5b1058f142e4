package middleware

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"postboard/pkg/common"
	"postboard/pkg/logger"
)

type traceKey string

const TraceId traceKey = "traceId"

type LoggingMiddleware struct {
	Logger *zap.SugaredLogger
}

func NewLoggingMiddleware(l *zap.SugaredLogger) *LoggingMiddleware {
	return &LoggingMiddleware{
		Logger: l,
	}
}

// SetupTracing attaches a random trace id to the request context.
func (lm *LoggingMiddleware) SetupTracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), TraceId, common.RandStringRunes(8))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetupLogging puts a request-scoped logger carrying the trace id into
// the context; handlers get it back via logger.Log(ctx).
func (lm *LoggingMiddleware) SetupLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLogger := lm.Logger
		if traceId, ok := r.Context().Value(TraceId).(string); ok {
			reqLogger = reqLogger.With("trace_id", traceId)
		}
		ctx := logger.ToContext(r.Context(), reqLogger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (lm *LoggingMiddleware) AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Log(r.Context()).Infow("request handled",
			"method", r.Method,
			"url", r.URL.Path,
			"remote", r.RemoteAddr,
			"took", time.Since(start),
		)
	})
}
