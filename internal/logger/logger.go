package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ctxKey          = "logger"
	RequestIDHeader = "X-Request-ID"
)

var base = zap.NewNop()

// Init builds the process logger. Production emits JSON, anything else a
// console encoder.
func Init(env, level string) error {
	cfg := zap.NewDevelopmentConfig()
	if env == "production" {
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	base = l
	zap.ReplaceGlobals(l)
	return nil
}

func L() *zap.Logger { return base }

func Sync() { _ = base.Sync() }

// FromGin returns the request logger, or the process logger outside a request.
func FromGin(c *gin.Context) *zap.Logger {
	if c != nil {
		if v, ok := c.Get(ctxKey); ok {
			if l, ok := v.(*zap.Logger); ok {
				return l
			}
		}
	}
	return base
}

// Middleware tags each request with an id and logs it once it completes.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, reqID)

		l := base.With(zap.String("request_id", reqID))
		c.Set(ctxKey, l)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			l.Error("request", fields...)
		case c.Writer.Status() >= 400:
			l.Warn("request", fields...)
		default:
			l.Info("request", fields...)
		}
	}
}
