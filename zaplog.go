package mediate

import (
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ZapLogger returns middleware that logs each request using the provided
// zap.Logger.
func ZapLogger(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("latency", time.Since(start)),
				zap.Int("size", rec.size),
				zap.String("remote", r.RemoteAddr),
			}

			if id := GetRequestID(r); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}

			logger.Info("request", fields...)
		})
	}
}

// RotatingLoggerConfig configures NewRotatingLogger.
type RotatingLoggerConfig struct {
	Filename   string        // log file path; empty logs to stderr only
	MaxSizeMB  int           // rotate after this size (default 100)
	MaxBackups int           // rotated files to keep (default 3)
	MaxAgeDays int           // days to keep rotated files (default 28)
	Level      zapcore.Level // minimum level (default info)
	Console    bool          // also write to stderr when a file is set
}

// NewRotatingLogger builds a JSON zap.Logger writing to a size-rotated
// file via lumberjack. Suitable for long-running services that cannot
// rely on an external log rotator.
func NewRotatingLogger(cfg RotatingLoggerConfig) *zap.Logger {
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 100
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 28
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewJSONEncoder(encCfg)

	var syncs []zapcore.WriteSyncer
	if cfg.Filename != "" {
		syncs = append(syncs, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}))
	}
	if cfg.Filename == "" || cfg.Console {
		syncs = append(syncs, zapcore.AddSync(os.Stderr))
	}

	core := zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(syncs...), cfg.Level)
	return zap.New(core)
}
