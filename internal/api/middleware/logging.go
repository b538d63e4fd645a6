// 文件路径: internal/api/middleware/logging.go
// 模块说明: 访问日志中间件，按状态码和耗时选择日志级别
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// LoggingConfig 日志中间件配置
type LoggingConfig struct {
	Logger        *slog.Logger
	SlowThreshold time.Duration // 超过此时间记为 WARN
	SkipPaths     []string      // 不记录的路径（健康检查、指标）
}

// DefaultLoggingConfig 默认配置
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Logger:        slog.Default(),
		SlowThreshold: 500 * time.Millisecond,
		SkipPaths:     []string{"/healthz", "/metrics"},
	}
}

// StructuredLogger 每个请求结束后写一条结构化日志
func StructuredLogger(config LoggingConfig) func(http.Handler) http.Handler {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.SlowThreshold == 0 {
		config.SlowThreshold = 500 * time.Millisecond
	}

	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				ww.Header().Set("X-Request-ID", requestID)
			}

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", duration),
				slog.Int("bytes", ww.BytesWritten()),
				slog.String("remote_addr", r.RemoteAddr),
			}

			level := slog.LevelInfo
			msg := "request completed"
			switch {
			case status >= 500:
				level = slog.LevelError
				msg = "request failed"
			case status >= 400:
				level = slog.LevelWarn
				msg = "request error"
			case duration > config.SlowThreshold:
				level = slog.LevelWarn
				msg = "slow request"
				attrs = append(attrs, slog.Duration("slow_threshold", config.SlowThreshold))
			}

			config.Logger.LogAttrs(r.Context(), level, msg, attrs...)
		})
	}
}
