// 文件路径: internal/api/router.go
// 模块说明: 组装 chi 路由：健康检查、可选的 Prometheus 指标，其余路径全部交给静态文件处理。
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/creamcroissant/mdpserve/internal/api/middleware"
	"github.com/creamcroissant/mdpserve/internal/config"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOption 允许在创建 Router 时附加功能。
type RouterOption func(*routerOptions)

type routerOptions struct {
	isolation  middleware.IsolationConfig
	metrics    config.MetricsConfig
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
}

// WithIsolation 覆盖默认的跨域隔离头配置（通常只用来追加额外头）。
func WithIsolation(cfg middleware.IsolationConfig) RouterOption {
	return func(ro *routerOptions) {
		ro.isolation = cfg
	}
}

// WithMetrics 打开 Prometheus 指标；reg 为 nil 时使用全局默认注册表。
func WithMetrics(cfg config.MetricsConfig, reg *prometheus.Registry) RouterOption {
	return func(ro *routerOptions) {
		ro.metrics = cfg
		if reg != nil {
			ro.registerer = reg
			ro.gatherer = reg
		}
	}
}

// NewRouter serves root and wraps every response with the cross-origin
// isolation headers.
func NewRouter(logger *slog.Logger, root string, opts ...RouterOption) (http.Handler, error) {
	if root == "" {
		return nil, errors.New("router requires a static root")
	}
	if logger == nil {
		logger = slog.Default()
	}

	options := routerOptions{
		isolation:  middleware.DefaultIsolationConfig(),
		registerer: prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	r := chi.NewRouter()

	// 最外层，保证 404、405、panic 恢复后的 500 也带上隔离头
	r.Use(
		middleware.CrossOriginIsolation(options.isolation),
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
	)

	if options.metrics.Enabled {
		mCfg := middleware.DefaultMetricsConfig()
		if options.metrics.Namespace != "" {
			mCfg.Namespace = options.metrics.Namespace
		}
		if options.metrics.Subsystem != "" {
			mCfg.Subsystem = options.metrics.Subsystem
		}
		if len(options.metrics.Buckets) > 0 {
			mCfg.Buckets = options.metrics.Buckets
		}
		metrics, err := middleware.NewMetrics(options.registerer, mCfg)
		if err != nil {
			return nil, err
		}
		r.Use(metrics.Middleware())
	}

	r.Use(
		middleware.StructuredLogger(middleware.LoggingConfig{
			Logger:        logger,
			SlowThreshold: 500 * time.Millisecond,
			SkipPaths:     []string{"/healthz", "/metrics"},
		}),
		chiMiddleware.Recoverer,
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"ts":     time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	if options.metrics.Enabled {
		metricsHandler := promhttp.HandlerFor(options.gatherer, promhttp.HandlerOpts{})
		if options.metrics.Token != "" {
			r.With(middleware.MetricsGuard(options.metrics.Token)).Handle("/metrics", metricsHandler)
		} else {
			r.Handle("/metrics", metricsHandler)
		}
	}

	static := newStaticHandler(root)
	r.Handle("/", static)
	r.Handle("/*", static)

	return r, nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
