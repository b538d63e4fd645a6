// 文件路径: internal/api/middleware/isolation.go
// 模块说明: 跨域隔离中间件，给每个响应加上 CORS、COEP、COOP 头
package middleware

import (
	"net/http"
)

const (
	HeaderAllowOrigin     = "Access-Control-Allow-Origin"
	HeaderEmbedderPolicy  = "Cross-Origin-Embedder-Policy"
	HeaderOpenerPolicy    = "Cross-Origin-Opener-Policy"
	defaultAllowOrigin    = "*"
	defaultEmbedderPolicy = "require-corp"
	defaultOpenerPolicy   = "same-origin"
)

// IsolationConfig 跨域隔离头配置
type IsolationConfig struct {
	AllowOrigin    string            // Access-Control-Allow-Origin
	EmbedderPolicy string            // Cross-Origin-Embedder-Policy
	OpenerPolicy   string            // Cross-Origin-Opener-Policy
	Extra          map[string]string // 额外的固定响应头
}

// DefaultIsolationConfig 默认配置，SharedArrayBuffer 等高精度 API 需要这组头
func DefaultIsolationConfig() IsolationConfig {
	return IsolationConfig{
		AllowOrigin:    defaultAllowOrigin,
		EmbedderPolicy: defaultEmbedderPolicy,
		OpenerPolicy:   defaultOpenerPolicy,
	}
}

// CrossOriginIsolation 在处理请求前写入固定响应头，无论最终状态码是什么都会带上
func CrossOriginIsolation(config IsolationConfig) func(http.Handler) http.Handler {
	if config.AllowOrigin == "" {
		config.AllowOrigin = defaultAllowOrigin
	}
	if config.EmbedderPolicy == "" {
		config.EmbedderPolicy = defaultEmbedderPolicy
	}
	if config.OpenerPolicy == "" {
		config.OpenerPolicy = defaultOpenerPolicy
	}

	// 额外头先写，三个隔离头不允许被覆盖
	headers := make(http.Header, len(config.Extra)+3)
	for k, v := range config.Extra {
		headers.Set(k, v)
	}
	headers.Set(HeaderAllowOrigin, config.AllowOrigin)
	headers.Set(HeaderEmbedderPolicy, config.EmbedderPolicy)
	headers.Set(HeaderOpenerPolicy, config.OpenerPolicy)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dst := w.Header()
			for k, vs := range headers {
				dst[k] = append([]string(nil), vs...)
			}
			next.ServeHTTP(w, r)
		})
	}
}
