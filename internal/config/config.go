package config

import (
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Config 汇总应用的全部配置。
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Static  StaticConfig  `mapstructure:"static"`
	Headers HeadersConfig `mapstructure:"headers"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// HTTPConfig 定义 HTTP 服务配置。
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StaticConfig 定义静态文件根目录，留空时使用可执行文件所在目录。
type StaticConfig struct {
	Dir string `mapstructure:"dir"`
}

// HeadersConfig 定义额外注入的响应头，跨域隔离头始终存在。
type HeadersConfig struct {
	Extra map[string]string `mapstructure:"extra"`
}

// LogConfig 定义日志配置。
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

// MetricsConfig 定义 Prometheus 指标配置。
type MetricsConfig struct {
	Enabled   bool      `mapstructure:"enabled"`
	Namespace string    `mapstructure:"namespace"`
	Subsystem string    `mapstructure:"subsystem"`
	Token     string    `mapstructure:"token"`
	Buckets   []float64 `mapstructure:"buckets"`
}

func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return errors.New("http.addr is required")
	}
	if c.HTTP.ShutdownTimeout < 0 {
		return errors.New("http.shutdown_timeout must not be negative")
	}
	return nil
}
