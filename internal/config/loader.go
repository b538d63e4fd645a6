package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultAddr binds every interface on the well-known simulator port.
const DefaultAddr = ":8000"

// Load reads config.yaml (optional) and MDPSERVE_* environment variables on top
// of the built-in defaults.
func Load() (*Config, error) {
	return LoadFrom(New())
}

// New returns a viper instance preloaded with defaults and lookup paths, so
// callers such as the CLI can bind flags before loading.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/mdpserve/")

	v.SetEnvPrefix("MDPSERVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadFrom unmarshals and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", DefaultAddr)
	v.SetDefault("http.shutdown_timeout", "5s")

	v.SetDefault("static.dir", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "mdpserve")
	v.SetDefault("metrics.subsystem", "http")
}
