// Package conf loads the process configuration from file and environment.
// Precedence: environment variables, then the config file, then defaults.
package conf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/embedhub/embedhub/internal/log"
	"github.com/embedhub/embedhub/internal/pkg/xcache"
	"github.com/embedhub/embedhub/internal/server"
	"github.com/embedhub/embedhub/internal/server/biz"
	"github.com/embedhub/embedhub/internal/server/db"
)

type Config struct {
	Log       log.Config     `conf:"log" yaml:"log" json:"log"`
	APIServer server.Config  `conf:"server" yaml:"server" json:"server"`
	DB        db.Config      `conf:"db" yaml:"db" json:"db"`
	Auth      biz.AuthConfig `conf:"auth" yaml:"auth" json:"auth"`
	Cache     xcache.Config  `conf:"cache" yaml:"cache" json:"cache"`
}

func defaultConfig() Config {
	return Config{
		Log: log.Config{
			Level:  "info",
			Format: "json",
		},
		APIServer: server.Config{
			Name:           "embedhub",
			Host:           "0.0.0.0",
			Port:           8090,
			ReadTimeout:    30 * time.Second,
			RequestTimeout: 30 * time.Second,
		},
		DB: db.Config{
			Dialect: "sqlite",
			DSN:     "embedhub.db",
		},
		Cache: xcache.Config{
			Mode: xcache.ModeMemory,
			Memory: xcache.MemoryConfig{
				Expiration:      time.Minute,
				CleanupInterval: 5 * time.Minute,
			},
		},
	}
}

// Load reads embedhub.yml from the working directory or /etc/embedhub,
// applies EMBEDHUB_* environment overrides and fills in defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("embedhub")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.embedhub")
	v.AddConfigPath("/etc/embedhub")

	v.SetEnvPrefix("EMBEDHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config

	err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "conf"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := mergo.Merge(&cfg, defaultConfig()); err != nil {
		return Config{}, fmt.Errorf("failed to apply defaults: %w", err)
	}

	return cfg, nil
}

// Module provides the loaded configuration and its sections.
var Module = fx.Options(
	fx.Provide(Load),
	fx.Provide(func(c Config) log.Config { return c.Log }),
	fx.Provide(func(c Config) server.Config { return c.APIServer }),
	fx.Provide(func(c Config) db.Config { return c.DB }),
	fx.Provide(func(c Config) biz.AuthConfig { return c.Auth }),
	fx.Provide(func(c Config) xcache.Config { return c.Cache }),
)
