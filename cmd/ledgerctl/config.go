package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sternrassler/helium-client/pkg/client"
	"github.com/Sternrassler/helium-client/pkg/logging"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// envPrefix namespaces environment overrides, e.g. LEDGER_API_BASE__URL.
const envPrefix = "LEDGER"

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type APIConfig struct {
	BaseURL    string        `mapstructure:"base-url"`
	UserAgent  string        `mapstructure:"user-agent"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max-retries"`
	RateLimit  int           `mapstructure:"rate-limit"`
	Burst      int           `mapstructure:"burst"`
}

// RedisConfig is optional. An empty Addr keeps the 429 cool-down in process.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// MetricsConfig enables the /metrics listener while a command runs.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

func (cfg *Config) Validate() error {
	if cfg.API.UserAgent == "" {
		return errors.New("api.user-agent must not be empty")
	}
	if cfg.API.MaxRetries < 0 {
		return fmt.Errorf("api.max-retries must be >= 0 (got %d)", cfg.API.MaxRetries)
	}
	if cfg.API.RateLimit < 0 {
		return fmt.Errorf("api.rate-limit must be >= 0 (got %d)", cfg.API.RateLimit)
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// loadConfig reads cfgFile when set, then applies LEDGER_* environment
// overrides on top of the defaults.
func loadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	defaults := client.DefaultConfig("ledgerctl/0.1.0")
	v.SetDefault("api.base-url", defaults.BaseURL)
	v.SetDefault("api.user-agent", defaults.UserAgent)
	v.SetDefault("api.timeout", defaults.Timeout)
	v.SetDefault("api.max-retries", defaults.MaxRetries)
	v.SetDefault("api.rate-limit", defaults.RateLimit)
	v.SetDefault("api.burst", defaults.Burst)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", string(logging.LevelInfo))
	v.SetDefault("log.pretty", false)
	v.SetDefault("metrics.addr", "")

	v.SetEnvPrefix(envPrefix)
	// api.base-url is overridden by LEDGER_API_BASE__URL.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "__"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// clientConfig maps the file layout onto client.Config. The caller closes
// the Redis client when one is set.
func (cfg *Config) clientConfig() client.Config {
	cc := client.DefaultConfig(cfg.API.UserAgent)
	cc.BaseURL = cfg.API.BaseURL
	cc.Timeout = cfg.API.Timeout
	cc.MaxRetries = cfg.API.MaxRetries
	cc.RateLimit = cfg.API.RateLimit
	cc.Burst = cfg.API.Burst

	if cfg.Redis.Addr != "" {
		cc.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return cc
}
