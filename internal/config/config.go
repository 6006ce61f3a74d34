package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LegacyTokenEnv is the variable older deployments set the BetsAPI token in.
const LegacyTokenEnv = "BETS_API_TOKEN"

// Config holds the full application configuration.
type Config struct {
	BetsAPI    BetsAPIConfig    `yaml:"betsapi" mapstructure:"betsapi"`
	Odds       OddsConfig       `yaml:"odds" mapstructure:"odds"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Artifacts  ArtifactsConfig  `yaml:"artifacts" mapstructure:"artifacts"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Resilience ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
}

// BetsAPIConfig holds BetsAPI credentials and pacing.
type BetsAPIConfig struct {
	Token           string  `yaml:"token" mapstructure:"token"`
	BaseURL         string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs     int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec      float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst           int     `yaml:"burst" mapstructure:"burst"`
	PageConcurrency int     `yaml:"page_concurrency" mapstructure:"page_concurrency"`
}

// OddsConfig configures opening-line lookups.
type OddsConfig struct {
	// Concurrency bounds parallel lookups within one pairing step. 1 is sequential.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// CacheConfig configures the provider response cache.
type CacheConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	RedisURL    string `yaml:"redis_url" mapstructure:"redis_url"`
	TTLHours    int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// ArtifactsConfig configures the per-stage JSON dumps.
type ArtifactsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
	// AuthToken, when set, is required as a Bearer token on /api routes.
	AuthToken string `yaml:"auth_token" mapstructure:"auth_token"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ResilienceConfig configures retries and circuit breakers for provider calls.
type ResilienceConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// Load reads configuration from file and environment. A .env file in the
// working directory is loaded first; it never overrides variables already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OVERUNDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Empty defaults register the key so env overrides unmarshal.
	v.SetDefault("betsapi.token", "")
	v.SetDefault("cache.database_url", "")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("server.auth_token", "")
	v.SetDefault("betsapi.base_url", "https://api.b365api.com")
	v.SetDefault("betsapi.timeout_secs", 30)
	v.SetDefault("betsapi.rate_per_sec", 1.0)
	v.SetDefault("betsapi.burst", 5)
	v.SetDefault("betsapi.page_concurrency", 4)
	v.SetDefault("odds.concurrency", 1)
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.path", "overunder-cache.db")
	v.SetDefault("cache.ttl_hours", 12)
	v.SetDefault("artifacts.enabled", false)
	v.SetDefault("artifacts.dir", "artifacts")
	v.SetDefault("server.port", 3000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("resilience.max_attempts", 3)
	v.SetDefault("resilience.initial_backoff_ms", 500)
	v.SetDefault("resilience.max_backoff_ms", 10000)
	v.SetDefault("resilience.failure_threshold", 5)
	v.SetDefault("resilience.reset_timeout_secs", 30)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if cfg.BetsAPI.Token == "" {
		cfg.BetsAPI.Token = os.Getenv(LegacyTokenEnv)
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on.
// Modes: "serve", "predict", "cache".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve", "predict":
		if c.BetsAPI.Token == "" {
			errs = append(errs, "betsapi.token is required (or "+LegacyTokenEnv+")")
		}
		if c.BetsAPI.BaseURL == "" {
			errs = append(errs, "betsapi.base_url is required")
		}
		if c.Odds.Concurrency < 1 || c.Odds.Concurrency > 32 {
			errs = append(errs, fmt.Sprintf("odds.concurrency must be between 1 and 32, got %d", c.Odds.Concurrency))
		}
		if c.BetsAPI.PageConcurrency < 1 {
			errs = append(errs, "betsapi.page_concurrency must be > 0")
		}
		if mode == "serve" && c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Artifacts.Enabled && c.Artifacts.Dir == "" {
			errs = append(errs, "artifacts.dir is required when artifacts are enabled")
		}
	case "cache":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Cache.Driver {
	case "sqlite":
		if c.Cache.Path == "" {
			errs = append(errs, "cache.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Cache.DatabaseURL == "" {
			errs = append(errs, "cache.database_url is required for the postgres driver")
		}
	case "redis":
		if c.Cache.RedisURL == "" {
			errs = append(errs, "cache.redis_url is required for the redis driver")
		}
	case "memory", "none":
	default:
		errs = append(errs, fmt.Sprintf("cache.driver %q is not supported", c.Cache.Driver))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
