package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppHost                string `mapstructure:"app_host"`
	AppPort                int    `mapstructure:"app_port"`
	DatabaseDSN            string `mapstructure:"database_dsn"`
	MongoDatabase          string `mapstructure:"mongo_database"`
	RateLimit              int    `mapstructure:"rate_limit_per_minute"`
	RedisAddr              string `mapstructure:"redis_addr"`
	RedisKeyPrefix         string `mapstructure:"redis_key_prefix"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds"`
	LogLevel               string `mapstructure:"log_level"`
	LogEncoding            string `mapstructure:"log_encoding"`
	ServiceName            string `mapstructure:"otel_service_name"`
	OTLPEndpoint           string `mapstructure:"otel_exporter_otlp_endpoint"`
	Environment            string `mapstructure:"environment"`
}

func (c Config) AppURL() string {
	return fmt.Sprintf("%s:%d", c.AppHost, c.AppPort)
}

var defaults = map[string]interface{}{
	"app_host":                    "0.0.0.0",
	"app_port":                    5000,
	"database_dsn":                "tasks.db",
	"mongo_database":              "task_manager",
	"rate_limit_per_minute":       120,
	"redis_addr":                  "",
	"redis_key_prefix":            "task_manager:ratelimit",
	"shutdown_timeout_seconds":    20,
	"log_level":                   "info",
	"log_encoding":                "json",
	"otel_service_name":           "task-manager",
	"otel_exporter_otlp_endpoint": "",
	"environment":                 "development",
}

// aliases lists extra environment variable names accepted for a key, for
// compatibility with common deployment conventions.
var aliases = map[string][]string{
	"app_port":     {"APP_PORT", "PORT"},
	"database_dsn": {"DATABASE_DSN", "MONGO_URI"},
}

// Load reads configuration from an optional config.yaml in the working
// directory, overridden by environment variables.
func Load() (Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range aliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.AppPort <= 0 || c.AppPort > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535, got %d", c.AppPort)
	}
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN must not be empty")
	}
	if c.RateLimit <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	return nil
}
