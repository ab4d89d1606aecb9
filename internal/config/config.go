// Package config loads cafetel settings from defaults, an optional
// cafetel.yaml, a .env file and CAFETEL_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aayushbajaj/cafe-telemetry/pkg/exclusion"
)

type Config struct {
	DBPath            string `mapstructure:"db_path"`
	HTTPAddr          string `mapstructure:"http_addr"`
	RedisAddr         string `mapstructure:"redis_addr"`
	RedisPassword     string `mapstructure:"redis_password"`
	RedisDB           int    `mapstructure:"redis_db"`
	Env               string `mapstructure:"env"`
	LogLevel          string `mapstructure:"log_level"`
	TargetLaborPct    int    `mapstructure:"target_labor_pct"`
	GameDays          string `mapstructure:"game_days"`
	Theme             string `mapstructure:"theme"`
	MaxRequestsPerMin int    `mapstructure:"max_requests_per_min"`
}

// Options points Load at non-default files. Empty fields use the defaults.
type Options struct {
	ConfigFile string
	EnvFile    string
}

// Load resolves the configuration. A missing .env or cafetel.yaml is not an
// error; a malformed one is.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetEnvPrefix("CAFETEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db_path", "")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "")
	v.SetDefault("target_labor_pct", 28)
	v.SetDefault("game_days", "")
	v.SetDefault("theme", "default")
	v.SetDefault("max_requests_per_min", 120)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("cafetel")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "cafetel"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || opts.ConfigFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GameDaySet parses GameDays, falling back to the built-in 2025 schedule when
// unset.
func (c *Config) GameDaySet() (exclusion.Set, error) {
	if strings.TrimSpace(c.GameDays) == "" {
		return exclusion.DefaultGameDays(), nil
	}
	set, err := exclusion.ParseGameDays(c.GameDays)
	if err != nil {
		return nil, fmt.Errorf("game_days: %w", err)
	}
	return set, nil
}
