// Package config reads runtime settings from the environment.
//
// Variables use the MENU_ prefix and a double underscore for nesting, so
// MENU_DATABASE__MAX_OPEN_CONNS lands in Config.Database.MaxOpenConns.
// A .env file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "MENU_"

type Config struct {
	Env      string         `koanf:"env" validate:"required,oneof=development local test production"`
	LogLevel string         `koanf:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
	Seed     bool           `koanf:"seed"`
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Auth     AuthConfig     `koanf:"auth" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required,numeric"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gt=0"`
}

// DatabaseConfig describes the SQLite store. Name is a file path or
// ":memory:".
type DatabaseConfig struct {
	Name            string        `koanf:"name" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"gte=0"`
	BusyTimeout     time.Duration `koanf:"busy_timeout" validate:"gte=0"`
	LogLevel        string        `koanf:"log_level" validate:"omitempty,oneof=silent error warn info"`
	SlowThreshold   time.Duration `koanf:"slow_threshold" validate:"gte=0"`
}

type AuthConfig struct {
	Secret   string        `koanf:"secret" validate:"required,min=16"`
	TokenTTL time.Duration `koanf:"token_ttl" validate:"gt=0"`
}

// Default returns the settings used for anything the environment leaves unset.
func Default() *Config {
	return &Config{
		Env:      "development",
		LogLevel: "info",
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Name:            "restaurant_menus.db",
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
			BusyTimeout:     5 * time.Second,
			LogLevel:        "warn",
			SlowThreshold:   200 * time.Millisecond,
		},
		Auth: AuthConfig{
			Secret:   "restaurant_menu_dev_secret_2024",
			TokenTTL: 24 * time.Hour,
		},
	}
}

// Load overlays MENU_* environment variables on Default and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the process runs on a developer machine.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}
