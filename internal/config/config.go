// Package config loads the legocat configuration from a TOML file, applies
// LEGOCAT_* environment overrides and validates the result.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/sfko/legocat/internal/validation"
)

const (
	DefaultListen   = "0.0.0.0:8080"
	DefaultDriver   = "sqlite"
	DefaultDSN      = "legocat.db"
	DefaultPageSize = 100
	EnvPrefix       = "LEGOCAT_"
)

// Config is the full legocat configuration
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// DatabaseConfig selects and tunes the catalog database
type DatabaseConfig struct {
	Driver       string `toml:"driver" validate:"oneof=sqlite mysql pgx"`
	DSN          string `toml:"dsn" validate:"required"`
	MaxOpenConns int    `toml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `toml:"max_idle_conns" validate:"gte=0"`
}

// ServerConfig configures the HTTP surface
type ServerConfig struct {
	Listen              string `toml:"listen" validate:"required,hostname_port"`
	PageSize            int    `toml:"page_size" validate:"gte=1,lte=1000"`
	ReadTimeoutSeconds  int    `toml:"read_timeout_seconds" validate:"gte=1"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds" validate:"gte=1"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=json text"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:       DefaultDriver,
			DSN:          DefaultDSN,
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Server: ServerConfig{
			Listen:              DefaultListen,
			PageSize:            DefaultPageSize,
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the configuration at path over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field of the configuration
func (c *Config) Validate() error {
	for _, section := range []any{&c.Database, &c.Server, &c.Log} {
		if err := validation.ValidateStruct(section); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}

// Save writes the configuration as TOML
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadTimeout returns the server read timeout
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeoutSeconds) * time.Second
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
		return nil
	}

	str("DB_DRIVER", &c.Database.Driver)
	str("DB_DSN", &c.Database.DSN)
	str("LISTEN", &c.Server.Listen)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	for key, dst := range map[string]*int{
		"DB_MAX_OPEN_CONNS":     &c.Database.MaxOpenConns,
		"DB_MAX_IDLE_CONNS":     &c.Database.MaxIdleConns,
		"PAGE_SIZE":             &c.Server.PageSize,
		"READ_TIMEOUT_SECONDS":  &c.Server.ReadTimeoutSeconds,
		"WRITE_TIMEOUT_SECONDS": &c.Server.WriteTimeoutSeconds,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	return nil
}
