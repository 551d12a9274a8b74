package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/freestreet/internal/api"
	"github.com/mcoot/freestreet/internal/factory"
	"github.com/mcoot/freestreet/internal/session"
	redisstorage "github.com/mcoot/freestreet/internal/storage/redis"
)

// Config holds the server configuration parsed from environment variables
type Config struct {
	// Listener
	ListenHost string `env:"LISTEN_HOST"`
	ListenPort int    `env:"LISTEN_PORT" envDefault:"8080"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Storage
	StorageType   string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL      string `env:"REDIS_URL"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// Sessions
	MaxParticipants   int           `env:"MAX_PARTICIPANTS" envDefault:"500"`
	JailSweepInterval time.Duration `env:"JAIL_SWEEP_INTERVAL" envDefault:"1s"`

	// Operator endpoints are open when APIToken is empty
	APIToken string `env:"API_TOKEN"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the process environment into a Config
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that cannot be used to start a server
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageType {
	case factory.StorageTypeMemory:
	case factory.StorageTypeRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when STORAGE_TYPE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_TYPE must be memory or redis, got %q", c.StorageType))
	}

	if c.MaxParticipants <= 0 {
		errs = append(errs, fmt.Errorf("MAX_PARTICIPANTS must be positive, got %d", c.MaxParticipants))
	}
	if c.ListenPort < 0 || c.ListenPort > 65535 {
		errs = append(errs, fmt.Errorf("LISTEN_PORT out of range: %d", c.ListenPort))
	}
	if c.JailSweepInterval <= 0 {
		errs = append(errs, errors.New("JAIL_SWEEP_INTERVAL must be positive"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Level parses LogLevel
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

// Logger builds the JSON logger writing to w at the configured level
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Server returns the HTTP server settings
func (c *Config) Server() api.ServerConfig {
	return api.ServerConfig{
		Host:            c.ListenHost,
		Port:            c.ListenPort,
		ReadTimeout:     c.ReadTimeout,
		WriteTimeout:    c.WriteTimeout,
		ShutdownTimeout: c.ShutdownTimeout,
	}
}

// Factory returns the application factory settings
func (c *Config) Factory(logger *slog.Logger) factory.Config {
	cfg := factory.Config{
		Logger:        logger,
		StorageType:   c.StorageType,
		SessionConfig: session.Config{MaxParticipants: c.MaxParticipants},
	}
	if c.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		if c.RedisPoolSize > 0 {
			redisCfg.PoolSize = c.RedisPoolSize
		}
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}
