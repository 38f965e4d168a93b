package config

import (
	"ctchen222/tictactoe/internal/validator"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// History backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	LogLevel          string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	HTTPAddr          string    `yaml:"http-addr" env:"HTTP_ADDR" env-default:":8080"`
	AllowedOrigins    []string  `yaml:"allowed-origins" env:"ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	ComputerMoveDelay string    `yaml:"computer-move-delay" env:"COMPUTER_MOVE_DELAY" env-default:"700ms"`
	History           History   `yaml:"history"`
	Telemetry         Telemetry `yaml:"telemetry"`
	Session           Session   `yaml:"session"`
	Auth              Auth      `yaml:"auth"`
}

type History struct {
	Backend    string `yaml:"backend" env:"HISTORY_BACKEND" env-default:"memory" validate:"oneof=memory sqlite redis"`
	SQLitePath string `yaml:"sqlite-path" env:"HISTORY_SQLITE_PATH" env-default:"./history.db" validate:"required_if=Backend sqlite"`
	RedisAddr  string `yaml:"redis-addr" env:"HISTORY_REDIS_ADDR" env-default:"localhost:6379" validate:"required_if=Backend redis"`
	Limit      int    `yaml:"limit" env:"HISTORY_LIMIT" env-default:"20" validate:"min=1"`
}

type Telemetry struct {
	Enabled           bool   `yaml:"enabled" env:"TELEMETRY_ENABLED" env-default:"false"`
	CollectorEndpoint string `yaml:"collector-endpoint" env:"TELEMETRY_COLLECTOR_ENDPOINT" env-default:"otel-collector:4317"`
	ServiceName       string `yaml:"service-name" env:"TELEMETRY_SERVICE_NAME" env-default:"tic-tac-toe"`
}

type Session struct {
	TTL       time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"30m"`
	SweepSpec string        `yaml:"sweep-spec" env:"SESSION_SWEEP_SPEC" env-default:"@every 1m"`
}

type Auth struct {
	TokenSecret string        `yaml:"token-secret" env:"AUTH_TOKEN_SECRET" env-default:"change-me"`
	TokenTTL    time.Duration `yaml:"token-ttl" env:"AUTH_TOKEN_TTL" env-default:"24h"`
}

// Load reads the YAML file at path, or only the environment when path is
// empty, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = cleanenv.ReadConfig(path, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err := validator.GetValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %s", validator.Describe(err))
	}
	// A string field keeps an explicit "0s"; cleanenv would replace a zero Duration with the default.
	if d, err := time.ParseDuration(cfg.ComputerMoveDelay); err != nil || d < 0 {
		return nil, fmt.Errorf("invalid config: computer-move-delay %q is not a non-negative duration", cfg.ComputerMoveDelay)
	}
	return cfg, nil
}

// ComputerDelay returns the parsed computer-move-delay. Load has already
// rejected values that do not parse.
func (c *Config) ComputerDelay() time.Duration {
	d, _ := time.ParseDuration(c.ComputerMoveDelay)
	return d
}

// MustLoad is Load that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
