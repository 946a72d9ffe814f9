package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from every environment variable read into the config.
// Nested keys use a double underscore: SITEINTAKE_DATABASE__PATH -> database.path.
const EnvPrefix = "SITEINTAKE_"

type Config struct {
	Server      ServerConfig      `koanf:"server" validate:"required"`
	Database    DatabaseConfig    `koanf:"database" validate:"required"`
	Diagnostics DiagnosticsConfig `koanf:"diagnostics" validate:"required"`
	Session     SessionConfig     `koanf:"session" validate:"required"`
	Tokens      TokenConfig       `koanf:"tokens" validate:"required"`
	Access      AccessConfig      `koanf:"access"`
	Stats       StatsConfig       `koanf:"stats" validate:"required"`
}

type ServerConfig struct {
	Port     string `koanf:"port" validate:"required,numeric"`
	UseHTTPS bool   `koanf:"use_https"`
}

type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type DiagnosticsConfig struct {
	LogPath string `koanf:"log_path" validate:"required"`
}

type SessionConfig struct {
	CookieName      string `koanf:"cookie_name" validate:"required"`
	LifetimeSeconds int64  `koanf:"lifetime_seconds" validate:"required,gt=0"`
}

// TokenConfig selects where replay tokens live.
type TokenConfig struct {
	Backend  string        `koanf:"backend" validate:"required,oneof=memory redis"`
	RedisURL string        `koanf:"redis_url" validate:"required_if=Backend redis"`
	TTL      time.Duration `koanf:"ttl" validate:"gt=0"`
}

type AccessConfig struct {
	SkipPaths []string `koanf:"skip_paths"`
}

type StatsConfig struct {
	DefaultDays int `koanf:"default_days" validate:"required,gt=0,lte=366"`
	// Timezone is an IANA name; daily stats are grouped by calendar date there.
	Timezone string `koanf:"timezone" validate:"required,timezone"`
}

// Location resolves Timezone, falling back to UTC.
func (s StatsConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Default returns the configuration used when no environment overrides are set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		Database: DatabaseConfig{
			Path: "site_intake.db",
		},
		Diagnostics: DiagnosticsConfig{
			LogPath: "form_errors.log",
		},
		Session: SessionConfig{
			CookieName:      "site_session",
			LifetimeSeconds: 3600,
		},
		Tokens: TokenConfig{
			Backend: "memory",
			TTL:     time.Hour,
		},
		Access: AccessConfig{
			SkipPaths: []string{"/healthz", "/metrics"},
		},
		Stats: StatsConfig{
			DefaultDays: 30,
			Timezone:    "UTC",
		},
	}
}

// Load reads an optional .env file, overlays SITEINTAKE_* environment variables on
// the defaults and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// listKeys are read from the environment as comma separated lists.
var listKeys = map[string]struct{}{
	"access.skip_paths": {},
}

func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	k := koanf.New(".")
	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__", ".")
		if _, ok := listKeys[key]; ok {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
