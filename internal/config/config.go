// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package config loads service configuration from defaults, an optional
// YAML file, and command-line flags, in that order of precedence.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/xdg"
)

// Config holds all service configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Database      DatabaseConfig      `koanf:"database"`
	Scrypt        ScryptConfig        `koanf:"scrypt"`
	Session       SessionConfig       `koanf:"session"`
	Observability ObservabilityConfig `koanf:"observability"`
	Log           LogConfig           `koanf:"log"`
}

// ServerConfig holds the HTTP API listener settings.
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL         string `koanf:"url"`
	MaxConns    int32  `koanf:"max_conns"`
	MinConns    int32  `koanf:"min_conns"`
	PingRetries uint64 `koanf:"ping_retries"`
}

// ScryptConfig holds password hashing work factors.
type ScryptConfig struct {
	LogN uint8 `koanf:"log_n"`
	R    int   `koanf:"r"`
	P    int   `koanf:"p"`
}

// Params converts the configuration to hasher parameters.
func (c ScryptConfig) Params() auth.Params {
	return auth.Params{LogN: c.LogN, R: c.R, P: c.P}
}

// SessionConfig holds token lifetimes.
type SessionConfig struct {
	AccessLifetime  time.Duration `koanf:"access_lifetime"`
	RefreshLifetime time.Duration `koanf:"refresh_lifetime"`
}

// ObservabilityConfig holds the metrics/health listener settings. An
// empty address disables the observability server.
type ObservabilityConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Format string `koanf:"format"`
}

// defaults is the base configuration layer. The database URL has no
// default; it must come from the file or flags.
func defaults() map[string]any {
	params := auth.RecommendedParams()
	return map[string]any{
		"server.addr":             ":8080",
		"database.max_conns":      8,
		"database.min_conns":      0,
		"database.ping_retries":   5,
		"scrypt.log_n":            int(params.LogN),
		"scrypt.r":                params.R,
		"scrypt.p":                params.P,
		"session.access_lifetime": "30m",
		"session.refresh_lifetime": "168h",
		"observability.addr":      "127.0.0.1:9100",
		"log.format":              "json",
	}
}

// Load builds the configuration from defaults, then a YAML file, then
// the given flag set (skipped when nil). Later layers win. When path is
// empty the XDG config file is used if it exists; an explicit path must
// exist.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_DEFAULTS_FAILED").Wrap(err)
	}

	if path == "" {
		if candidate := xdg.DefaultConfigFile(); fileExists(candidate) {
			path = candidate
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required")
	}
	if err := c.Scrypt.Params().Validate(); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if c.Session.AccessLifetime <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("session.access_lifetime must be positive")
	}
	if c.Session.RefreshLifetime <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("session.refresh_lifetime must be positive")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	return nil
}
