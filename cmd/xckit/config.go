package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const envConfig = "XCKIT_CONFIG"

// Config represents the xckit configuration file (~/.config/xckit/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	Workers *int64 `yaml:"workers"`
	Deriv   *int64 `yaml:"deriv"`
	Spin    string `yaml:"spin"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string   `yaml:"server_address"`
	RateLimit     *float64 `yaml:"rate_limit"`
	RateBurst     *int64   `yaml:"rate_burst"`
	MaxPoints     *int64   `yaml:"max_points"`
	StoreSize     *int64   `yaml:"store_size"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "xckit", "config.yaml")
}

// LoadConfig reads the config file. A missing file yields a zero Config; a
// malformed one is an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// applyGlobalConfig applies config file defaults to root flags that were not
// set explicitly.
func applyGlobalConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyEngineConfig applies config file defaults to evaluation flags.
func applyEngineConfig(c *cli.Command, cfg Config, deriv *int64, spin *string) {
	if cfg.Workers != nil && !c.IsSet("workers") {
		workers = *cfg.Workers
	}
	if deriv != nil && cfg.Deriv != nil && !c.IsSet("deriv") {
		*deriv = *cfg.Deriv
	}
	if spin != nil && cfg.Spin != "" && !c.IsSet("spin") {
		*spin = cfg.Spin
	}
}

// serveSettings are the server knobs that can change on config reload.
type serveSettings struct {
	addr      string
	rateLimit float64
	rateBurst int64
	maxPoints int64
	storeSize int64
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, s *serveSettings) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		s.addr = cfg.ServerAddress
	}
	if cfg.RateLimit != nil && !c.IsSet("rate-limit") {
		s.rateLimit = *cfg.RateLimit
	}
	if cfg.RateBurst != nil && !c.IsSet("rate-burst") {
		s.rateBurst = *cfg.RateBurst
	}
	if cfg.MaxPoints != nil && !c.IsSet("max-points") {
		s.maxPoints = *cfg.MaxPoints
	}
	if cfg.StoreSize != nil && !c.IsSet("store-size") {
		s.storeSize = *cfg.StoreSize
	}
}
