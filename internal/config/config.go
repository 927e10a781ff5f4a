package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // the tracker zone must resolve on hosts without a zoneinfo database

	"click-tracker/internal/token"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath     = "configs/config.yaml"
	DefaultPort     = 5000
	DefaultSecret   = token.DefaultSecret
	DefaultTimezone = "America/Santiago"
)

// Config is the top-level configuration
type Config struct {
	App      App     `yaml:"app"`
	Server   Server  `yaml:"server"`
	Database DB      `yaml:"database"`
	Tracker  Tracker `yaml:"tracker"`
	Log      Log     `yaml:"log"`
}

// App describes the running application
type App struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode"`
	Version string `yaml:"version"`
}

// Server holds HTTP server settings, timeouts in seconds
type Server struct {
	Port            int `yaml:"port"`
	ReadTimeout     int `yaml:"read_timeout"`
	WriteTimeout    int `yaml:"write_timeout"`
	ShutdownTimeout int `yaml:"shutdown_timeout"`
}

// DB holds the connection URL and pool limits
type DB struct {
	URL                    string `yaml:"url"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Tracker holds the click-tracking settings
type Tracker struct {
	Secret              string `yaml:"secret"`
	Timezone            string `yaml:"timezone"`
	RecordTimeoutMillis int    `yaml:"record_timeout_ms"`
	StatusTimeoutMillis int    `yaml:"status_timeout_ms"`
}

// Log holds logger settings. An empty File logs to stdout only.
type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		App: App{Name: "click-tracker", Mode: "development", Version: "1.0.0"},
		Server: Server{
			Port:            DefaultPort,
			ReadTimeout:     10,
			WriteTimeout:    10,
			ShutdownTimeout: 10,
		},
		Database: DB{
			MaxOpenConns:           10,
			MaxIdleConns:           5,
			ConnMaxLifetimeMinutes: 30,
		},
		Tracker: Tracker{
			Secret:              DefaultSecret,
			Timezone:            DefaultTimezone,
			RecordTimeoutMillis: 5000,
			StatusTimeoutMillis: 2000,
		},
		Log: Log{
			Level:      "info",
			File:       "./logs/app.log",
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
		},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides and validates the result. A missing file is fine.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT %q is not a number", v)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("TRACKER_SECRET"); v != "" {
		c.Tracker.Secret = v
	}
	if v := os.Getenv("TRACKER_TIMEZONE"); v != "" {
		c.Tracker.Timezone = v
	}
	if v := os.Getenv("APP_MODE"); v != "" {
		c.App.Mode = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks the values the service cannot start without
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	if c.Tracker.Secret == "" {
		return errors.New("tracker secret is empty")
	}
	if _, err := c.Tracker.Location(); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// IsProduction reports whether gin should run in release mode
func (c *Config) IsProduction() bool {
	return c.App.Mode == "production"
}

// UsesDefaultSecret reports whether links are verified with the compiled-in secret
func (t Tracker) UsesDefaultSecret() bool {
	return t.Secret == DefaultSecret
}

// Location resolves the zone click timestamps are recorded in
func (t Tracker) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", t.Timezone, err)
	}
	return loc, nil
}

// RecordTimeout bounds the click update
func (t Tracker) RecordTimeout() time.Duration {
	if t.RecordTimeoutMillis <= 0 {
		return 5 * time.Second
	}
	return time.Duration(t.RecordTimeoutMillis) * time.Millisecond
}

// StatusTimeout bounds the /status database check
func (t Tracker) StatusTimeout() time.Duration {
	if t.StatusTimeoutMillis <= 0 {
		return 2 * time.Second
	}
	return time.Duration(t.StatusTimeoutMillis) * time.Millisecond
}
