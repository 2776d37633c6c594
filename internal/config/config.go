package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Tracking  TrackingConfig  `yaml:"tracking"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// TrackingConfig holds the training-domain knobs: the day-boundary
// timezone, the display weight unit, the decline tolerance for progression
// analysis, and the default rest interval.
type TrackingConfig struct {
	Timezone         string  `yaml:"timezone"`
	WeightUnit       string  `yaml:"weight_unit"`
	DeclineTolerance float64 `yaml:"decline_tolerance"`
	RestSeconds      int     `yaml:"rest_seconds"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Location resolves the configured timezone; empty means UTC.
func (t TrackingConfig) Location() (*time.Location, error) {
	if t.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(t.Timezone)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix FITNOTES_ and underscore-separated
// paths:
//
//	FITNOTES_SERVER_HOST, FITNOTES_SERVER_PORT,
//	FITNOTES_DB_HOST, FITNOTES_DB_PORT, FITNOTES_DB_NAME,
//	FITNOTES_DB_USER, FITNOTES_DB_PASSWORD, FITNOTES_DB_SSLMODE,
//	FITNOTES_AUTH_API_KEY, FITNOTES_TIMEZONE, FITNOTES_WEIGHT_UNIT
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FITNOTES_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("FITNOTES_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FITNOTES_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("FITNOTES_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("FITNOTES_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("FITNOTES_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("FITNOTES_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("FITNOTES_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("FITNOTES_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("FITNOTES_TIMEZONE"); v != "" {
		cfg.Tracking.Timezone = v
	}
	if v := os.Getenv("FITNOTES_WEIGHT_UNIT"); v != "" {
		cfg.Tracking.WeightUnit = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Tracking.WeightUnit == "" {
		cfg.Tracking.WeightUnit = "kg"
	}
	if cfg.Tracking.DeclineTolerance == 0 {
		cfg.Tracking.DeclineTolerance = 0.10
	}
	if cfg.Tracking.RestSeconds == 0 {
		cfg.Tracking.RestSeconds = 90
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Tracking.WeightUnit != "kg" && c.Tracking.WeightUnit != "lb" {
		return fmt.Errorf("tracking.weight_unit must be kg or lb, got %q", c.Tracking.WeightUnit)
	}
	if c.Tracking.DeclineTolerance < 0 || c.Tracking.DeclineTolerance >= 1 {
		return fmt.Errorf("tracking.decline_tolerance must be in [0, 1), got %v", c.Tracking.DeclineTolerance)
	}
	if c.Tracking.RestSeconds < 0 {
		return fmt.Errorf("tracking.rest_seconds must be non-negative, got %d", c.Tracking.RestSeconds)
	}
	if _, err := c.Tracking.Location(); err != nil {
		return fmt.Errorf("tracking.timezone: %w", err)
	}
	return nil
}
