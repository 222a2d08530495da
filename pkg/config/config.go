// Package config loads migration-run configuration from a .env file,
// config.yaml, or the process environment. It is the configuration
// collaborator: the engine core only ever sees the resolved Params value.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/everline-data/sqlbridge/pkg/engine"
)

// Config holds all configuration for a migration run.
// Configuration can come from a .env file, config.yaml, or environment
// variables; the environment always overrides file values. Secrets
// (passwords) must only come from environment variables or .env.
type Config struct {
	Database DatabaseConfig `yaml:"database"`

	// ExcelPath points at the workbook consumed by the import scripts.
	ExcelPath string `yaml:"excel_path" env:"EXCEL_PATH" env-default:""`

	// LogLevel controls script logging: debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

// DatabaseConfig holds the target database connection settings.
type DatabaseConfig struct {
	Engine   string `yaml:"engine" env:"DB_ENGINE"`
	Host     string `yaml:"host" env:"DB_SERVER"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"0"` // 0 = engine default
	Database string `yaml:"database" env:"DB_NAME"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"-" env:"DB_PASSWORD"` // Secret - not in YAML

	// SSLMode is passed through to engines that understand it (PostgreSQL).
	SSLMode string `yaml:"ssl_mode" env:"DB_SSLMODE" env-default:""`
	// Encrypt is passed through to SQL Server ("true", "false", "strict").
	Encrypt string `yaml:"encrypt" env:"DB_ENCRYPT" env-default:""`
}

// configFiles are probed in order; the first one present is loaded before
// environment overrides apply.
var configFiles = []string{".env", "config.yaml"}

// Load reads configuration from the first config file found, then applies
// environment variable overrides. With no config file present, only the
// environment is read.
func Load() (*Config, error) {
	cfg := &Config{}

	for _, path := range configFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// Params resolves the database settings into the engine's connection
// parameters. Selector parsing happens here; presence validation is the
// engine factory's job.
func (c *Config) Params() (engine.Params, error) {
	kind, err := engine.ParseKind(c.Database.Engine)
	if err != nil {
		return engine.Params{}, err
	}

	options := map[string]string{}
	if c.Database.SSLMode != "" {
		options["sslmode"] = c.Database.SSLMode
	}
	if c.Database.Encrypt != "" {
		options["encrypt"] = c.Database.Encrypt
	}

	return engine.Params{
		Engine:   kind,
		Host:     resolveHost(c.Database.Host, runningInDocker()),
		Port:     c.Database.Port,
		Database: c.Database.Database,
		User:     c.Database.User,
		Password: c.Database.Password,
		Options:  options,
	}, nil
}
