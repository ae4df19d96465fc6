package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"PORT"`
		Mode        string `yaml:"mode" env:"MODE"`
		StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`
		PublicURL   string `yaml:"public_url" env:"PUBLIC_URL"`
	} `yaml:"server" envPrefix:"SERVER_"`

	Database struct {
		Driver          string `yaml:"driver" env:"DRIVER"`
		Host            string `yaml:"host" env:"HOST"`
		Port            string `yaml:"port" env:"PORT"`
		User            string `yaml:"user" env:"USER"`
		Password        string `yaml:"password" env:"PASSWORD"`
		DBName          string `yaml:"dbname" env:"NAME"`
		SSLMode         string `yaml:"sslmode" env:"SSLMODE"`
		SQLitePath      string `yaml:"sqlite_path" env:"SQLITE_PATH"`
		MigrationsDir   string `yaml:"migrations_dir" env:"MIGRATIONS_DIR"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
	} `yaml:"database" envPrefix:"DB_"`

	JWT struct {
		Secret                string `yaml:"secret" env:"SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"ISSUER"`
	} `yaml:"jwt" envPrefix:"JWT_"`

	Logging struct {
		Level  string `yaml:"level" env:"LEVEL"`
		Format string `yaml:"format" env:"FORMAT"`
	} `yaml:"logging" envPrefix:"LOG_"`

	Scheduler struct {
		Enabled    bool   `yaml:"enabled" env:"ENABLED"`
		Timezone   string `yaml:"timezone" env:"TIMEZONE"`
		Spec       string `yaml:"spec" env:"SPEC"`
		RunOnStart bool   `yaml:"run_on_start" env:"RUN_ON_START"`
	} `yaml:"scheduler" envPrefix:"SCHEDULER_"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"ENABLED"`
		Path    string `yaml:"path" env:"PATH"`
	} `yaml:"metrics" envPrefix:"METRICS_"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "studyhub"
	config.Database.SSLMode = "disable"
	config.Database.SQLitePath = "studyhub.db"
	config.Database.MigrationsDir = "migrations"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.Issuer = "studyhub.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Scheduler.Enabled = true
	config.Scheduler.Timezone = "UTC"
	config.Scheduler.Spec = "0 0 * * *"

	config.Metrics.Enabled = true
	config.Metrics.Path = "/metrics"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case DriverSQLite:
		if config.Database.SQLitePath == "" {
			return fmt.Errorf("database sqlite_path is required")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database conn_max_lifetime: %w", err)
	}

	if _, err := time.LoadLocation(config.Scheduler.Timezone); err != nil {
		return fmt.Errorf("invalid scheduler timezone %q: %w", config.Scheduler.Timezone, err)
	}

	if strings.TrimSpace(config.Scheduler.Spec) == "" {
		return fmt.Errorf("scheduler spec is required")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// Location returns the scheduler time zone. validateConfig guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BaseURL is the externally reachable address of the API.
func (c *Config) BaseURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
