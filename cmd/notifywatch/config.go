package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/yigit/studyhub/internal/poller"
)

// watchConfig is the resolved configuration of the watcher. Flags win over
// STUDYHUB_* environment variables, which win over the config file.
type watchConfig struct {
	Server   string        `mapstructure:"server"`
	Token    string        `mapstructure:"token"`
	Email    string        `mapstructure:"email"`
	Password string        `mapstructure:"password"`
	Interval time.Duration `mapstructure:"interval"`
	LogFile  string        `mapstructure:"log-file"`
	LogLevel string        `mapstructure:"log-level"`
}

var errNoCredentials = errors.New("either --token or --email and --password are required")

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("notifywatch", pflag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file")
	fs.String("server", "http://localhost:8080", "StudyHub API base URL")
	fs.String("token", "", "bearer token; skips login when set")
	fs.String("email", "", "login email")
	fs.String("password", "", "login password")
	fs.Duration("interval", poller.DefaultInterval, "refresh interval")
	fs.String("log-file", "", "write logs to this file instead of discarding them")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	return fs
}

func loadConfig(args []string) (*watchConfig, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("STUDYHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := &watchConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Server = strings.TrimRight(cfg.Server, "/")
	if cfg.Server == "" {
		return nil, errors.New("server URL is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", cfg.Interval)
	}
	if cfg.Token == "" && (cfg.Email == "" || cfg.Password == "") {
		return nil, errNoCredentials
	}
	return cfg, nil
}
