// Package config loads es-outfitter settings from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	AppName        = "es-outfitter"
	ConfigFileName = "config.toml"
	EnvPrefix      = "OUTFITTER"
)

// Config holds every setting.
type Config struct {
	GitHubToken string        `mapstructure:"github_token"`
	APIBaseURL  string        `mapstructure:"api_base_url"`
	RawBaseURL  string        `mapstructure:"raw_base_url"`
	BaseURL     string        `mapstructure:"base_url"`
	Format      string        `mapstructure:"format"`
	DBPath      string        `mapstructure:"db_path"`
	Concurrency int           `mapstructure:"concurrency"`
	CacheSize   int           `mapstructure:"cache_size"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	LogLevel    string        `mapstructure:"log_level"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:  "https://api.github.com/",
		RawBaseURL:  "https://raw.githubusercontent.com",
		BaseURL:     "https://github.com/endless-sky/endless-sky",
		Format:      "json",
		DBPath:      defaultDBPath(),
		Concurrency: 8,
		CacheSize:   256,
		HTTPTimeout: 30 * time.Second,
		LogLevel:    "info",
	}
}

func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "outfitter.db"
	}
	return filepath.Join(homeDir, ".es-outfitter", "outfitter.db")
}

// Dir returns $XDG_CONFIG_HOME/es-outfitter, defaulting to ~/.config.
func Dir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, AppName), nil
}

// DefaultPath is the config file used when none is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads path (or the default file when path is empty) on top of the
// defaults, then applies OUTFITTER_* variables. GITHUB_TOKEN is honoured for
// the token. A missing default file is not an error; a missing explicit one is.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("github_token", defaults.GitHubToken)
	v.SetDefault("api_base_url", defaults.APIBaseURL)
	v.SetDefault("raw_base_url", defaults.RawBaseURL)
	v.SetDefault("base_url", defaults.BaseURL)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("cache_size", defaults.CacheSize)
	v.SetDefault("http_timeout", defaults.HTTPTimeout)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("github_token", EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the loader cannot coerce.
func (c *Config) Validate() error {
	switch c.Format {
	case "json", "compact":
	default:
		return fmt.Errorf("format must be json or compact, got %q", c.Format)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be positive, got %d", c.CacheSize)
	}
	return nil
}

// WriteDefault writes the default settings to path as TOML. An existing file
// is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := DefaultConfig()
	b, err := toml.Marshal(tomlConfig{
		APIBaseURL:  cfg.APIBaseURL,
		RawBaseURL:  cfg.RawBaseURL,
		BaseURL:     cfg.BaseURL,
		Format:      cfg.Format,
		DBPath:      cfg.DBPath,
		Concurrency: cfg.Concurrency,
		CacheSize:   cfg.CacheSize,
		HTTPTimeout: cfg.HTTPTimeout.String(),
		LogLevel:    cfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, b, 0644)
}

// tomlConfig is the on-disk shape written by WriteDefault. The token is left
// out.
type tomlConfig struct {
	APIBaseURL  string `toml:"api_base_url"`
	RawBaseURL  string `toml:"raw_base_url"`
	BaseURL     string `toml:"base_url"`
	Format      string `toml:"format"`
	DBPath      string `toml:"db_path"`
	Concurrency int    `toml:"concurrency"`
	CacheSize   int    `toml:"cache_size"`
	HTTPTimeout string `toml:"http_timeout"`
	LogLevel    string `toml:"log_level"`
}
