package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nrtkbb/fsorg/models"
	"github.com/nrtkbb/fsorg/organize"
)

const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

type Config struct {
	StoreBackend   string   `yaml:"store_backend"`
	BasePath       string   `yaml:"base_path"`
	DatabasePath   string   `yaml:"database_path"`
	Journal        bool     `yaml:"journal"`
	LogLevel       string   `yaml:"log_level"`
	LogFormat      string   `yaml:"log_format"`
	Tracing        bool     `yaml:"tracing"`
	ComponentOrder []string `yaml:"component_order"`
	ListenAddr     string   `yaml:"listen_addr"`
}

// DefaultPath is $HOME/.config/fsorg/config.yaml.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".config", "fsorg", "config.yaml")
}

func DefaultConfig() *Config {
	home := homeDir()
	return &Config{
		StoreBackend: BackendCSV,
		BasePath:     home,
		DatabasePath: filepath.Join(home, ".config", "fsorg", "fsorg.db"),
		LogLevel:     "info",
		LogFormat:    "console",
		ListenAddr:   "127.0.0.1:8080",
	}
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cfg.BasePath = expandHome(cfg.BasePath)
	cfg.DatabasePath = expandHome(cfg.DatabasePath)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendCSV, BackendSQLite:
	default:
		return fmt.Errorf("%w: store_backend must be %q or %q, got %q", models.ErrInvalidInput, BackendCSV, BackendSQLite, c.StoreBackend)
	}
	if _, err := c.Order(); err != nil {
		return err
	}
	return nil
}

// Order is the default file name component order. An empty order leaves
// the canonical organize.Components order in effect.
func (c *Config) Order() ([]organize.Component, error) {
	return organize.ParseOrder(strings.Join(c.ComponentOrder, ","))
}

// NeedsDatabase reports whether any configured feature uses SQLite.
func (c *Config) NeedsDatabase() bool {
	return c.StoreBackend == BackendSQLite || c.Journal
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func expandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// FromArgs returns the configuration passed to subcommands.Execute, or the
// defaults when none was passed.
func FromArgs(args ...interface{}) *Config {
	for _, arg := range args {
		if cfg, ok := arg.(*Config); ok && cfg != nil {
			return cfg
		}
	}
	return DefaultConfig()
}
