// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	ierr "github.com/mark3labs/astroguide/internal/errors"
)

// Readings store backends.
const (
	StoreBackend  = "backend"
	StorePostgres = "postgres"
)

// Config holds all configuration values for astroguide.
type Config struct {
	CalcURL        string `mapstructure:"calc_url" yaml:"calc_url"`
	GeocodeURL     string `mapstructure:"geocode_url" yaml:"geocode_url,omitempty"`
	GeocodeToken   string `mapstructure:"geocode_token" yaml:"geocode_token,omitempty"`
	BackendURL     string `mapstructure:"backend_url" yaml:"backend_url,omitempty"`
	BackendKey     string `mapstructure:"backend_key" yaml:"backend_key,omitempty"`
	ReadingsStore  string `mapstructure:"readings_store" yaml:"readings_store"`
	DatabaseDSN    string `mapstructure:"database_dsn" yaml:"database_dsn,omitempty"`
	DataDir        string `mapstructure:"data_dir" yaml:"data_dir"`
	ExportDir      string `mapstructure:"export_dir" yaml:"export_dir"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
	LogFile        string `mapstructure:"log_file" yaml:"log_file,omitempty"`
	RequestTimeout int    `mapstructure:"request_timeout" yaml:"request_timeout"` // seconds
}

// keys lists every setting; each is bound to ASTROGUIDE_<KEY>.
var keys = []string{
	"calc_url", "geocode_url", "geocode_token", "backend_url", "backend_key",
	"readings_store", "database_dsn", "data_dir", "export_dir",
	"log_level", "log_file", "request_timeout",
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		CalcURL:        "http://localhost:8000",
		GeocodeURL:     "https://api.mapbox.com/geocoding/v5/mapbox.places",
		ReadingsStore:  StoreBackend,
		DataDir:        DefaultDataDir(),
		ExportDir:      ".",
		LogLevel:       "info",
		RequestTimeout: 30,
	}
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("astroguide")

	def := Default()
	v.SetDefault("calc_url", def.CalcURL)
	v.SetDefault("geocode_url", def.GeocodeURL)
	v.SetDefault("geocode_token", "")
	v.SetDefault("backend_url", "")
	v.SetDefault("backend_key", "")
	v.SetDefault("readings_store", def.ReadingsStore)
	v.SetDefault("database_dsn", "")
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("export_dir", def.ExportDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("request_timeout", def.RequestTimeout)

	v.SetEnvPrefix("ASTROGUIDE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range keys {
		if err := v.BindEnv(key, "ASTROGUIDE_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks settings that must be coherent at process start.
// A missing geocode token is not checked here; it is reported on first use.
func (c *Config) Validate() error {
	const op = "config"

	if c.CalcURL == "" {
		return ierr.New(ierr.KindConfiguration, op, "calc_url must be set")
	}
	if (c.BackendURL == "") != (c.BackendKey == "") {
		return ierr.New(ierr.KindConfiguration, op,
			"backend_url and backend_key must be set together (or both left empty to disable accounts)")
	}
	switch c.ReadingsStore {
	case StoreBackend, "":
	case StorePostgres:
		if c.DatabaseDSN == "" {
			return ierr.New(ierr.KindConfiguration, op, "readings_store is postgres but database_dsn is empty")
		}
	default:
		return ierr.New(ierr.KindConfiguration, op,
			fmt.Sprintf("unknown readings_store %q: use %s or %s", c.ReadingsStore, StoreBackend, StorePostgres))
	}
	if c.LogLevel != "" {
		switch strings.ToLower(c.LogLevel) {
		case "debug", "info", "warn", "error":
		default:
			return ierr.New(ierr.KindConfiguration, op, fmt.Sprintf("invalid log_level %q", c.LogLevel))
		}
	}
	if c.RequestTimeout < 0 {
		return ierr.New(ierr.KindConfiguration, op, "request_timeout must not be negative")
	}
	return nil
}

// AccountsEnabled reports whether sign-in and saved readings are available.
func (c *Config) AccountsEnabled() bool {
	return c.BackendURL != "" && c.BackendKey != ""
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/astroguide/astroguide.yml or $XDG_CONFIG_HOME/astroguide/astroguide.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "astroguide", "astroguide.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "astroguide", "astroguide.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "astroguide.yml"
}

// DefaultDataDir returns $XDG_DATA_HOME/astroguide or ~/.local/share/astroguide.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "astroguide")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "astroguide")
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	// The file may hold API tokens.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
