// Package config loads the diffdetector.yml service configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted by Resolve when no
// explicit path is given.
const EnvConfigPath = "DIFFDETECTOR_CONFIG"

// Defaults applied before a config file is read.
const (
	DefaultAddr            = ":8080"
	DefaultMaxBodyBytes    = 16 << 20
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultBackend         = "memory"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
	DefaultMaxLogSizeMB    = 100
	DefaultMaxLogBackups   = 3
)

// Config is the full service configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	MCP    MCPConfig    `yaml:"mcp"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig controls the REST listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	MaxBodyBytes    int64         `yaml:"maxBodyBytes" validate:"gt=0"`
	ReadTimeout     time.Duration `yaml:"readTimeout" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" validate:"gt=0"`
}

// StoreConfig selects the slot store backend.
type StoreConfig struct {
	Backend string `yaml:"backend" validate:"backend"`
}

// MCPConfig controls the Model Context Protocol endpoint mounted at /mcp.
type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LogConfig defines configuration for logging.
type LogConfig struct {
	Level      string `yaml:"level,omitempty" validate:"omitempty,loglevel"`
	Format     string `yaml:"format,omitempty" validate:"omitempty,logformat"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"maxSizeMB,omitempty" validate:"gte=0"`
	MaxBackups int    `yaml:"maxBackups,omitempty" validate:"gte=0"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			MaxBodyBytes:    DefaultMaxBodyBytes,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Store: StoreConfig{Backend: DefaultBackend},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			Format:     DefaultLogFormat,
			MaxSizeMB:  DefaultMaxLogSizeMB,
			MaxBackups: DefaultMaxLogBackups,
		},
	}
}

// Load attempts to read diffdetector.yml or diffdetector.yaml from the given
// directory. Returns the validated defaults (not an error) if no config file
// exists.
func Load(dir string) (*Config, error) {
	for _, name := range []string{"diffdetector.yml", "diffdetector.yaml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path)
	}
	cfg := Default()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads the YAML file at path over the defaults and validates the
// result.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve loads the configuration from an explicit path, then from the path
// in $DIFFDETECTOR_CONFIG, then from dir.
func Resolve(path, dir string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		cfg, err := LoadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: %s does not exist", path)
		}
		return cfg, err
	}
	return Load(dir)
}
