// Package config loads bridge configuration from YAML with environment
// variable overrides.
//
// Priority: defaults, then the YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config configures the bridge client and the engine bootstrap.
type Config struct {
	// Source is the directory the engine loads its compiled function and
	// type definitions from.
	Source string `yaml:"source"`
	// Env is passed to the engine alongside the process environment.
	Env map[string]string `yaml:"env"`
	// Client selects engine client routing.
	Client ClientConfig `yaml:"client"`
	// Limit bounds call dispatch.
	Limit LimitConfig `yaml:"limit"`
	// Log configures bridge logging.
	Log LogConfig `yaml:"log"`
}

// ClientConfig names the engine clients and the primary among them.
type ClientConfig struct {
	Primary string                    `yaml:"primary"`
	Clients map[string]ClientEndpoint `yaml:"clients"`
}

// ClientEndpoint is one named engine client.
type ClientEndpoint struct {
	Provider string            `yaml:"provider"`
	Model    string            `yaml:"model"`
	Options  map[string]string `yaml:"options"`
}

// LimitConfig bounds call dispatch. Zero RPS disables limiting.
type LimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// LogConfig configures bridge logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Source: "baml_src",
		Limit:  LimitConfig{Burst: 1},
		Log:    LogConfig{Level: "info"},
	}
}

// Loader loads a Config from a YAML file plus environment overrides.
type Loader struct {
	path      string
	envPrefix string
}

// NewLoader creates a loader with no file path and the TYPEBRIDGE env
// prefix.
func NewLoader() *Loader {
	return &Loader{envPrefix: "TYPEBRIDGE"}
}

// WithPath sets the YAML file to read. An empty path skips file loading.
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

// WithEnvPrefix overrides the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load produces the merged configuration.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()
	if l.path != "" {
		data, err := os.ReadFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", l.path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", l.path, err)
		}
	}
	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) applyEnv(cfg *Config) error {
	if v, ok := l.env("SOURCE"); ok {
		cfg.Source = v
	}
	if v, ok := l.env("CLIENT_PRIMARY"); ok {
		cfg.Client.Primary = v
	}
	if v, ok := l.env("LIMIT_RPS"); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s_LIMIT_RPS: %w", l.envPrefix, err)
		}
		cfg.Limit.RPS = rps
	}
	if v, ok := l.env("LIMIT_BURST"); ok {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s_LIMIT_BURST: %w", l.envPrefix, err)
		}
		cfg.Limit.Burst = burst
	}
	if v, ok := l.env("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	return nil
}

func (l *Loader) env(key string) (string, bool) {
	return os.LookupEnv(l.envPrefix + "_" + key)
}
